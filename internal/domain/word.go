package domain

import (
	"time"

	"github.com/google/uuid"
)

// WordList is an ordered collection of words assigned to a class.
type WordList struct {
	ID        uuid.UUID
	Name      string
	WordCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Word is a single vocabulary item inside a list. Position is the word's
// fixed ordinal within its list (0-indexed) and never changes once assigned.
type Word struct {
	ID         uuid.UUID
	ListID     uuid.UUID
	Position   int
	Text       string
	Definition string
	Example    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
