package domain

// WordStatus represents the study state of a word for a particular student.
//
// Transitions:
//
//	NEVER_TESTED -> PASSED | FAILED        (test verdict)
//	PASSED | FAILED -> PASSED | FAILED     (any later test overwrites)
//	PASSED | FAILED | NEVER_TESTED -> MASTERED   (graduation from a review segment)
//	MASTERED -> NEEDS_CHECK                (mastery window elapsed)
//	NEEDS_CHECK -> PASSED | FAILED         (re-test)
//
// Tests are the only writer of PASSED/FAILED. Appearing in a review queue
// never changes status.
type WordStatus string

const (
	WordStatusNeverTested WordStatus = "NEVER_TESTED"
	WordStatusPassed      WordStatus = "PASSED"
	WordStatusFailed      WordStatus = "FAILED"
	WordStatusMastered    WordStatus = "MASTERED"
	WordStatusNeedsCheck  WordStatus = "NEEDS_CHECK"
)

func (s WordStatus) String() string { return string(s) }

func (s WordStatus) IsValid() bool {
	switch s {
	case WordStatusNeverTested, WordStatusPassed, WordStatusFailed,
		WordStatusMastered, WordStatusNeedsCheck:
		return true
	}
	return false
}

// IsUntested reports whether the word carries no usable test signal yet.
// NEEDS_CHECK counts as untested for queue-priority purposes: prior mastery
// says nothing about recall after the return window has elapsed.
func (s WordStatus) IsUntested() bool {
	return s == WordStatusNeverTested || s == WordStatusNeedsCheck
}

// SessionPhase represents the position of a daily session in its state machine.
type SessionPhase string

const (
	PhaseNewWords    SessionPhase = "NEW_WORDS"
	PhaseNewWordTest SessionPhase = "NEW_WORD_TEST"
	PhaseReviewStudy SessionPhase = "REVIEW_STUDY"
	PhaseReviewTest  SessionPhase = "REVIEW_TEST"
	PhaseComplete    SessionPhase = "COMPLETE"
)

func (p SessionPhase) String() string { return string(p) }

func (p SessionPhase) IsValid() bool {
	switch p {
	case PhaseNewWords, PhaseNewWordTest, PhaseReviewStudy, PhaseReviewTest, PhaseComplete:
		return true
	}
	return false
}

// TestMode distinguishes how a test's verdicts are produced.
// Multiple-choice verdicts are computed locally by option identity;
// free-text answers go through the external grading oracle.
type TestMode string

const (
	TestModeMultipleChoice TestMode = "MULTIPLE_CHOICE"
	TestModeFreeText       TestMode = "FREE_TEXT"
)

func (m TestMode) String() string { return string(m) }

func (m TestMode) IsValid() bool {
	switch m {
	case TestModeMultipleChoice, TestModeFreeText:
		return true
	}
	return false
}
