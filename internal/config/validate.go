package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Study.Validate(); err != nil {
		return fmt.Errorf("study: %w", err)
	}
	return nil
}

// Validate checks the study parameters. Exposed separately so the study
// service can fail fast when constructed with a hand-built config.
func (s StudyConfig) Validate() error {
	if s.DefaultDailyPace <= 0 {
		return fmt.Errorf("default_daily_pace must be > 0 (got %d)", s.DefaultDailyPace)
	}
	if s.StudyDaysPerWeek < 1 || s.StudyDaysPerWeek > 7 {
		return fmt.Errorf("study_days_per_week must be in [1,7] (got %d)", s.StudyDaysPerWeek)
	}
	if s.NewWordPassScore <= 0 || s.NewWordPassScore > 1 {
		return fmt.Errorf("new_word_pass_score must be in (0,1] (got %v)", s.NewWordPassScore)
	}
	if s.MasteryReturnDays <= 0 {
		return fmt.Errorf("mastery_return_days must be > 0 (got %d)", s.MasteryReturnDays)
	}
	if s.BlindSpotStaleDays <= 0 {
		return fmt.Errorf("blind_spot_stale_days must be > 0 (got %d)", s.BlindSpotStaleDays)
	}
	if s.MaxTestSize <= 0 {
		return fmt.Errorf("max_test_size must be > 0 (got %d)", s.MaxTestSize)
	}
	return nil
}
