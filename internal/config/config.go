package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Study    StudyConfig    `yaml:"study"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// StudyConfig holds the adaptive scheduling parameters.
//
// MasteryReturnDays and BlindSpotStaleDays currently share the same default
// but are independent knobs: one governs when a MASTERED word re-enters the
// active pool, the other when an untouched word counts as a blind spot.
type StudyConfig struct {
	DefaultDailyPace   int     `yaml:"default_daily_pace"    env:"STUDY_DEFAULT_DAILY_PACE"    env-default:"20"`
	StudyDaysPerWeek   int     `yaml:"study_days_per_week"   env:"STUDY_DAYS_PER_WEEK"         env-default:"5"`
	NewWordPassScore   float64 `yaml:"new_word_pass_score"   env:"STUDY_NEW_WORD_PASS_SCORE"   env-default:"0.95"`
	MasteryReturnDays  int     `yaml:"mastery_return_days"   env:"STUDY_MASTERY_RETURN_DAYS"   env-default:"21"`
	BlindSpotStaleDays int     `yaml:"blind_spot_stale_days" env:"STUDY_BLIND_SPOT_STALE_DAYS" env-default:"21"`
	MaxTestSize        int     `yaml:"max_test_size"         env:"STUDY_MAX_TEST_SIZE"         env-default:"20"`
}

// MasteryReturnWindow returns the mastery return period as a duration.
func (s StudyConfig) MasteryReturnWindow() time.Duration {
	return time.Duration(s.MasteryReturnDays) * 24 * time.Hour
}

// BlindSpotStaleness returns the blind-spot staleness threshold as a duration.
func (s StudyConfig) BlindSpotStaleness() time.Duration {
	return time.Duration(s.BlindSpotStaleDays) * 24 * time.Hour
}
