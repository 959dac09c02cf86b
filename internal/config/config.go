package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is read once at startup. There is no hot-reload; changing any of
// this means restarting the watcher.
type Config struct {
	VenueID   string
	PartySize int

	LookaheadStart int // days out, inclusive
	LookaheadEnd   int // days out, inclusive

	BaseInterval time.Duration
	Jitter       time.Duration
	MinInterval  time.Duration
	MaxPolls     int // 0 means unlimited

	ObsLogPath  string // empty disables the file sink
	DatabaseURL string // empty disables the postgres sink

	CredsPath string
}

// SetDefaults registers the default values on v. The cobra layer calls this
// before binding flags and env.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("party_size", 2)
	v.SetDefault("lookahead_start", 11)
	v.SetDefault("lookahead_end", 15)
	v.SetDefault("base_interval", time.Minute)
	v.SetDefault("jitter", 20*time.Second)
	v.SetDefault("min_interval", 10*time.Second)
	v.SetDefault("max_polls", 0)
	v.SetDefault("creds_path", "")
	v.SetDefault("obslog_path", "")
	v.SetDefault("database_url", "")
}

// Load materializes and validates the configuration. Validation failures
// here are fatal by design: the loop never starts on a bad config.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		VenueID:        v.GetString("venue_id"),
		PartySize:      v.GetInt("party_size"),
		LookaheadStart: v.GetInt("lookahead_start"),
		LookaheadEnd:   v.GetInt("lookahead_end"),
		BaseInterval:   v.GetDuration("base_interval"),
		Jitter:         v.GetDuration("jitter"),
		MinInterval:    v.GetDuration("min_interval"),
		MaxPolls:       v.GetInt("max_polls"),
		ObsLogPath:     v.GetString("obslog_path"),
		DatabaseURL:    v.GetString("database_url"),
		CredsPath:      v.GetString("creds_path"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.VenueID == "" {
		return fmt.Errorf("venue_id is required")
	}
	if c.PartySize < 1 {
		return fmt.Errorf("party_size must be >= 1")
	}
	if c.LookaheadStart < 0 {
		return fmt.Errorf("lookahead_start must be >= 0")
	}
	if c.LookaheadStart > c.LookaheadEnd {
		return fmt.Errorf("lookahead_start (%d) must be <= lookahead_end (%d)", c.LookaheadStart, c.LookaheadEnd)
	}
	if c.BaseInterval <= 0 {
		return fmt.Errorf("base_interval must be positive")
	}
	if c.Jitter < 0 {
		return fmt.Errorf("jitter must be >= 0")
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("min_interval must be positive")
	}
	if c.MaxPolls < 0 {
		return fmt.Errorf("max_polls must be >= 0")
	}
	return nil
}
