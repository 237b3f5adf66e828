package pcre

import (
	"log/slog"

	"github.com/coregx/pcre/engine"
)

// Config controls how a pattern is compiled and matched.
//
// Example:
//
//	config := pcre.DefaultConfig()
//	config.MatchLimit = 100_000
//	config.Logger = slog.Default()
//	re, err := pcre.CompileWithConfig(`(a+)+b`, pcre.CompileOptions{}, config)
type Config struct {
	// Engine compiles and runs the pattern.
	// Default: nil, which selects engine.Default()
	Engine engine.Engine

	// Logger receives debug records about compilation, study and release.
	// Default: nil, which discards them
	Logger *slog.Logger

	// MatchLimit caps the work of one match attempt. Setting it forces study
	// data into existence so the limit can be installed.
	// Default: 0 (engine default)
	MatchLimit uint32

	// MatchLimitRecursion caps the recursion depth of one match attempt.
	// Default: 0 (engine default)
	MatchLimitRecursion uint32
}

// DefaultConfig returns a configuration using the default engine, no logging
// and the engine's own match limits.
func DefaultConfig() Config {
	return Config{}
}

// Validate checks if the configuration is valid. The limits are passed to the
// engine as given; only an engine without a name is rejected.
func (c Config) Validate() error {
	if c.Engine != nil && c.Engine.Name() == "" {
		return &ConfigError{
			Field:   "Engine",
			Message: "engine has no name",
		}
	}
	return nil
}

func (c Config) hasLimits() bool {
	return c.MatchLimit != 0 || c.MatchLimitRecursion != 0
}

func (c Config) engine() (engine.Engine, error) {
	if c.Engine != nil {
		return c.Engine, nil
	}
	return engine.Default()
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
