package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"klondike/internal/domain"
)

// GameConfig holds the table rules applied to every deal.
type GameConfig struct {
	// DrawCount is the number of cards turned from Stock per draw: 1 or 3.
	DrawCount int `mapstructure:"draw_count"`
	// StrictRuns re-checks that a dragged tableau run is itself ordered.
	StrictRuns bool `mapstructure:"strict_runs"`
	// TickRate is the Nakama match loop rate in ticks per second.
	TickRate int `mapstructure:"tick_rate"`
	// Seed fixes the shuffle for reproducible deals. Zero seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

// DefaultGameConfig returns the classic draw-one table.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		DrawCount: 1,
		TickRate:  5,
	}
}

// Options converts the config into domain rule options.
func (c GameConfig) Options() domain.Options {
	return domain.Options{DrawCount: c.DrawCount, StrictRuns: c.StrictRuns}
}

// Validate rejects settings the engine cannot honour.
func (c GameConfig) Validate() error {
	if c.DrawCount != 1 && c.DrawCount != 3 {
		return fmt.Errorf("draw_count must be 1 or 3, got %d", c.DrawCount)
	}
	if c.TickRate < 1 || c.TickRate > 60 {
		return fmt.Errorf("tick_rate must be within 1..60, got %d", c.TickRate)
	}
	return nil
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given JSON or YAML file.
// Values may be overridden by KLONDIKE_* environment variables. Only the first call has an effect.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := ReadGameConfig(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// ReadGameConfig reads and validates a game configuration file without touching the global config.
func ReadGameConfig(path string) (*GameConfig, error) {
	v := viper.New()
	def := DefaultGameConfig()
	v.SetDefault("draw_count", def.DrawCount)
	v.SetDefault("strict_runs", def.StrictRuns)
	v.SetDefault("tick_rate", def.TickRate)
	v.SetDefault("seed", def.Seed)

	v.SetEnvPrefix("KLONDIKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}

	var c GameConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	return &c, nil
}

// GetGameConfig returns the global game configuration, or the defaults when none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return DefaultGameConfig()
	}
	return *cfg
}
