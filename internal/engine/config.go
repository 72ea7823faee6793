// Package engine implements the judging aggregation engine: judge
// assignment, review queues, score aggregation, progress tracking, and bias
// detection. Every component is a stateless pure function of the entity
// snapshot passed in; the Engine facade wires them to the external entity
// store and the optional agent strategy.
package engine

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// Default configuration values.
const (
	// DefaultOutlierThreshold is the absolute deviation, in scale units,
	// beyond which an individual criterion score is flagged as an outlier.
	DefaultOutlierThreshold = 2.0

	// DefaultBiasDeviationFactor is the multiple of the event standard
	// deviation beyond which a judge's mean is flagged as biased.
	DefaultBiasDeviationFactor = 1.5

	// DefaultLaggingFraction is the completion fraction below which a
	// judge receives a progress reminder.
	DefaultLaggingFraction = 0.5

	// DefaultAgentTimeoutSeconds bounds each call to the optional
	// external agent. A timeout is treated as a decline, never a failure.
	DefaultAgentTimeoutSeconds = 60
)

// Config controls the engine's statistical thresholds and its agent
// delegation behavior. Configuration is immutable after engine creation and
// validated for consistency.
type Config struct {
	// OutlierThreshold is the per-criterion absolute deviation threshold
	// for flagging individual scores on the leaderboard.
	OutlierThreshold float64 `yaml:"outlier_threshold" json:"outlier_threshold" validate:"gt=0"`

	// BiasDeviationFactor is the standard-deviation multiple used by the
	// bias detector to flag judges.
	BiasDeviationFactor float64 `yaml:"bias_deviation_factor" json:"bias_deviation_factor" validate:"gt=0"`

	// LaggingFraction is the completion fraction below which a judge with
	// at least one assignment receives a reminder.
	LaggingFraction float64 `yaml:"lagging_fraction" json:"lagging_fraction" validate:"gt=0,lte=1"`

	// AgentTimeoutSeconds bounds each external agent call, in seconds.
	// Zero disables the engine-side deadline and defers entirely to the
	// client's own.
	AgentTimeoutSeconds int `yaml:"agent_timeout_seconds" json:"agent_timeout_seconds" validate:"min=0,max=3600"`
}

// AgentTimeout returns the agent call deadline as a duration.
func (c Config) AgentTimeout() time.Duration {
	return time.Duration(c.AgentTimeoutSeconds) * time.Second
}

// DefaultConfig returns a Config with production-ready defaults matching the
// documented thresholds: 2.0 scale units for score outliers, 1.5 standard
// deviations for judge bias, reminders below 50% completion, and a 60 second
// agent timeout.
func DefaultConfig() Config {
	return Config{
		OutlierThreshold:    DefaultOutlierThreshold,
		BiasDeviationFactor: DefaultBiasDeviationFactor,
		LaggingFraction:     DefaultLaggingFraction,
		AgentTimeoutSeconds: DefaultAgentTimeoutSeconds,
	}
}

// Validate checks the configuration against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// DecodeConfig parses YAML configuration, overlaying user-supplied values on
// the defaults, and validates the result. The defaults are returned when
// data is empty.
func DecodeConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
