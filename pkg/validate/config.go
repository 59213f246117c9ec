package validate

import (
	"time"

	"github.com/leapstack-labs/tbcheck/pkg/check"
	"github.com/leapstack-labs/tbcheck/pkg/core"
)

// Config controls which rules run, their severity, and the bounds the range
// rules apply.
type Config struct {
	// DisabledRules contains rule names to skip
	DisabledRules map[string]bool

	// OnlyRules, when non-empty, restricts the run to these rule names
	OnlyRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]core.Severity

	// MinDate and MaxDate bound the date rules. Zero values mean the program
	// epoch and the run date.
	MinDate time.Time
	MaxDate time.Time

	// AgeMin and AgeMax bound the age rules.
	AgeMin float64
	AgeMax float64
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		OnlyRules:         make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		AgeMin:            check.DefaultMin,
		AgeMax:            check.DefaultMax,
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(name string) bool {
	if c == nil {
		return false
	}
	if len(c.OnlyRules) > 0 && !c.OnlyRules[name] {
		return true
	}
	return c.DisabledRules[name]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(name string, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[name]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Disable disables a rule by name.
func (c *Config) Disable(name string) *Config {
	c.DisabledRules[name] = true
	return c
}

// Only restricts the run to the given rules. It can be called repeatedly.
func (c *Config) Only(names ...string) *Config {
	for _, n := range names {
		c.OnlyRules[n] = true
	}
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(name string, severity core.Severity) *Config {
	c.SeverityOverrides[name] = severity
	return c
}

// AgeBounds returns the numeric bounds for age rules.
func (c *Config) AgeBounds() (float64, float64) {
	if c == nil {
		return check.DefaultMin, check.DefaultMax
	}
	return c.AgeMin, c.AgeMax
}

// DateBounds returns the bounds for date rules. Zero values are resolved by
// the date validator.
func (c *Config) DateBounds() (time.Time, time.Time) {
	if c == nil {
		return time.Time{}, time.Time{}
	}
	return c.MinDate, c.MaxDate
}
