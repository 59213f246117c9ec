package validate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/tbcheck/pkg/check"
	"github.com/leapstack-labs/tbcheck/pkg/core"
)

// Result is the outcome of one rule. Exactly one of Violations and Err is
// meaningful: a failed rule has a nil Violations and a non-nil Err.
type Result struct {
	Rule       RuleDef
	Severity   core.Severity
	Violations check.ViolationSet
	Err        error
	Duration   time.Duration
}

// Failed reports whether the rule could not be evaluated.
func (r Result) Failed() bool { return r.Err != nil }

// Runner evaluates rules against an Input.
type Runner struct {
	config *Config
	rules  []RuleDef
	logger *slog.Logger
}

// NewRunner creates a runner over the registered rules.
func NewRunner(config *Config, logger *slog.Logger) *Runner {
	return NewRunnerWithRules(config, GetAll(), logger)
}

// NewRunnerWithRules creates a runner over an explicit rule list.
func NewRunnerWithRules(config *Config, rules []RuleDef, logger *slog.Logger) *Runner {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{config: config, rules: rules, logger: logger}
}

// Run evaluates every enabled rule, in rule order. A rule's failure is
// recorded on its Result and never stops the remaining rules.
func (r *Runner) Run(in *Input) []Result {
	input := *in
	if input.Config == nil {
		input.Config = r.config
	}

	results := make([]Result, 0, len(r.rules))
	for _, rule := range r.rules {
		if r.config.IsDisabled(rule.Name) {
			r.logger.Debug("rule disabled", slog.String("rule", rule.Name))
			continue
		}

		start := time.Now()
		violations, err := evaluate(rule, &input)
		res := Result{
			Rule:       rule,
			Severity:   r.config.GetSeverity(rule.Name, rule.Severity),
			Violations: violations,
			Err:        err,
			Duration:   time.Since(start),
		}

		if err != nil {
			r.logger.Warn("rule failed",
				slog.String("rule", rule.Name),
				slog.String("error", err.Error()))
		} else {
			r.logger.Debug("rule evaluated",
				slog.String("rule", rule.Name),
				slog.Int("violations", violations.Len()),
				slog.Duration("duration", res.Duration))
		}
		results = append(results, res)
	}
	return results
}

// evaluate runs one rule in its own capture, turning a panic into an error.
func evaluate(rule RuleDef, in *Input) (vs check.ViolationSet, err error) {
	defer func() {
		if p := recover(); p != nil {
			vs = nil
			err = fmt.Errorf("rule %s panicked: %v", rule.Name, p)
		}
	}()

	if rule.Check == nil {
		return nil, fmt.Errorf("rule %s has no check", rule.Name)
	}
	vs, err = rule.Check(in)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.Name, err)
	}
	if vs == nil {
		vs = check.ViolationSet{}
	}
	return vs, nil
}
