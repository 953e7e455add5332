// Package scheduler implements the weekly timetable generation engine: demand
// expansion, slot space modelling, feasibility checking, the allocation
// strategies and the counter-shift repair pass. The package performs no I/O;
// callers load a Snapshot up front and persist the Result afterwards.
package scheduler

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/escola-adp/horario-api/pkg/errors"
)

// Strategy names.
const (
	StrategyGreedy  = "greedy"
	StrategyCostMin = "costMin"
)

const (
	defaultPeriodsPerShift     = 5
	defaultCounterShiftPeriods = 2
	defaultMaxCandidateEvals   = 200000
)

// Config governs a single generation run.
type Config struct {
	Strategy            string
	PeriodsPerShift     int
	CounterShiftPeriods int
	// MaxCandidateEvals bounds the cost-minimizing strategy's full-catalogue
	// rescans. Zero applies the default; the budget is engine-wide per run.
	MaxCandidateEvals int
	// SubjectPriority front-loads core subjects during demand ordering.
	SubjectPriority []string
}

func (c *Config) applyDefaults() {
	if c.Strategy == "" {
		c.Strategy = StrategyGreedy
	}
	if c.PeriodsPerShift == 0 {
		c.PeriodsPerShift = defaultPeriodsPerShift
	}
	if c.CounterShiftPeriods == 0 {
		c.CounterShiftPeriods = defaultCounterShiftPeriods
	}
	if c.MaxCandidateEvals == 0 {
		c.MaxCandidateEvals = defaultMaxCandidateEvals
	}
}

// Validate rejects configurations the run must not start with. Call after
// defaults are applied.
func (c Config) Validate() error {
	if c.PeriodsPerShift <= 0 {
		return appErrors.Clone(appErrors.ErrInvalidConfig, "periodsPerShift must be positive")
	}
	if c.CounterShiftPeriods < 0 {
		return appErrors.Clone(appErrors.ErrInvalidConfig, "counterShiftPeriods must not be negative")
	}
	switch c.Strategy {
	case "", StrategyGreedy, StrategyCostMin:
	default:
		return appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("unknown strategy %q", c.Strategy))
	}
	return nil
}

// Engine runs the generation pipeline. A single Engine value is safe for
// concurrent use; every run operates on private state.
type Engine struct {
	logger *zap.Logger
}

// New constructs an Engine.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Run executes one generation pass: demand -> slot space -> allocation ->
// counter-shift repair -> result assembly. Deterministic for a given
// (cfg, snapshot) input.
func (e *Engine) Run(cfg Config, snap Snapshot) (*Result, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	r := newRun(cfg, snap)

	var strategy allocationStrategy
	switch cfg.Strategy {
	case StrategyCostMin:
		strategy = &costMinStrategy{}
	default:
		strategy = &greedyStrategy{}
	}

	strategy.Allocate(r)
	repairCounterShift(r)

	result := assembleResult(r, strategy.Name())
	e.logger.Info("timetable run finished",
		zap.String("strategy", strategy.Name()),
		zap.Int("placed", result.Stats.PlacedCount),
		zap.Int("unassigned", result.Stats.UnassignedCount),
		zap.Int("repair_placements", result.Stats.RepairPlacements),
		zap.Bool("counter_shift_ok", result.Stats.CounterShiftOK),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// allocationStrategy walks demand units and slots, committing placements
// through the shared feasibility checker.
type allocationStrategy interface {
	Name() string
	Allocate(r *run)
}
