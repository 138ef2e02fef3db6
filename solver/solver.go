// Package solver finds roots of one-dimensional objectives: Newton steps
// first, then bracket expansion and Brent's method, with typed failures.
package solver

import (
	"math"

	"github.com/meenmo/fincore/config"
	"github.com/meenmo/fincore/errs"
)

// Objective is a function whose root is sought. It reports "undefined at x"
// by returning an error or a non-finite value.
type Objective interface {
	Evaluate(x float64) (float64, error)
}

// Differentiable objectives supply an analytic derivative for the Newton phase.
type Differentiable interface {
	Objective
	Derivative(x float64) (float64, error)
}

// Func adapts a plain function to Objective.
type Func func(x float64) (float64, error)

func (f Func) Evaluate(x float64) (float64, error) { return f(x) }

// Result is a converged solve.
type Result struct {
	Root        float64
	Value       float64
	Evaluations int
}

// Solver is an immutable set of defaults; Solve calls may run concurrently.
type Solver struct {
	cfg config.SolverConfig
}

// New builds a solver from cfg. Zero fields fall back to config.DefaultConfig.
func New(cfg config.SolverConfig) Solver {
	d := config.DefaultConfig.Solver
	if cfg.Accuracy <= 0 {
		cfg.Accuracy = d.Accuracy
	}
	if cfg.MaxEvaluations <= 0 {
		cfg.MaxEvaluations = d.MaxEvaluations
	}
	if cfg.Step <= 0 {
		cfg.Step = d.Step
	}
	if cfg.GrowthFactor <= 1 {
		cfg.GrowthFactor = d.GrowthFactor
	}
	if cfg.DerivativeThreshold <= 0 {
		cfg.DerivativeThreshold = d.DerivativeThreshold
	}
	return Solver{cfg: cfg}
}

// Default is New(config.DefaultConfig.Solver).
func Default() Solver { return New(config.DefaultConfig.Solver) }

// Config returns the effective settings.
func (s Solver) Config() config.SolverConfig { return s.cfg }

// Option overrides a setting for one Solve call.
type Option func(*params)

type params struct {
	accuracy  float64
	maxEvals  int
	step      float64
	lo, hi    float64
	hasBounds bool
	newton    bool
}

// WithBounds restricts the search to [lo, hi].
func WithBounds(lo, hi float64) Option {
	return func(p *params) { p.lo, p.hi, p.hasBounds = lo, hi, true }
}

func WithStep(step float64) Option    { return func(p *params) { p.step = step } }
func WithAccuracy(acc float64) Option { return func(p *params) { p.accuracy = acc } }
func WithMaxEvaluations(n int) Option { return func(p *params) { p.maxEvals = n } }
func WithNewton(enabled bool) Option  { return func(p *params) { p.newton = enabled } }

// Solve looks for x with f(x) = 0 starting at guess. Failures are *Error
// values carrying NotTradable, RootNotBracketed or MaxEvaluationsExceeded;
// invalid arguments are configuration errors.
func (s Solver) Solve(f Objective, guess float64, opts ...Option) (Result, error) {
	const op = "solver.Solve"

	p := params{
		accuracy: s.cfg.Accuracy,
		maxEvals: s.cfg.MaxEvaluations,
		step:     s.cfg.Step,
		lo:       math.Inf(-1),
		hi:       math.Inf(1),
		newton:   s.cfg.Newton,
	}
	for _, opt := range opts {
		opt(&p)
	}

	switch {
	case f == nil:
		return Result{}, errs.Configuration(op, "nil objective")
	case !(p.accuracy > 0):
		return Result{}, errs.Configuration(op, "accuracy (%g) must be positive", p.accuracy)
	case !(p.step > 0):
		return Result{}, errs.Configuration(op, "step (%g) must be positive", p.step)
	case p.maxEvals < 1:
		return Result{}, errs.Configuration(op, "max evaluations (%d) must be positive", p.maxEvals)
	case math.IsNaN(guess) || math.IsInf(guess, 0):
		return Result{}, errs.Configuration(op, "guess (%g) must be finite", guess)
	case p.hasBounds && !(p.lo < p.hi):
		return Result{}, errs.Configuration(op, "lower bound (%g) must be less than upper bound (%g)", p.lo, p.hi)
	case p.hasBounds && (guess < p.lo || guess > p.hi):
		return Result{}, errs.Configuration(op, "guess (%g) outside bounds [%g, %g]", guess, p.lo, p.hi)
	}
	p.accuracy = math.Max(p.accuracy, epsilon)

	r := &run{
		f:      f,
		p:      p,
		growth: s.cfg.GrowthFactor,
		dThres: s.cfg.DerivativeThreshold,
	}
	root, err := r.solve(guess)
	if err != nil {
		return Result{}, err
	}
	return Result{Root: root.x, Value: root.f, Evaluations: r.evals}, nil
}
