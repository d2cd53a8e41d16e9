package checker

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/linkcheck/internal/adapter"
	"github.com/roach88/linkcheck/internal/resolve"
)

// Checker runs consistency checks against a resolver.
type Checker struct {
	resolver resolve.Resolver
	clock    Clock
	logger   *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithClock stamps trace steps with c instead of a fresh counter per check.
func WithClock(c Clock) Option {
	return func(ch *Checker) { ch.clock = c }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(ch *Checker) { ch.logger = l }
}

// New creates a Checker that resolves the dynamic path through r.
func New(r resolve.Resolver, opts ...Option) *Checker {
	c := &Checker{
		resolver: r,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check is shorthand for New(r).Check(adapters...).
func Check(r resolve.Resolver, adapters ...*adapter.Adapter) *Report {
	return New(r).Check(adapters...)
}

// Check evaluates both paths over adapters and classifies the result.
//
// A panic on the static path is not recovered.
func (c *Checker) Check(adapters ...*adapter.Adapter) *Report {
	clock := c.clock
	if clock == nil {
		clock = &counter{}
	}
	rep := &Report{Steps: []Step{}}

	rep.Static = c.evalStatic(adapters, rep, clock)
	rep.Dynamic, rep.Failure = c.evalDynamic(adapters, rep, clock)
	if rep.Failure != nil {
		rep.FailureStage, _ = resolve.StageOf(rep.Failure)
		c.logger.Debug("dynamic resolution failed",
			"stage", rep.FailureStage,
			"error", rep.Failure,
		)
	}

	rep.Outcome = Classify(rep.Static, rep.Dynamic, rep.Failure != nil)
	rep.Steps = append(rep.Steps, Step{
		Seq:   clock.Next(),
		Phase: PhaseCompare,
		Value: rep.Failure == nil && rep.Static == rep.Dynamic,
	})
	rep.Steps = append(rep.Steps, Step{
		Seq:     clock.Next(),
		Phase:   PhaseReport,
		Outcome: rep.Outcome,
		Status:  ExitStatus(rep.Outcome),
	})

	c.logger.Info("check completed",
		"adapters", len(adapters),
		"static", rep.Static,
		"dynamic", rep.Dynamic,
		"outcome", rep.Outcome,
		"status", ExitStatus(rep.Outcome),
	)
	return rep
}

func (c *Checker) evalStatic(adapters []*adapter.Adapter, rep *Report, clock Clock) bool {
	result := true
	for _, a := range adapters {
		evals := a.EvaluateStatic()
		for _, e := range evals {
			rep.Steps = append(rep.Steps, stepFor(clock, PhaseStaticEval, PathStatic, e))
		}
		result = adapter.Combine(evals) && result
	}
	return result
}

// evalDynamic is the failure boundary of a check: resolution errors and
// panics become the returned error.
func (c *Checker) evalDynamic(adapters []*adapter.Adapter, rep *Report, clock Clock) (result bool, failure error) {
	defer func() {
		if r := recover(); r != nil {
			result = false
			failure = &resolve.Error{
				Stage: resolve.StageInvocation,
				Err:   fmt.Errorf("panic during dynamic resolution: %v", r),
			}
			rep.Steps = append(rep.Steps, Step{
				Seq:   clock.Next(),
				Phase: PhaseDynamicEval,
				Path:  PathDynamic,
				Stage: resolve.StageInvocation,
				Error: failure.Error(),
			})
		}
	}()

	result = true
	for _, a := range adapters {
		evals, err := a.EvaluateDynamic(c.resolver)
		for _, e := range evals {
			rep.Steps = append(rep.Steps, stepFor(clock, PhaseDynamicEval, PathDynamic, e))
		}
		if err != nil {
			return false, err
		}
		result = adapter.Combine(evals) && result
	}
	return result, nil
}

func stepFor(clock Clock, phase Phase, path Path, e adapter.Evaluation) Step {
	s := Step{
		Seq:        clock.Next(),
		Phase:      phase,
		Path:       path,
		Adapter:    e.Adapter,
		Binding:    e.Binding,
		Identifier: e.Identifier,
		Value:      e.Value,
	}
	if e.Err != nil {
		s.Stage, _ = resolve.StageOf(e.Err)
		s.Error = e.Err.Error()
	}
	return s
}
