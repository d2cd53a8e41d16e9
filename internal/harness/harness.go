package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/linkcheck/internal/capability"
	_ "github.com/roach88/linkcheck/internal/capability/runtimeonly"
	"github.com/roach88/linkcheck/internal/capability/stubs"
	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/manifest"
	"github.com/roach88/linkcheck/internal/resolve"
	"github.com/roach88/linkcheck/internal/testutil"
)

// Result is the outcome of one scenario execution.
type Result struct {
	// Pass is true when the expectation and every assertion hold.
	Pass bool `json:"pass"`

	// Report is the check report the scenario produced.
	Report *checker.Report `json:"-"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	catalog  capability.Catalog
	registry resolve.Resolver
	logger   *slog.Logger
}

// WithCatalog replaces the static catalog (default: stubs.Catalog()).
func WithCatalog(c capability.Catalog) Option {
	return func(rc *runConfig) { rc.catalog = c }
}

// WithRegistry replaces the compiled-in resolver (default: resolve.Default()).
func WithRegistry(r resolve.Resolver) Option {
	return func(rc *runConfig) { rc.registry = r }
}

// WithLogger sets the logger passed to the checker.
func WithLogger(l *slog.Logger) Option {
	return func(rc *runConfig) { rc.logger = l }
}

// Run executes a scenario and evaluates its expectation and assertions.
//
// The returned error covers setup failures (manifest, runtime sources).
// Check outcomes, including DYNAMIC_RESOLUTION_FAILED, are never errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	rc := &runConfig{
		catalog:  stubs.Catalog(),
		registry: resolve.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(rc)
	}

	m, err := manifest.Load(scenario.Manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	adapters, err := m.Build(rc.catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build adapters: %w", err)
	}

	runtimeDir := m.RuntimeDir
	if scenario.RuntimeDir != "" {
		runtimeDir = scenario.RuntimeDir
	}
	resolver, err := BuildResolver(rc.registry, runtimeDir, scenario.Exclude)
	if err != nil {
		return nil, err
	}

	chk := checker.New(resolver,
		checker.WithClock(testutil.NewDeterministicClock()),
		checker.WithLogger(rc.logger),
	)
	report := chk.Check(adapters...)

	result := &Result{Pass: true, Report: report, Errors: []string{}}
	for _, e := range checkExpectation(scenario.Expect, report) {
		result.AddError(e)
	}
	for _, e := range EvaluateAssertions(report, scenario.Assertions) {
		result.AddError(e)
	}

	rc.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"outcome", report.Outcome,
		"pass", result.Pass,
	)
	return result, nil
}

// BuildResolver chains the compiled-in resolver with interpreted sources
// from runtimeDir (when set) and hides the excluded identifiers.
func BuildResolver(registry resolve.Resolver, runtimeDir string, exclude []string) (resolve.Resolver, error) {
	chain := resolve.Chain{registry}
	if runtimeDir != "" {
		script, err := resolve.NewScript(runtimeDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load runtime sources: %w", err)
		}
		chain = append(chain, script)
	}
	return resolve.Hide(chain, exclude...), nil
}

func checkExpectation(exp Expectation, rep *checker.Report) []string {
	var errs []string
	if string(rep.Outcome) != exp.Outcome {
		errs = append(errs, fmt.Sprintf("expected outcome %s, got %s", exp.Outcome, rep.Outcome))
	}
	if exp.Status != nil && *exp.Status != rep.Status() {
		errs = append(errs, fmt.Sprintf("expected status %d, got %d", *exp.Status, rep.Status()))
	}
	if exp.Static != nil && *exp.Static != rep.Static {
		errs = append(errs, fmt.Sprintf("expected static result %t, got %t", *exp.Static, rep.Static))
	}
	if exp.Dynamic != nil && *exp.Dynamic != rep.Dynamic {
		errs = append(errs, fmt.Sprintf("expected dynamic result %t, got %t", *exp.Dynamic, rep.Dynamic))
	}
	return errs
}
