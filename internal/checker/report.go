package checker

import (
	"github.com/roach88/linkcheck/internal/canon"
	"github.com/roach88/linkcheck/internal/resolve"
)

// Path tags how a capability was obtained for one invocation.
type Path string

const (
	PathStatic  Path = "static"
	PathDynamic Path = "dynamic"
)

// Phase is a state of the check state machine.
type Phase string

const (
	PhaseStaticEval  Phase = "STATIC_EVAL"
	PhaseDynamicEval Phase = "DYNAMIC_EVAL"
	PhaseCompare     Phase = "COMPARE"
	PhaseReport      Phase = "REPORT"
)

// Step is one entry of a check trace.
type Step struct {
	Seq        int64         `json:"seq"`
	Phase      Phase         `json:"phase"`
	Path       Path          `json:"path,omitempty"`
	Adapter    string        `json:"adapter,omitempty"`
	Binding    int           `json:"binding"`
	Identifier string        `json:"identifier,omitempty"`
	Value      bool          `json:"value"`
	Stage      resolve.Stage `json:"stage,omitempty"`
	Error      string        `json:"error,omitempty"`
	Outcome    Outcome       `json:"outcome,omitempty"`
	Status     int           `json:"status"`
}

// Report is the atomic result of one check.
type Report struct {
	Outcome Outcome
	Static  bool

	// Dynamic is false whenever Failure is set.
	Dynamic bool

	// Failure is the captured dynamic path error, if any.
	Failure      error
	FailureStage resolve.Stage

	Steps []Step
}

// Status returns the exit status for the report's outcome.
func (r *Report) Status() int {
	return ExitStatus(r.Outcome)
}

// Snapshot returns the report as canonical-JSON-ready values.
// Error text is omitted so snapshots do not depend on message wording.
func (r *Report) Snapshot() map[string]any {
	steps := make([]any, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = s.snapshot()
	}
	snap := map[string]any{
		"outcome": string(r.Outcome),
		"status":  r.Status(),
		"static":  r.Static,
		"dynamic": r.Dynamic,
		"steps":   steps,
	}
	if r.FailureStage != "" {
		snap["failure_stage"] = string(r.FailureStage)
	}
	return snap
}

func (s Step) snapshot() map[string]any {
	m := map[string]any{
		"seq":   s.Seq,
		"phase": string(s.Phase),
	}
	switch s.Phase {
	case PhaseStaticEval, PhaseDynamicEval:
		m["path"] = string(s.Path)
		m["adapter"] = s.Adapter
		m["binding"] = s.Binding
		m["identifier"] = s.Identifier
		m["value"] = s.Value
		if s.Stage != "" {
			m["stage"] = string(s.Stage)
		}
	case PhaseCompare:
		m["value"] = s.Value
	case PhaseReport:
		m["outcome"] = string(s.Outcome)
		m["status"] = s.Status
	}
	return m
}

// Digest is a content digest of the snapshot. Two checks over the same
// capabilities produce the same digest.
func (r *Report) Digest() (string, error) {
	return canon.Digest(canon.DomainReport, r.Snapshot())
}
