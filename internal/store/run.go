package store

import "github.com/roach88/linkcheck/internal/checker"

// Run is a recorded consistency check.
type Run struct {
	Seq          int64  `json:"seq"`
	ID           string `json:"id"`
	Source       string `json:"source"`
	Outcome      string `json:"outcome"`
	Status       int    `json:"status"`
	Static       bool   `json:"static"`
	Dynamic      bool   `json:"dynamic"`
	FailureStage string `json:"failure_stage,omitempty"`
	Failure      string `json:"failure,omitempty"`
	Digest       string `json:"digest"`

	// Steps is only populated by ReadRun.
	Steps []checker.Step `json:"steps,omitempty"`
}
