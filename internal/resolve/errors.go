package resolve

import (
	"errors"
	"fmt"
)

// Stage identifies which step of dynamic resolution failed.
type Stage string

const (
	// StageNameResolution indicates the identifier could not be located.
	StageNameResolution Stage = "NAME_RESOLUTION"

	// StageConstruction indicates the located constructor failed.
	StageConstruction Stage = "CONSTRUCTION"

	// StageOperationLookup indicates the operation could not be found by name.
	StageOperationLookup Stage = "OPERATION_LOOKUP"

	// StageInvocation indicates the operation failed while running.
	StageInvocation Stage = "INVOCATION"
)

// Stages lists every failure stage in resolution order.
var Stages = []Stage{
	StageNameResolution,
	StageConstruction,
	StageOperationLookup,
	StageInvocation,
}

// Error is a structured dynamic resolution failure.
type Error struct {
	// Stage is the step that failed.
	Stage Stage

	// Name is the capability identifier being resolved.
	Name string

	// Op is the operation name, set for lookup and invocation failures.
	Op string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	target := e.Name
	if e.Op != "" {
		target = e.Name + "." + e.Op
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, target, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, target)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StageOf returns the stage of the first *Error in err's chain.
// Returns "" and false if err is not a resolution error.
func StageOf(err error) (Stage, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Stage, true
	}
	return "", false
}

// IsStage reports whether err is a resolution error at the given stage.
func IsStage(err error, stage Stage) bool {
	s, ok := StageOf(err)
	return ok && s == stage
}

// IsNotFound reports whether err is a name resolution failure.
func IsNotFound(err error) bool {
	return IsStage(err, StageNameResolution)
}

// ParseStage converts a stage name to a Stage.
func ParseStage(s string) (Stage, error) {
	for _, st := range Stages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown resolution stage %q", s)
}

func notFound(name string, cause error) *Error {
	return &Error{Stage: StageNameResolution, Name: name, Err: cause}
}

func constructionFailed(name string, cause error) *Error {
	return &Error{Stage: StageConstruction, Name: name, Err: cause}
}

func lookupFailed(name, op string, cause error) *Error {
	return &Error{Stage: StageOperationLookup, Name: name, Op: op, Err: cause}
}

func invocationFailed(name, op string, cause error) *Error {
	return &Error{Stage: StageInvocation, Name: name, Op: op, Err: cause}
}
