package checker

import "fmt"

// Outcome classifies whether the static and dynamic paths agree.
type Outcome string

const (
	// ConsistentTrue means both paths resolved and both combined to true.
	ConsistentTrue Outcome = "CONSISTENT_TRUE"

	// ConsistentFalse means both paths resolved and both combined to false.
	ConsistentFalse Outcome = "CONSISTENT_FALSE"

	// Inconsistent means both paths resolved but their results differ.
	Inconsistent Outcome = "INCONSISTENT"

	// DynamicResolutionFailed means the dynamic path could not resolve,
	// construct, locate or invoke at least one capability.
	DynamicResolutionFailed Outcome = "DYNAMIC_RESOLUTION_FAILED"
)

// Exit statuses reported for each outcome.
const (
	StatusConsistentTrue          = 0
	StatusConsistentFalse         = 1
	StatusInconsistent            = 17
	StatusDynamicResolutionFailed = 42
)

// Outcomes lists every outcome in status order.
var Outcomes = []Outcome{
	ConsistentTrue,
	ConsistentFalse,
	Inconsistent,
	DynamicResolutionFailed,
}

// ExitStatus maps an outcome to its process exit status.
// Unknown outcomes map to StatusDynamicResolutionFailed.
func ExitStatus(o Outcome) int {
	switch o {
	case ConsistentTrue:
		return StatusConsistentTrue
	case ConsistentFalse:
		return StatusConsistentFalse
	case Inconsistent:
		return StatusInconsistent
	default:
		return StatusDynamicResolutionFailed
	}
}

// ParseOutcome converts an outcome name to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// Classify compares the combined results of both paths.
// failed takes precedence: a dynamic failure makes comparison meaningless.
func Classify(static, dynamic, failed bool) Outcome {
	switch {
	case failed:
		return DynamicResolutionFailed
	case static != dynamic:
		return Inconsistent
	case static:
		return ConsistentTrue
	default:
		return ConsistentFalse
	}
}
