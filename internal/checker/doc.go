// Package checker compares the static and dynamic resolution paths.
//
// A check runs in four phases with no persisted intermediate state:
//
//	START → {STATIC_EVAL, DYNAMIC_EVAL} → COMPARE → REPORT
//
// STATIC_EVAL ANDs every adapter's directly linked capabilities.
// DYNAMIC_EVAL ANDs every adapter's capabilities resolved by name, inside a
// failure boundary: the first resolution error (or panic) stops the phase
// and is captured on the report. COMPARE classifies the pair:
//
//	dynamic failed             → DYNAMIC_RESOLUTION_FAILED (42)
//	static == dynamic == true  → CONSISTENT_TRUE (0)
//	static == dynamic == false → CONSISTENT_FALSE (1)
//	static != dynamic          → INCONSISTENT (17)
//
// A captured failure wins over a mismatch. ExitStatus is a pure mapping so
// callers can test the decision without terminating a process.
//
// Checks are synchronous and deterministic. There are no timeouts or
// retries; a failure on the dynamic path is reported once.
package checker
