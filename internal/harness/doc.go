// Package harness runs consistency scenarios described in YAML.
//
// A scenario names a capability manifest, optionally a directory of
// interpreted capability sources, and the outcome the check must produce:
//
//	name: scenario_c
//	description: "Unwanted dependency dropped from the run-time path"
//	manifest: manifests/probe.cue
//	exclude:
//	  - runtimeonly.UnwantedDependency
//	expect:
//	  outcome: DYNAMIC_RESOLUTION_FAILED
//	  status: 42
//	assertions:
//	  - type: failure_stage
//	    stage: NAME_RESOLUTION
//	  - type: trace_contains
//	    path: static
//	    identifier: stubs.Dependency
//
// Paths are relative to the scenario file. exclude hides identifiers from
// the dynamic path to simulate a build that dropped them.
//
// # Assertion Types
//
//   - trace_contains: a step on path for identifier (and adapter, if given)
//   - trace_order: identifiers appear on path in the given order
//   - trace_count: identifier appears on path exactly count times
//   - failure_stage: the captured dynamic failure has the given stage
//
// # Deterministic Testing
//
// Each run uses a fresh deterministic clock, so the same scenario always
// produces byte-identical canonical trace snapshots for golden comparison.
package harness
