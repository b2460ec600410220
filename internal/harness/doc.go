// Package harness runs scripted toolkit scenarios as executable contract
// tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	session_token: fixed-token-for-determinism
//	steps:
//	  - op: replace
//	    args: { s: "Hello World", pattern: "World", replacement: "Universe" }
//	    expect:
//	      output: "Hello Universe"
//	      replaced: true
//	  - op: substring
//	    args: { s: "hi", i: 0, j: 9 }
//	    expect:
//	      outcome: error
//	      error: OUT_OF_RANGE
//
// The file is validated against an embedded CUE schema before it runs, so
// unknown operations, misspelled fields, and wrongly typed arguments are
// reported up front instead of failing mid-run.
//
// # Expectations
//
// Each step may assert any subset of: output, length, offset, found,
// replaced, outcome (ok | not_found | error), and error (the expected
// toolkit error code). Omitted fields are not checked.
//
// # Deterministic Execution
//
// Every run uses a fresh in-memory journal, a deterministic clock, and the
// scenario's fixed session token (defaulting to "test-session-default"), so
// the recorded trace is identical across runs and can be compared against a
// golden file with goldie:
//
//	go test ./internal/harness -update
package harness
