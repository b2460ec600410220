// Package dispatch routes named toolkit operations to the bytestr core.
//
// Callers that receive operations as data rather than as Go calls - the
// interactive menu, scenario scripts, and journal replay - all funnel
// through Execute, so an operation name and argument map resolves to exactly
// one behavior everywhere. Argument validation (unknown operation, missing
// argument, wrong type) is reported separately from toolkit contract
// violations, which pass through as bytestr errors.
package dispatch
