package harness

import (
	"fmt"

	"github.com/zperk/strtools/internal/dispatch"
	"github.com/zperk/strtools/internal/journal"
)

// checkExpect evaluates a step's expectations against its result and
// journal record. Only fields present in the expect clause are validated.
func checkExpect(idx int, step Step, res dispatch.Result, rec journal.Record) []StepFailure {
	if step.Expect == nil {
		return nil
	}
	exp := *step.Expect

	fail := func(format string, args ...any) StepFailure {
		return StepFailure{Index: idx, Op: step.Op, Message: fmt.Sprintf(format, args...)}
	}

	var failures []StepFailure

	if exp.Outcome != "" && exp.Outcome != string(rec.Outcome) {
		failures = append(failures, fail("outcome: expected %q, got %q", exp.Outcome, rec.Outcome))
	}
	if exp.Error != "" && exp.Error != rec.ErrorCode {
		failures = append(failures, fail("error code: expected %q, got %q", exp.Error, rec.ErrorCode))
	}
	if exp.Output != nil {
		switch {
		case res.Err != nil:
			failures = append(failures, fail("output: expected %q, operation failed: %v", *exp.Output, res.Err))
		case !res.HasOutput:
			failures = append(failures, fail("output: expected %q, operation produced none", *exp.Output))
		case res.Output != *exp.Output:
			failures = append(failures, fail("output: expected %q, got %q", *exp.Output, res.Output))
		}
	}
	if exp.Length != nil && res.Length != *exp.Length {
		failures = append(failures, fail("length: expected %d, got %d", *exp.Length, res.Length))
	}
	if exp.Offset != nil {
		switch {
		case !res.Found:
			failures = append(failures, fail("offset: expected %d, pattern not found", *exp.Offset))
		case res.Offset != *exp.Offset:
			failures = append(failures, fail("offset: expected %d, got %d", *exp.Offset, res.Offset))
		}
	}
	if exp.Found != nil && res.Found != *exp.Found {
		failures = append(failures, fail("found: expected %t, got %t", *exp.Found, res.Found))
	}
	if exp.Replaced != nil && res.Replaced != *exp.Replaced {
		failures = append(failures, fail("replaced: expected %t, got %t", *exp.Replaced, res.Replaced))
	}

	return failures
}
