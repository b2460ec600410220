package harness

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zperk/strtools/internal/dispatch"
	"github.com/zperk/strtools/internal/journal"
)

// Result holds the outcome of running a scenario.
type Result struct {
	Scenario *Scenario

	// Passed is true when every step executed and every expectation held.
	Passed bool

	// Failures lists each expectation that did not hold.
	Failures []StepFailure

	// Trace is the journal timeline of the run, in execution order.
	Trace []TraceEvent
}

// StepFailure describes one failed expectation.
type StepFailure struct {
	Index   int    // 0-based step index
	Op      string // operation name
	Message string // what differed
}

func (f StepFailure) String() string {
	return fmt.Sprintf("step %d (%s): %s", f.Index+1, f.Op, f.Message)
}

// TraceEvent is one journaled operation as it appears in golden snapshots.
type TraceEvent struct {
	Seq       int64           `json:"seq"`
	Op        string          `json:"op"`
	Inputs    json.RawMessage `json:"inputs"`
	Output    *string         `json:"output,omitempty"`
	Outcome   string          `json:"outcome"`
	ErrorCode string          `json:"error_code,omitempty"`
}

// Run executes a scenario and returns its result.
//
// Each run uses a fresh in-memory journal, a deterministic clock, and the
// scenario's fixed session token, so the resulting trace is reproducible
// byte-for-byte.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	clock := journal.NewClock()
	token := scenario.SessionToken

	result := &Result{Scenario: scenario}
	for idx, step := range scenario.Steps {
		res, err := dispatch.Execute(step.Op, step.Args)
		if err != nil {
			// The schema admits argument names the dispatcher may still
			// reject (a missing "s", for example); surface it as a run
			// error with the step position.
			return nil, fmt.Errorf("step %d (%s): %w", idx+1, step.Op, err)
		}

		seq := clock.Next()
		rec := journal.NewRecord(
			fmt.Sprintf("%s-%04d", token, seq), token, seq, step.Op, step.Args, res)
		if err := j.Append(ctx, rec); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", idx+1, step.Op, err)
		}

		result.Failures = append(result.Failures, checkExpect(idx, step, res, rec)...)
	}

	trace, err := buildTrace(ctx, j, token)
	if err != nil {
		return nil, err
	}
	result.Trace = trace
	result.Passed = len(result.Failures) == 0
	return result, nil
}

// buildTrace reads the run's journal back into golden-snapshot form.
func buildTrace(ctx context.Context, j *journal.Journal, token string) ([]TraceEvent, error) {
	records, err := j.ReadSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	trace := make([]TraceEvent, len(records))
	for i, rec := range records {
		trace[i] = TraceEvent{
			Seq:       rec.Seq,
			Op:        rec.Op,
			Inputs:    json.RawMessage(rec.InputsJSON),
			Output:    rec.Output,
			Outcome:   string(rec.Outcome),
			ErrorCode: rec.ErrorCode,
		}
	}
	return trace, nil
}
