package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/zperk/strtools/internal/bytestr"
	"github.com/zperk/strtools/internal/dispatch"
)

// NewRecord builds the journal record for an executed operation.
//
// The outcome mapping is the single source of truth shared by the CLI (when
// it journals live operations) and Verify (when it replays them):
//
//   - toolkit error   -> OutcomeError, no output, error code + message
//   - find miss       -> OutcomeNotFound, no output
//   - replace miss    -> OutcomeNotFound, output = unmodified copy
//   - everything else -> OutcomeOK, output = rendered result
func NewRecord(id, sessionToken string, seq int64, op string, args map[string]any, res dispatch.Result) Record {
	rec := Record{
		ID:           id,
		SessionToken: sessionToken,
		Seq:          seq,
		Op:           op,
		Inputs:       args,
	}

	if res.Err != nil {
		rec.Outcome = OutcomeError
		rec.ErrorMessage = res.Err.Error()
		var te *bytestr.Error
		if errors.As(res.Err, &te) {
			rec.ErrorCode = string(te.Code)
		}
		return rec
	}

	if op == dispatch.OpFind && !res.Found {
		rec.Outcome = OutcomeNotFound
		return rec
	}

	out := res.Display(op)
	rec.Output = &out
	if op == dispatch.OpReplace && !res.Replaced {
		rec.Outcome = OutcomeNotFound
		return rec
	}
	rec.Outcome = OutcomeOK
	return rec
}

// Divergence describes one field where a replayed operation disagreed with
// its journal record.
type Divergence struct {
	Seq      int64
	Op       string
	Field    string // "inputs", "outcome", "output", "error_code"
	Stored   string
	Replayed string
}

func (d Divergence) String() string {
	return fmt.Sprintf("seq %d (%s): %s diverged: stored %q, replayed %q",
		d.Seq, d.Op, d.Field, d.Stored, d.Replayed)
}

// Report summarizes a session replay.
type Report struct {
	SessionToken string
	Total        int
	Divergences  []Divergence
}

// OK reports whether the replay reproduced every record exactly.
func (r *Report) OK() bool {
	return len(r.Divergences) == 0
}

// Verify replays every record of a session through the dispatcher and
// compares the results against what the journal stored.
//
// Toolkit operations are pure, so a clean journal always verifies: any
// divergence means the journal was edited by hand or the toolkit's behavior
// changed since the session was recorded. The stored canonical inputs are
// checked first - a record whose inputs no longer re-encode to the stored
// bytes is reported without being replayed.
func (j *Journal) Verify(ctx context.Context, sessionToken string) (*Report, error) {
	records, err := j.ReadSession(ctx, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}

	report := &Report{SessionToken: sessionToken, Total: len(records)}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("verify session: %w", err)
		}

		reencoded, err := marshalInputs(rec.Inputs)
		if err != nil || reencoded != rec.InputsJSON {
			report.Divergences = append(report.Divergences, Divergence{
				Seq: rec.Seq, Op: rec.Op, Field: "inputs",
				Stored: rec.InputsJSON, Replayed: reencoded,
			})
			continue
		}

		res, err := dispatch.Execute(rec.Op, rec.Inputs)
		if err != nil {
			// The journal holds an operation the dispatcher no longer
			// understands; report it as an outcome divergence.
			report.Divergences = append(report.Divergences, Divergence{
				Seq: rec.Seq, Op: rec.Op, Field: "outcome",
				Stored: string(rec.Outcome), Replayed: err.Error(),
			})
			continue
		}

		replayed := NewRecord(rec.ID, rec.SessionToken, rec.Seq, rec.Op, rec.Inputs, res)
		report.Divergences = append(report.Divergences, diffRecords(rec, replayed)...)
	}

	return report, nil
}

// diffRecords compares the stored and replayed forms of one record.
func diffRecords(stored, replayed Record) []Divergence {
	var divs []Divergence

	if stored.Outcome != replayed.Outcome {
		divs = append(divs, Divergence{
			Seq: stored.Seq, Op: stored.Op, Field: "outcome",
			Stored: string(stored.Outcome), Replayed: string(replayed.Outcome),
		})
	}
	if derefOr(stored.Output, "<none>") != derefOr(replayed.Output, "<none>") {
		divs = append(divs, Divergence{
			Seq: stored.Seq, Op: stored.Op, Field: "output",
			Stored: derefOr(stored.Output, "<none>"), Replayed: derefOr(replayed.Output, "<none>"),
		})
	}
	if stored.ErrorCode != replayed.ErrorCode {
		divs = append(divs, Divergence{
			Seq: stored.Seq, Op: stored.Op, Field: "error_code",
			Stored: stored.ErrorCode, Replayed: replayed.ErrorCode,
		})
	}

	return divs
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
