package journal

import (
	"context"
	"fmt"
)

// Append inserts an operation record into the journal.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations (e.g., a reused
// (session, seq) pair with a different ID) still return errors.
//
// The record's Inputs are serialized to canonical JSON so replay
// comparisons are byte-exact.
func (j *Journal) Append(ctx context.Context, rec Record) error {
	inputsJSON, err := marshalInputs(rec.Inputs)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO operations
		(id, session_token, seq, op, inputs, output, outcome, error_code, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.SessionToken,
		rec.Seq,
		rec.Op,
		inputsJSON,
		rec.Output,
		string(rec.Outcome),
		rec.ErrorCode,
		rec.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	return nil
}
