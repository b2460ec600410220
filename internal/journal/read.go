package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// ReadSession returns all records for a session ordered by seq.
// Returns an empty slice (not an error) for an unknown session token.
func (j *Journal) ReadSession(ctx context.Context, sessionToken string) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, session_token, seq, op, inputs, output, outcome,
		       error_code, error_message, created_at
		FROM operations
		WHERE session_token = ?
		ORDER BY seq ASC
	`, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("read session: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	return records, nil
}

// Sessions returns all distinct session tokens, ordered by first appearance.
func (j *Journal) Sessions(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_token
		FROM operations
		GROUP BY session_token
		ORDER BY MIN(seq), session_token
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return tokens, nil
}

// LastSeq returns the highest seq recorded for a session, or 0 if the
// session has no records. Used to resume a session's clock.
func (j *Journal) LastSeq(ctx context.Context, sessionToken string) (int64, error) {
	var seq sql.NullInt64
	err := j.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM operations WHERE session_token = ?
	`, sessionToken).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}

// scanRecord builds a Record from a row of the operations table.
func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec       Record
		inputsRaw string
		output    sql.NullString
		outcome   string
	)
	err := rows.Scan(
		&rec.ID, &rec.SessionToken, &rec.Seq, &rec.Op, &inputsRaw,
		&output, &outcome, &rec.ErrorCode, &rec.ErrorMessage, &rec.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}

	if err := json.Unmarshal([]byte(inputsRaw), &rec.Inputs); err != nil {
		return Record{}, fmt.Errorf("record %s has malformed inputs: %w", rec.ID, err)
	}
	rec.InputsJSON = inputsRaw
	if output.Valid {
		rec.Output = &output.String
	}
	rec.Outcome = Outcome(outcome)
	return rec, nil
}
