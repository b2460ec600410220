package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestJournal creates a fresh in-memory journal, closed with the test.
func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func strPtr(s string) *string { return &s }

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	// Reopening an existing journal is idempotent.
	j, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())
}

func TestAppendAndReadSession(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	recs := []Record{
		{
			ID: "op-1", SessionToken: "s1", Seq: 1, Op: "length",
			Inputs:  map[string]any{"s": "hello"},
			Output:  strPtr("5"),
			Outcome: OutcomeOK,
		},
		{
			ID: "op-2", SessionToken: "s1", Seq: 2, Op: "find",
			Inputs:  map[string]any{"s": "hello", "pattern": "xyz"},
			Outcome: OutcomeNotFound,
		},
		{
			ID: "op-3", SessionToken: "s1", Seq: 3, Op: "substring",
			Inputs:       map[string]any{"s": "hi", "i": 0, "j": 9},
			Outcome:      OutcomeError,
			ErrorCode:    "OUT_OF_RANGE",
			ErrorMessage: "substring: OUT_OF_RANGE: range (i=0, j=9) outside string of length 2",
		},
	}
	for _, rec := range recs {
		require.NoError(t, j.Append(ctx, rec))
	}

	got, err := j.ReadSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "op-1", got[0].ID)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, OutcomeOK, got[0].Outcome)
	require.NotNil(t, got[0].Output)
	assert.Equal(t, "5", *got[0].Output)
	assert.Equal(t, map[string]any{"s": "hello"}, got[0].Inputs)
	assert.NotEmpty(t, got[0].CreatedAt)

	assert.Equal(t, OutcomeNotFound, got[1].Outcome)
	assert.Nil(t, got[1].Output)

	assert.Equal(t, OutcomeError, got[2].Outcome)
	assert.Equal(t, "OUT_OF_RANGE", got[2].ErrorCode)
	// Integers come back as float64 through encoding/json.
	assert.Equal(t, float64(9), got[2].Inputs["j"])
}

func TestAppendIsIdempotentOnID(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	rec := Record{
		ID: "op-1", SessionToken: "s1", Seq: 1, Op: "length",
		Inputs: map[string]any{"s": "x"}, Output: strPtr("1"), Outcome: OutcomeOK,
	}
	require.NoError(t, j.Append(ctx, rec))
	require.NoError(t, j.Append(ctx, rec), "duplicate ID is silently ignored")

	got, err := j.ReadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReadSession_UnknownToken(t *testing.T) {
	j := openTestJournal(t)

	got, err := j.ReadSession(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionsOrderedByFirstAppearance(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	appendOp := func(id, session string, seq int64) {
		require.NoError(t, j.Append(ctx, Record{
			ID: id, SessionToken: session, Seq: seq, Op: "length",
			Inputs: map[string]any{"s": "x"}, Output: strPtr("1"), Outcome: OutcomeOK,
		}))
	}
	appendOp("a-1", "session-a", 1)
	appendOp("b-1", "session-b", 2)
	appendOp("a-2", "session-a", 3)

	tokens, err := j.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"session-a", "session-b"}, tokens)
}

func TestLastSeq(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	seq, err := j.LastSeq(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq, "empty session starts at 0")

	require.NoError(t, j.Append(ctx, Record{
		ID: "op-1", SessionToken: "s1", Seq: 7, Op: "length",
		Inputs: map[string]any{"s": "x"}, Output: strPtr("1"), Outcome: OutcomeOK,
	}))

	seq, err = j.LastSeq(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}
