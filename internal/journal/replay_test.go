package journal

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zperk/strtools/internal/dispatch"
)

// recordSession executes the given operations and journals them the way the
// CLI does: dispatch, then NewRecord, then Append.
func recordSession(t *testing.T, j *Journal, session string, steps []struct {
	op   string
	args map[string]any
}) {
	t.Helper()
	ctx := context.Background()
	clock := NewClock()
	for _, step := range steps {
		res, err := dispatch.Execute(step.op, step.args)
		require.NoError(t, err)
		seq := clock.Next()
		rec := NewRecord(fmt.Sprintf("%s-%d", session, seq), session, seq, step.op, step.args, res)
		require.NoError(t, j.Append(ctx, rec))
	}
}

func TestNewRecord_OutcomeMapping(t *testing.T) {
	okRes, err := dispatch.Execute(dispatch.OpConcat, map[string]any{"a": "foo", "b": "bar"})
	require.NoError(t, err)
	rec := NewRecord("id", "s", 1, dispatch.OpConcat, map[string]any{"a": "foo", "b": "bar"}, okRes)
	assert.Equal(t, OutcomeOK, rec.Outcome)
	require.NotNil(t, rec.Output)
	assert.Equal(t, "foobar", *rec.Output)

	missRes, err := dispatch.Execute(dispatch.OpFind, map[string]any{"s": "abc", "pattern": "zz"})
	require.NoError(t, err)
	rec = NewRecord("id", "s", 2, dispatch.OpFind, map[string]any{"s": "abc", "pattern": "zz"}, missRes)
	assert.Equal(t, OutcomeNotFound, rec.Outcome)
	assert.Nil(t, rec.Output)

	replMiss, err := dispatch.Execute(dispatch.OpReplace, map[string]any{"s": "abc", "pattern": "zz", "replacement": "q"})
	require.NoError(t, err)
	rec = NewRecord("id", "s", 3, dispatch.OpReplace, map[string]any{"s": "abc", "pattern": "zz", "replacement": "q"}, replMiss)
	assert.Equal(t, OutcomeNotFound, rec.Outcome, "replace miss is a not-found outcome")
	require.NotNil(t, rec.Output, "replace miss still yields the unmodified copy")
	assert.Equal(t, "abc", *rec.Output)

	errRes, err := dispatch.Execute(dispatch.OpSubstring, map[string]any{"s": "hi", "i": 0, "j": 9})
	require.NoError(t, err)
	rec = NewRecord("id", "s", 4, dispatch.OpSubstring, map[string]any{"s": "hi", "i": 0, "j": 9}, errRes)
	assert.Equal(t, OutcomeError, rec.Outcome)
	assert.Equal(t, "OUT_OF_RANGE", rec.ErrorCode)
	assert.Nil(t, rec.Output)
}

func TestVerify_CleanSession(t *testing.T) {
	j := openTestJournal(t)

	recordSession(t, j, "clean", []struct {
		op   string
		args map[string]any
	}{
		{dispatch.OpLength, map[string]any{"s": "hello"}},
		{dispatch.OpConcat, map[string]any{"a": "foo", "b": "bar"}},
		{dispatch.OpSubstring, map[string]any{"s": "hello world", "i": 6, "j": 5}},
		{dispatch.OpInsert, map[string]any{"s1": "Hello !", "s2": "World", "i": 7}},
		{dispatch.OpDeleteRange, map[string]any{"s": "hello world", "i": 6, "j": 6}},
		{dispatch.OpFind, map[string]any{"s": "Hello World", "pattern": "world"}},
		{dispatch.OpFind, map[string]any{"s": "abc", "pattern": "zz"}},
		{dispatch.OpReplace, map[string]any{"s": "Hello World", "pattern": "World", "replacement": "Universe"}},
		{dispatch.OpSubstring, map[string]any{"s": "hi", "i": 0, "j": 9}},
	})

	report, err := j.Verify(context.Background(), "clean")
	require.NoError(t, err)
	assert.Equal(t, 9, report.Total)
	assert.True(t, report.OK(), "pure operations must replay identically: %v", report.Divergences)
}

func TestVerify_EmptySession(t *testing.T) {
	j := openTestJournal(t)

	report, err := j.Verify(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.True(t, report.OK())
}

func TestVerify_DetectsTamperedOutput(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	recordSession(t, j, "tampered", []struct {
		op   string
		args map[string]any
	}{
		{dispatch.OpConcat, map[string]any{"a": "foo", "b": "bar"}},
	})

	_, err := j.db.ExecContext(ctx,
		`UPDATE operations SET output = 'f00bar' WHERE session_token = 'tampered'`)
	require.NoError(t, err)

	report, err := j.Verify(ctx, "tampered")
	require.NoError(t, err)
	require.False(t, report.OK())
	require.Len(t, report.Divergences, 1)
	assert.Equal(t, "output", report.Divergences[0].Field)
	assert.Equal(t, "f00bar", report.Divergences[0].Stored)
	assert.Equal(t, "foobar", report.Divergences[0].Replayed)
}

func TestVerify_DetectsTamperedInputs(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	recordSession(t, j, "inputs", []struct {
		op   string
		args map[string]any
	}{
		{dispatch.OpLength, map[string]any{"s": "hello"}},
	})

	// Re-order and re-space the stored JSON: content-equal but no longer
	// canonical bytes.
	_, err := j.db.ExecContext(ctx,
		`UPDATE operations SET inputs = '{ "s" : "hello" }' WHERE session_token = 'inputs'`)
	require.NoError(t, err)

	report, err := j.Verify(ctx, "inputs")
	require.NoError(t, err)
	require.False(t, report.OK())
	assert.Equal(t, "inputs", report.Divergences[0].Field)
}

func TestVerify_DetectsUnknownOperation(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Append(ctx, Record{
		ID: "x-1", SessionToken: "unknown-op", Seq: 1, Op: "shout",
		Inputs: map[string]any{"s": "hello"}, Outcome: OutcomeOK,
	}))

	report, err := j.Verify(ctx, "unknown-op")
	require.NoError(t, err)
	require.False(t, report.OK())
	assert.Equal(t, "outcome", report.Divergences[0].Field)
}

func TestDivergenceString(t *testing.T) {
	d := Divergence{Seq: 3, Op: "concat", Field: "output", Stored: "a", Replayed: "b"}
	assert.Equal(t, `seq 3 (concat): output diverged: stored "a", replayed "b"`, d.String())
}
