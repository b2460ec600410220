package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zperk/strtools/internal/dispatch"
	"github.com/zperk/strtools/internal/journal"
)

// seedJournal records a small session into a fresh journal database.
func seedJournal(t *testing.T, dbPath, token string) {
	t.Helper()

	j, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	steps := []struct {
		op   string
		args map[string]any
	}{
		{dispatch.OpLength, map[string]any{"s": "hello"}},
		{dispatch.OpFind, map[string]any{"s": "abc", "pattern": "zz"}},
		{dispatch.OpSubstring, map[string]any{"s": "abc", "i": 2, "j": 5}},
	}

	clock := journal.NewClock()
	for _, step := range steps {
		res, err := dispatch.Execute(step.op, step.args)
		require.NoError(t, err)
		seq := clock.Next()
		id := fmt.Sprintf("%s-%04d", token, seq)
		rec := journal.NewRecord(id, token, seq, step.op, step.args, res)
		require.NoError(t, j.Append(ctx, rec))
	}
}

func runHistoryCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewHistoryCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistoryMissingDatabaseFlag(t *testing.T) {
	_, err := runHistoryCommand(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestHistoryNonExistentDatabase(t *testing.T) {
	_, err := runHistoryCommand(t, "text", "--db", "/nonexistent/path/journal.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open journal")
}

func TestHistoryEmptyJournal(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	j, err := journal.Open(dbPath)
	require.NoError(t, err)
	j.Close()

	out, err := runHistoryCommand(t, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found in journal.")
}

func TestHistoryTimeline(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	seedJournal(t, dbPath, "hist-session")

	out, err := runHistoryCommand(t, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Session: hist-session")
	assert.Contains(t, out, "length")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "error [OUT_OF_RANGE]")
	assert.Contains(t, out, "3 operation(s): 1 ok, 1 not found, 1 error(s)")
}

func TestHistoryOpFilter(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	seedJournal(t, dbPath, "hist-session")

	out, err := runHistoryCommand(t, "text", "--db", dbPath, "--op", "length")
	require.NoError(t, err)
	assert.Contains(t, out, "length")
	assert.NotContains(t, out, "find")
	assert.Contains(t, out, "1 operation(s): 1 ok, 0 not found, 0 error(s)")
}

func TestHistoryJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	seedJournal(t, dbPath, "hist-session")

	out, err := runHistoryCommand(t, "json", "--db", dbPath, "--session", "hist-session")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	sessions, ok := data["sessions"].([]any)
	require.True(t, ok)
	require.Len(t, sessions, 1)

	sess, ok := sessions[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hist-session", sess["session_token"])

	timeline, ok := sess["timeline"].([]any)
	require.True(t, ok)
	assert.Len(t, timeline, 3)
}
