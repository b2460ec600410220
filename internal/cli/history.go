package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zperk/strtools/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
	Op       string // optional - filter to specific operation
}

// HistoryEvent represents a single journaled operation in the timeline.
type HistoryEvent struct {
	Seq       int64           `json:"seq"`
	Op        string          `json:"op"`
	Inputs    json.RawMessage `json:"inputs"`
	Output    *string         `json:"output,omitempty"`
	Outcome   string          `json:"outcome"`
	ErrorCode string          `json:"error_code,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// SessionHistory holds the timeline for one session.
type SessionHistory struct {
	SessionToken string         `json:"session_token"`
	Timeline     []HistoryEvent `json:"timeline"`
	Stats        HistoryStats   `json:"stats"`
}

// HistoryStats holds summary statistics for a session.
type HistoryStats struct {
	TotalOps int `json:"total_ops"`
	OK       int `json:"ok"`
	NotFound int `json:"not_found"`
	Errors   int `json:"errors"`
}

// HistoryResult holds the complete history output.
type HistoryResult struct {
	Sessions []SessionHistory `json:"sessions"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the journaled operation timeline",
		Long: `Show the journal timeline for one session or all sessions.

Each entry shows the operation, its inputs, its rendered output (or error
code), and its position in the session.

Examples:
  strtools history --db ./strtools.db
  strtools history --db ./strtools.db --session edge-session
  strtools history --db ./strtools.db --op find
  strtools history --db ./strtools.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "show a specific session only")
	cmd.Flags().StringVar(&opts.Op, "op", "", "filter to a specific operation")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	var tokens []string
	if opts.Session != "" {
		tokens = []string{opts.Session}
	} else {
		tokens, err = j.Sessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
	}

	if len(tokens) == 0 {
		if opts.Format == "json" {
			return outputHistoryJSON(cmd, HistoryResult{Sessions: []SessionHistory{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in journal.")
		return nil
	}

	result := HistoryResult{Sessions: make([]SessionHistory, 0, len(tokens))}
	for _, token := range tokens {
		history, err := buildSessionHistory(ctx, j, token, opts.Op)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read session %s", token), err)
		}
		result.Sessions = append(result.Sessions, history)
	}

	if opts.Format == "json" {
		return outputHistoryJSON(cmd, result)
	}
	return outputHistoryText(cmd, result, opts.Verbose)
}

// buildSessionHistory reads one session's records and builds its timeline.
func buildSessionHistory(ctx context.Context, j *journal.Journal, token, opFilter string) (SessionHistory, error) {
	records, err := j.ReadSession(ctx, token)
	if err != nil {
		return SessionHistory{}, err
	}

	history := SessionHistory{
		SessionToken: token,
		Timeline:     make([]HistoryEvent, 0, len(records)),
	}

	for _, rec := range records {
		if opFilter != "" && rec.Op != opFilter {
			continue
		}

		history.Timeline = append(history.Timeline, HistoryEvent{
			Seq:       rec.Seq,
			Op:        rec.Op,
			Inputs:    json.RawMessage(rec.InputsJSON),
			Output:    rec.Output,
			Outcome:   string(rec.Outcome),
			ErrorCode: rec.ErrorCode,
			CreatedAt: rec.CreatedAt,
		})

		history.Stats.TotalOps++
		switch rec.Outcome {
		case journal.OutcomeOK:
			history.Stats.OK++
		case journal.OutcomeNotFound:
			history.Stats.NotFound++
		case journal.OutcomeError:
			history.Stats.Errors++
		}
	}

	return history, nil
}

// outputHistoryJSON outputs the history as JSON.
func outputHistoryJSON(cmd *cobra.Command, result HistoryResult) error {
	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
	return formatter.Success(result)
}

// outputHistoryText outputs the history as human-readable text.
func outputHistoryText(cmd *cobra.Command, result HistoryResult, verbose bool) error {
	w := cmd.OutOrStdout()

	for i, sess := range result.Sessions {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Session: %s\n", sess.SessionToken)

		for _, ev := range sess.Timeline {
			switch ev.Outcome {
			case string(journal.OutcomeError):
				fmt.Fprintf(w, "  %4d  %-12s %s  error [%s]\n", ev.Seq, ev.Op, ev.Inputs, ev.ErrorCode)
			case string(journal.OutcomeNotFound):
				if ev.Output != nil {
					fmt.Fprintf(w, "  %4d  %-12s %s  not found -> %q\n", ev.Seq, ev.Op, ev.Inputs, *ev.Output)
				} else {
					fmt.Fprintf(w, "  %4d  %-12s %s  not found\n", ev.Seq, ev.Op, ev.Inputs)
				}
			default:
				output := ""
				if ev.Output != nil {
					output = *ev.Output
				}
				fmt.Fprintf(w, "  %4d  %-12s %s  -> %q\n", ev.Seq, ev.Op, ev.Inputs, output)
			}
			if verbose && ev.CreatedAt != "" {
				fmt.Fprintf(w, "        at %s\n", ev.CreatedAt)
			}
		}

		fmt.Fprintf(w, "  %d operation(s): %d ok, %d not found, %d error(s)\n",
			sess.Stats.TotalOps, sess.Stats.OK, sess.Stats.NotFound, sess.Stats.Errors)
	}

	return nil
}
