package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zperk/strtools/internal/journal"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// VerifySessionResult holds the verification result for a single session.
type VerifySessionResult struct {
	SessionToken string   `json:"session_token"`
	Records      int      `json:"records"`
	Clean        bool     `json:"clean"`
	Divergences  []string `json:"divergences,omitempty"`
}

// VerifyResult holds the overall verification result.
type VerifyResult struct {
	Sessions      []VerifySessionResult `json:"sessions"`
	TotalSessions int                   `json:"total_sessions"`
	AllClean      bool                  `json:"all_clean"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay the journal and verify it",
		Long: `Replay journaled sessions and verify the journal is intact.

Every record is replayed through the toolkit and compared against what the
journal stored: inputs, outcome, output, and error code. The operations
are pure, so a clean journal always verifies; a divergence means the
journal was edited or the toolkit's behavior changed since recording.

Exit codes:
  0 - All sessions verified clean
  1 - Divergences detected
  2 - Command error (database not found, etc.)

Examples:
  strtools verify --db ./strtools.db
  strtools verify --db ./strtools.db --session edge-session
  strtools verify --db ./strtools.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "verify a specific session only")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
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
			return outputVerifyJSON(cmd, VerifyResult{
				Sessions: []VerifySessionResult{},
				AllClean: true,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in journal.")
		return nil
	}

	result := VerifyResult{
		Sessions:      make([]VerifySessionResult, 0, len(tokens)),
		TotalSessions: len(tokens),
		AllClean:      true,
	}

	for _, token := range tokens {
		report, err := verifySession(ctx, j, token)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to verify session %s", token), err)
		}

		result.Sessions = append(result.Sessions, report)
		if !report.Clean {
			result.AllClean = false
		}
	}

	if opts.Format == "json" {
		if err := outputVerifyJSON(cmd, result); err != nil {
			return err
		}
	} else if err := outputVerifyText(cmd, result); err != nil {
		return err
	}

	if !result.AllClean {
		return NewExitError(ExitFailure, "journal verification failed")
	}
	return nil
}

// verifySession replays one session and summarizes the report.
func verifySession(ctx context.Context, j *journal.Journal, token string) (VerifySessionResult, error) {
	report, err := j.Verify(ctx, token)
	if err != nil {
		return VerifySessionResult{}, err
	}

	result := VerifySessionResult{
		SessionToken: token,
		Records:      report.Total,
		Clean:        report.OK(),
	}
	for _, d := range report.Divergences {
		result.Divergences = append(result.Divergences, d.String())
	}
	return result, nil
}

// outputVerifyJSON outputs the verification result as JSON.
func outputVerifyJSON(cmd *cobra.Command, result VerifyResult) error {
	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
	return formatter.Success(result)
}

// outputVerifyText outputs the verification result as text.
func outputVerifyText(cmd *cobra.Command, result VerifyResult) error {
	w := cmd.OutOrStdout()

	for _, sess := range result.Sessions {
		if sess.Clean {
			fmt.Fprintf(w, "✓ %s (%d record(s))\n", sess.SessionToken, sess.Records)
			continue
		}
		fmt.Fprintf(w, "✗ %s (%d record(s))\n", sess.SessionToken, sess.Records)
		for _, d := range sess.Divergences {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}

	fmt.Fprintln(w)
	if result.AllClean {
		fmt.Fprintf(w, "Verified %d session(s): all clean\n", result.TotalSessions)
	} else {
		fmt.Fprintf(w, "Verified %d session(s): divergences detected\n", result.TotalSessions)
	}
	return nil
}
