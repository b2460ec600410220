package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/google/uuid"
	"github.com/zperk/strtools/internal/bytestr"
	"github.com/zperk/strtools/internal/dispatch"
	"github.com/zperk/strtools/internal/journal"
	"github.com/zperk/strtools/internal/logging"
)

// maxInputSize caps interactive string input. Longer lines are truncated.
const maxInputSize = 256

// exitSentinel cancels the current menu operation.
const exitSentinel = "/exit"

// Selector feedback messages.
const (
	msgInvalid     = "Value is invalid!"
	msgOutOfBounds = "Value is out of bounds!"
	msgCancelled   = "Operation was cancelled."
	msgNotFound    = "Substring not found in the original string!"
)

// MenuOptions holds flags for the menu command.
type MenuOptions struct {
	*RootOptions
	Database string
	Session  string
	LogFile  string
	Log      bool

	// Tokens allows overriding the session token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens journal.TokenGenerator
}

// NewMenuCommand creates the interactive menu command.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MenuOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu",
		Long: `Run the interactive numbered menu.

The menu prompts for a selector, then for the operation's inputs, one per
line. Typing '` + exitSentinel + `' at any input prompt cancels the current operation and
returns to the menu. Selector 0 exits.

When --db is given every executed operation is appended to the journal
under one session token. Pass --log to enable the diagnostic logger from
the start; selector 8 toggles it at any time.

Examples:
  strtools menu
  strtools menu --db ./strtools.db
  strtools menu --log --log-file ./strtools.log`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (optional)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token for journaling")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "also write log lines to this file")
	cmd.Flags().BoolVar(&opts.Log, "log", false, "enable the diagnostic logger at startup")

	return cmd
}

// menuSession holds the state of one interactive menu run.
type menuSession struct {
	in     *bufio.Reader
	out    io.Writer
	logger *logging.Logger

	journal *journal.Journal // nil when journaling is off
	token   string
	clock   *journal.Clock

	extraMsg string
}

func runMenu(opts *MenuOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.New(logging.Options{
		Console:  cmd.ErrOrStderr(),
		FilePath: opts.LogFile,
		Errors:   cmd.ErrOrStderr(),
		Enabled:  opts.Log,
	})
	defer logger.Close()

	sess := &menuSession{
		in:       bufio.NewReader(cmd.InOrStdin()),
		out:      cmd.OutOrStdout(),
		logger:   logger,
		extraMsg: ":D",
	}

	if opts.Database != "" {
		j, err := journal.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer j.Close()

		token := sessionToken(opts.Session, opts.Tokens)
		last, err := j.LastSeq(ctx, token)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read session", err)
		}

		sess.journal = j
		sess.token = token
		sess.clock = journal.NewClockAt(last)
		logger.Info("journaling enabled", "session", token)
	}

	sess.loop(ctx)
	fmt.Fprintln(sess.out, "Bye bye!")
	return nil
}

// loop runs the menu until the user exits or input ends.
func (m *menuSession) loop(ctx context.Context) {
	for {
		m.printMenu()

		line, ok := m.readLine()
		if !ok {
			return
		}

		selector, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			m.extraMsg = msgInvalid
			continue
		}
		if selector < 0 || selector > 8 {
			m.extraMsg = msgOutOfBounds
			continue
		}

		switch selector {
		case 0:
			return
		case 8:
			if m.logger.Toggle() {
				m.extraMsg = "Logger enabled."
			} else {
				m.extraMsg = "Logger disabled."
			}
		default:
			m.runSelection(ctx, selector)
		}
	}
}

func (m *menuSession) printMenu() {
	fmt.Fprint(m.out,
		"1. Calculate the length of a string.\n"+
			"2. Concatenate two strings.\n"+
			"3. Extract a substring from a string.\n"+
			"4. Insert a string into another string.\n"+
			"5. Delete a range from a string.\n"+
			"6. Find a substring in a string.\n"+
			"7. Replace a substring in a string.\n"+
			"8. Toggle the logger.\n"+
			"0. Exit.\n"+
			m.extraMsg+"\n\n> ")
}

// menuOps maps menu selectors to operations and their prompted inputs.
var menuOps = map[int]opSpec{
	1: opSpecByName(dispatch.OpLength),
	2: opSpecByName(dispatch.OpConcat),
	3: opSpecByName(dispatch.OpSubstring),
	4: opSpecByName(dispatch.OpInsert),
	5: opSpecByName(dispatch.OpDeleteRange),
	6: opSpecByName(dispatch.OpFind),
	7: opSpecByName(dispatch.OpReplace),
}

func opSpecByName(op string) opSpec {
	for _, spec := range opSpecs {
		if spec.op == op {
			return spec
		}
	}
	panic("unknown operation: " + op)
}

// runSelection prompts for the selected operation's inputs, executes it,
// and sets the menu feedback message.
func (m *menuSession) runSelection(ctx context.Context, selector int) {
	spec := menuOps[selector]

	fmt.Fprintf(m.out, "Enter %s (type '%s' to quit).\n", describeInputs(spec), exitSentinel)

	inputs, cancelled, ok := m.promptInputs(spec)
	if !ok {
		return
	}
	if cancelled {
		m.extraMsg = msgCancelled
		m.logger.Info("operation cancelled", "op", spec.op)
		return
	}

	res, err := dispatch.Execute(spec.op, inputs)
	if err != nil {
		// Every argument was prompted for, so a malformed request here is
		// a programming error, not a user mistake.
		m.extraMsg = err.Error()
		m.logger.Error("dispatch failed", "op", spec.op, "error", err)
		return
	}

	m.journalResult(ctx, spec.op, inputs, res)
	m.extraMsg = m.describeResult(spec.op, inputs, res)
}

// promptInputs reads each argument of the operation, one per line.
// Returns ok=false when input is exhausted.
func (m *menuSession) promptInputs(spec opSpec) (inputs map[string]any, cancelled, ok bool) {
	inputs = make(map[string]any, len(spec.args))

	for _, name := range spec.args {
		for {
			fmt.Fprint(m.out, "> ")
			line, readOK := m.readLine()
			if !readOK {
				return nil, false, false
			}
			if line == exitSentinel {
				return nil, true, true
			}

			if spec.intArgs[name] {
				n, err := strconv.Atoi(strings.TrimSpace(line))
				if err != nil {
					fmt.Fprintln(m.out, msgInvalid)
					continue
				}
				inputs[name] = n
				break
			}

			inputs[name] = line
			break
		}
	}

	return inputs, false, true
}

// readLine reads one input line, truncating it to maxInputSize bytes.
//
// A line of any length is consumed in full so the next prompt starts fresh,
// but only the first maxInputSize bytes are kept; memory use stays bounded
// no matter how long the line is. Returns ok=false once input is exhausted.
func (m *menuSession) readLine() (string, bool) {
	var (
		kept []byte // first maxInputSize+1 bytes, delimiter included
		size int    // full line length, delimiter excluded
	)
	for {
		chunk, err := m.in.ReadSlice('\n')
		size += len(chunk)
		if room := maxInputSize + 1 - len(kept); room > 0 {
			if len(chunk) > room {
				chunk = chunk[:room]
			}
			kept = append(kept, chunk...)
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == nil {
			size-- // the newline is not part of the line
		}
		break
	}
	if size == 0 && len(kept) == 0 {
		return "", false
	}

	if n := len(kept); n > 0 && kept[n-1] == '\n' {
		kept = kept[:n-1]
		if n := len(kept); n > 0 && kept[n-1] == '\r' {
			kept = kept[:n-1]
			size--
		}
	}

	if size > maxInputSize {
		m.logger.Warning("input truncated", "size", size, "max", maxInputSize)
		if len(kept) > maxInputSize {
			kept = kept[:maxInputSize]
		}
	}
	return string(kept), true
}

// journalResult appends the executed operation to the journal, if enabled.
func (m *menuSession) journalResult(ctx context.Context, op string, inputs map[string]any, res dispatch.Result) {
	if m.journal == nil {
		return
	}

	seq := m.clock.Next()
	rec := journal.NewRecord(uuid.New().String(), m.token, seq, op, inputs, res)
	if err := m.journal.Append(ctx, rec); err != nil {
		m.logger.Error("journal append failed", "op", op, "seq", seq, "error", err)
		return
	}
	m.logger.Info("operation journaled", "op", op, "seq", seq, "outcome", string(rec.Outcome))
}

// describeResult renders the operation outcome as the menu feedback message.
func (m *menuSession) describeResult(op string, inputs map[string]any, res dispatch.Result) string {
	if res.Err != nil {
		m.logger.Error("operation rejected", "op", op, "error", res.Err)
		switch {
		case bytestr.IsInvalidArgument(res.Err):
			return msgInvalid
		case bytestr.IsOutOfRange(res.Err):
			return msgOutOfBounds
		default:
			return res.Err.Error()
		}
	}

	m.logger.Info("operation completed", "op", op)

	switch op {
	case dispatch.OpLength:
		return fmt.Sprintf("The length of '%v' is: %d", inputs["s"], res.Length)
	case dispatch.OpConcat:
		return "Concatenated string: " + res.Output
	case dispatch.OpSubstring:
		return fmt.Sprintf("Extracted substring: '%s'", res.Output)
	case dispatch.OpFind:
		if !res.Found {
			return msgNotFound
		}
		return fmt.Sprintf("Found at position: %d", res.Offset)
	case dispatch.OpReplace:
		if !res.Replaced {
			return msgNotFound
		}
		return "Resulting string: " + res.Output
	default:
		return "Resulting string: " + res.Output
	}
}

// describeInputs names the prompted inputs for an operation, for the
// pre-prompt banner.
func describeInputs(spec opSpec) string {
	if len(spec.args) == 1 {
		return "a string"
	}
	return fmt.Sprintf("%d values, one per line", len(spec.args))
}
