package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/google/uuid"
	"github.com/zperk/strtools/internal/bytestr"
	"github.com/zperk/strtools/internal/dispatch"
	"github.com/zperk/strtools/internal/journal"
)

// OpOptions holds flags shared by the one-shot operation commands.
type OpOptions struct {
	*RootOptions
	Database string // optional journal database
	Session  string // session token for journaling (generated if empty)

	// Tokens allows overriding the session token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens journal.TokenGenerator
}

// OpResponse is the JSON payload for a completed operation.
type OpResponse struct {
	Op       string         `json:"op"`
	Inputs   map[string]any `json:"inputs"`
	Output   *string        `json:"output,omitempty"`
	Length   *int           `json:"length,omitempty"`
	Offset   *int           `json:"offset,omitempty"`
	Found    *bool          `json:"found,omitempty"`
	Replaced *bool          `json:"replaced,omitempty"`
	Outcome  string         `json:"outcome"`
}

// opSpec describes one operation subcommand: its argument names in
// positional order, which of them are integers, and usage text.
type opSpec struct {
	op      string
	use     string
	short   string
	example string
	args    []string
	intArgs map[string]bool
}

var opSpecs = []opSpec{
	{
		op:      dispatch.OpLength,
		use:     "length <s>",
		short:   "Report the length of a string",
		example: "  strtools length hello",
		args:    []string{"s"},
	},
	{
		op:      dispatch.OpConcat,
		use:     "concat <a> <b>",
		short:   "Concatenate two strings",
		example: "  strtools concat foo bar",
		args:    []string{"a", "b"},
	},
	{
		op:      dispatch.OpSubstring,
		use:     "substring <s> <i> <j>",
		short:   "Extract j bytes starting at 0-based position i",
		example: "  strtools substring 'Hello World' 6 5",
		args:    []string{"s", "i", "j"},
		intArgs: map[string]bool{"i": true, "j": true},
	},
	{
		op:      dispatch.OpInsert,
		use:     "insert <s1> <s2> <i>",
		short:   "Insert s2 into s1 at 1-based position i",
		example: "  strtools insert 'Hello !' World 7",
		args:    []string{"s1", "s2", "i"},
		intArgs: map[string]bool{"i": true},
	},
	{
		op:      dispatch.OpDeleteRange,
		use:     "delete <s> <i> <j>",
		short:   "Delete j bytes starting at 1-based position i",
		example: "  strtools delete 'Hello World' 6 6",
		args:    []string{"s", "i", "j"},
		intArgs: map[string]bool{"i": true, "j": true},
	},
	{
		op:      dispatch.OpFind,
		use:     "find <s> <pattern>",
		short:   "Find a pattern, ignoring ASCII case",
		example: "  strtools find 'Hello World' world",
		args:    []string{"s", "pattern"},
	},
	{
		op:      dispatch.OpReplace,
		use:     "replace <s> <pattern> <replacement>",
		short:   "Replace the first exact occurrence of a pattern",
		example: "  strtools replace 'Hello World' World Go",
		args:    []string{"s", "pattern", "replacement"},
	},
}

// newOperationCommands creates the seven one-shot operation commands.
func newOperationCommands(rootOpts *RootOptions) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(opSpecs))
	for _, spec := range opSpecs {
		cmds = append(cmds, newOperationCommand(rootOpts, spec))
	}
	return cmds
}

func newOperationCommand(rootOpts *RootOptions, spec opSpec) *cobra.Command {
	opts := &OpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Long: spec.short + `.

Exit codes:
  0 - Operation completed (including a find or replace that matched nothing)
  1 - Operation rejected its input (INVALID_ARGUMENT or OUT_OF_RANGE)
  2 - Command error (malformed arguments)

When --db is given the invocation is appended to the journal. Pass
--session to continue an existing session; otherwise a fresh session
token is generated.

Example:
` + spec.example,
		Args:          cobra.ExactArgs(len(spec.args)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(opts, spec, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (optional)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token for journaling")

	return cmd
}

func runOperation(opts *OpOptions, spec opSpec, argv []string, cmd *cobra.Command) error {
	inputs, err := buildInputs(spec, argv)
	if err != nil {
		return err
	}

	res, err := dispatch.Execute(spec.op, inputs)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid request", err)
	}

	if opts.Database != "" {
		if err := journalOperation(cmd.Context(), opts, spec.op, inputs, res, cmd); err != nil {
			return err
		}
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if res.Err != nil {
		code, message := toolkitError(res.Err)
		if ferr := formatter.Error(code, message, nil); ferr != nil {
			return ferr
		}
		return NewExitError(ExitFailure, message)
	}

	return formatter.SuccessText(buildResponse(spec.op, inputs, res), res.Display(spec.op))
}

// buildInputs converts positional arguments into the dispatch argument map,
// parsing integer positions and counts.
func buildInputs(spec opSpec, argv []string) (map[string]any, error) {
	inputs := make(map[string]any, len(spec.args))
	for idx, name := range spec.args {
		if spec.intArgs[name] {
			n, err := strconv.Atoi(argv[idx])
			if err != nil {
				return nil, NewExitError(ExitCommandError,
					fmt.Sprintf("argument %q must be an integer, got %q", name, argv[idx]))
			}
			inputs[name] = n
			continue
		}
		inputs[name] = argv[idx]
	}
	return inputs, nil
}

// sessionToken resolves the token to journal under: an explicit --session
// value wins, otherwise a fresh token from gen (UUIDv7 when gen is nil).
func sessionToken(explicit string, gen journal.TokenGenerator) string {
	if explicit != "" {
		return explicit
	}
	if gen == nil {
		gen = journal.UUIDv7Generator{}
	}
	return gen.Generate()
}

// journalOperation appends the executed operation to the journal database.
func journalOperation(ctx context.Context, opts *OpOptions, op string, inputs map[string]any, res dispatch.Result, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

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
	seq := last + 1

	rec := journal.NewRecord(uuid.New().String(), token, seq, op, inputs, res)
	if err := j.Append(ctx, rec); err != nil {
		return WrapExitError(ExitCommandError, "failed to append to journal", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	formatter.VerboseLog("journaled %s as seq %d in session %s", op, seq, token)

	return nil
}

// buildResponse assembles the JSON payload for a successful operation.
func buildResponse(op string, inputs map[string]any, res dispatch.Result) OpResponse {
	resp := OpResponse{
		Op:      op,
		Inputs:  inputs,
		Outcome: string(journal.OutcomeOK),
	}

	switch op {
	case dispatch.OpLength:
		n := res.Length
		resp.Length = &n
	case dispatch.OpFind:
		found := res.Found
		resp.Found = &found
		if found {
			off := res.Offset
			resp.Offset = &off
		} else {
			resp.Outcome = string(journal.OutcomeNotFound)
		}
	case dispatch.OpReplace:
		replaced := res.Replaced
		resp.Replaced = &replaced
		out := res.Output
		resp.Output = &out
		if !replaced {
			resp.Outcome = string(journal.OutcomeNotFound)
		}
	default:
		out := res.Output
		resp.Output = &out
	}

	return resp
}

// toolkitError maps a bytestr contract violation to an error code and message.
func toolkitError(err error) (code, message string) {
	var te *bytestr.Error
	if errors.As(err, &te) {
		return string(te.Code), te.Message
	}
	return "ERROR", err.Error()
}
