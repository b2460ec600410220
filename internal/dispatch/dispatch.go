package dispatch

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/zperk/strtools/internal/bytestr"
)

// Operation names accepted by Execute.
const (
	OpLength      = "length"
	OpConcat      = "concat"
	OpSubstring   = "substring"
	OpInsert      = "insert"
	OpDeleteRange = "delete_range"
	OpFind        = "find"
	OpReplace     = "replace"
)

// Result is the normalized outcome of a dispatched operation.
type Result struct {
	// Output is the produced string for operations that yield one
	// (concat, substring, insert, delete_range, replace). HasOutput
	// distinguishes "produced the empty string" from "produced nothing".
	Output    string
	HasOutput bool

	// Length is set for the length operation.
	Length int

	// Offset and Found are set for the find operation.
	Offset int
	Found  bool

	// Replaced is set for the replace operation.
	Replaced bool

	// Err is a bytestr contract violation, passed through untouched.
	// Argument-shape problems surface as *ArgError from Execute instead.
	Err error
}

// Display renders the result the way the menu and one-shot commands print it.
func (r Result) Display(op string) string {
	switch op {
	case OpLength:
		return strconv.Itoa(r.Length)
	case OpFind:
		if !r.Found {
			return "not found"
		}
		return strconv.Itoa(r.Offset)
	default:
		return r.Output
	}
}

// ArgError reports a malformed operation request: an unknown operation name,
// a missing argument, or an argument of the wrong type. Distinct from
// bytestr contract violations, which mean the request was well-formed but
// violated a toolkit precondition.
type ArgError struct {
	Op      string
	Message string
}

func (e *ArgError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Operations returns the known operation names, sorted.
func Operations() []string {
	ops := []string{
		OpLength, OpConcat, OpSubstring, OpInsert,
		OpDeleteRange, OpFind, OpReplace,
	}
	sort.Strings(ops)
	return ops
}

// Execute runs the named operation with arguments from args.
//
// String arguments must be strings; positions and counts must be integers
// (int, int64, or an integral float64, since JSON round-trips produce
// float64). A nil error with Result.Err set means the operation itself
// rejected its input; a non-nil error means the request was malformed.
func Execute(op string, args map[string]any) (Result, error) {
	switch op {
	case OpLength:
		s, err := stringArg(op, args, "s")
		if err != nil {
			return Result{}, err
		}
		n, opErr := bytestr.Length(s)
		return Result{Length: n, Err: opErr}, nil

	case OpConcat:
		a, err := stringArg(op, args, "a")
		if err != nil {
			return Result{}, err
		}
		b, err := stringArg(op, args, "b")
		if err != nil {
			return Result{}, err
		}
		r, opErr := bytestr.Concat(a, b)
		return outputResult(r, opErr), nil

	case OpSubstring:
		s, err := stringArg(op, args, "s")
		if err != nil {
			return Result{}, err
		}
		i, err := intArg(op, args, "i")
		if err != nil {
			return Result{}, err
		}
		j, err := intArg(op, args, "j")
		if err != nil {
			return Result{}, err
		}
		r, opErr := bytestr.Substring(s, i, j)
		return outputResult(r, opErr), nil

	case OpInsert:
		s1, err := stringArg(op, args, "s1")
		if err != nil {
			return Result{}, err
		}
		s2, err := stringArg(op, args, "s2")
		if err != nil {
			return Result{}, err
		}
		i, err := intArg(op, args, "i")
		if err != nil {
			return Result{}, err
		}
		r, opErr := bytestr.Insert(s1, s2, i)
		return outputResult(r, opErr), nil

	case OpDeleteRange:
		s, err := stringArg(op, args, "s")
		if err != nil {
			return Result{}, err
		}
		i, err := intArg(op, args, "i")
		if err != nil {
			return Result{}, err
		}
		j, err := intArg(op, args, "j")
		if err != nil {
			return Result{}, err
		}
		r, opErr := bytestr.DeleteRange(s, i, j)
		return outputResult(r, opErr), nil

	case OpFind:
		s, err := stringArg(op, args, "s")
		if err != nil {
			return Result{}, err
		}
		pattern, err := stringArg(op, args, "pattern")
		if err != nil {
			return Result{}, err
		}
		offset, found, opErr := bytestr.Find(s, pattern)
		return Result{Offset: offset, Found: found, Err: opErr}, nil

	case OpReplace:
		s, err := stringArg(op, args, "s")
		if err != nil {
			return Result{}, err
		}
		pattern, err := stringArg(op, args, "pattern")
		if err != nil {
			return Result{}, err
		}
		replacement, err := stringArg(op, args, "replacement")
		if err != nil {
			return Result{}, err
		}
		r, replaced, opErr := bytestr.Replace(s, pattern, replacement)
		res := outputResult(r, opErr)
		res.Replaced = replaced
		return res, nil

	default:
		return Result{}, &ArgError{Op: op, Message: fmt.Sprintf(
			"unknown operation (expected one of: %s)", strings.Join(Operations(), ", "))}
	}
}

func outputResult(r bytestr.ByteString, opErr error) Result {
	if opErr != nil {
		return Result{Err: opErr}
	}
	return Result{Output: r.String(), HasOutput: true}
}

func stringArg(op string, args map[string]any, name string) (bytestr.ByteString, error) {
	v, ok := args[name]
	if !ok {
		return bytestr.ByteString{}, &ArgError{Op: op, Message: fmt.Sprintf("missing argument %q", name)}
	}
	s, ok := v.(string)
	if !ok {
		return bytestr.ByteString{}, &ArgError{Op: op, Message: fmt.Sprintf("argument %q must be a string, got %T", name, v)}
	}
	return bytestr.FromString(s), nil
}

func intArg(op string, args map[string]any, name string) (int, error) {
	v, ok := args[name]
	if !ok {
		return 0, &ArgError{Op: op, Message: fmt.Sprintf("missing argument %q", name)}
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		// JSON decoding hands back numbers as float64.
		if n != math.Trunc(n) {
			return 0, &ArgError{Op: op, Message: fmt.Sprintf("argument %q must be an integer, got %v", name, n)}
		}
		return int(n), nil
	default:
		return 0, &ArgError{Op: op, Message: fmt.Sprintf("argument %q must be an integer, got %T", name, v)}
	}
}
