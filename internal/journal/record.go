package journal

// Outcome classifies how a journaled operation ended.
type Outcome string

const (
	// OutcomeOK means the operation produced its result.
	OutcomeOK Outcome = "ok"

	// OutcomeNotFound means a search operation completed without a match.
	// Not-found is an expected result, distinct from an error.
	OutcomeNotFound Outcome = "not_found"

	// OutcomeError means the operation rejected its input with a toolkit
	// error (INVALID_ARGUMENT or OUT_OF_RANGE).
	OutcomeError Outcome = "error"
)

// Record is one journaled toolkit invocation.
type Record struct {
	// ID uniquely identifies the invocation (UUID).
	ID string

	// SessionToken groups invocations into a session.
	SessionToken string

	// Seq is the monotonic position of this record within its session.
	Seq int64

	// Op is the operation name: length, concat, substring, insert,
	// delete_range, find, or replace.
	Op string

	// Inputs holds the operation arguments. String arguments appear as
	// strings, positions and counts as integers. Note that records read
	// back from the journal carry integers as float64 (encoding/json).
	Inputs map[string]any

	// InputsJSON is the stored canonical encoding of Inputs. Populated only
	// on records read back from the journal; ignored by Append.
	InputsJSON string

	// Output is the rendered result: the produced string for
	// buffer-producing operations, the decimal count for length, the
	// decimal offset for find. Nil when the operation failed or a find
	// matched nothing.
	Output *string

	// Outcome classifies the result.
	Outcome Outcome

	// ErrorCode and ErrorMessage are set when Outcome is OutcomeError.
	ErrorCode    string
	ErrorMessage string

	// CreatedAt is the journal timestamp, set by the database.
	CreatedAt string
}
