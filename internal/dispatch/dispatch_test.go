package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zperk/strtools/internal/bytestr"
)

func TestExecute_AllOperations(t *testing.T) {
	testCases := []struct {
		name string
		op   string
		args map[string]any
		want Result
	}{
		{
			name: "length",
			op:   OpLength,
			args: map[string]any{"s": "hello"},
			want: Result{Length: 5},
		},
		{
			name: "concat",
			op:   OpConcat,
			args: map[string]any{"a": "foo", "b": "bar"},
			want: Result{Output: "foobar", HasOutput: true},
		},
		{
			name: "substring",
			op:   OpSubstring,
			args: map[string]any{"s": "hello world", "i": 6, "j": 5},
			want: Result{Output: "world", HasOutput: true},
		},
		{
			name: "insert",
			op:   OpInsert,
			args: map[string]any{"s1": "Hello !", "s2": "World", "i": 7},
			want: Result{Output: "Hello World!", HasOutput: true},
		},
		{
			name: "delete_range",
			op:   OpDeleteRange,
			args: map[string]any{"s": "hello world", "i": 6, "j": 6},
			want: Result{Output: "hello", HasOutput: true},
		},
		{
			name: "find",
			op:   OpFind,
			args: map[string]any{"s": "Hello World", "pattern": "world"},
			want: Result{Offset: 6, Found: true},
		},
		{
			name: "find miss",
			op:   OpFind,
			args: map[string]any{"s": "Hello", "pattern": "xyz"},
			want: Result{Found: false},
		},
		{
			name: "replace",
			op:   OpReplace,
			args: map[string]any{"s": "Hello World", "pattern": "World", "replacement": "Universe"},
			want: Result{Output: "Hello Universe", HasOutput: true, Replaced: true},
		},
		{
			name: "replace miss",
			op:   OpReplace,
			args: map[string]any{"s": "Hello", "pattern": "nope", "replacement": "x"},
			want: Result{Output: "Hello", HasOutput: true, Replaced: false},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Execute(tc.op, tc.args)
			require.NoError(t, err)
			require.NoError(t, got.Err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExecute_IntegerCoercion(t *testing.T) {
	// JSON round-trips hand back numbers as float64.
	got, err := Execute(OpSubstring, map[string]any{"s": "hello", "i": float64(1), "j": float64(3)})
	require.NoError(t, err)
	require.NoError(t, got.Err)
	assert.Equal(t, "ell", got.Output)

	got, err = Execute(OpSubstring, map[string]any{"s": "hello", "i": int64(0), "j": int64(2)})
	require.NoError(t, err)
	require.NoError(t, got.Err)
	assert.Equal(t, "he", got.Output)
}

func TestExecute_ToolkitErrorsPassThrough(t *testing.T) {
	got, err := Execute(OpSubstring, map[string]any{"s": "hi", "i": 0, "j": 5})
	require.NoError(t, err, "a contract violation is not an argument error")
	assert.True(t, bytestr.IsOutOfRange(got.Err))
}

func TestExecute_ArgErrors(t *testing.T) {
	testCases := []struct {
		name string
		op   string
		args map[string]any
	}{
		{"unknown op", "shout", map[string]any{}},
		{"missing arg", OpLength, map[string]any{}},
		{"wrong string type", OpLength, map[string]any{"s": 5}},
		{"wrong int type", OpSubstring, map[string]any{"s": "x", "i": "0", "j": 1}},
		{"fractional position", OpSubstring, map[string]any{"s": "x", "i": 0.5, "j": 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Execute(tc.op, tc.args)
			require.Error(t, err)
			var argErr *ArgError
			assert.ErrorAs(t, err, &argErr)
		})
	}
}

func TestResultDisplay(t *testing.T) {
	assert.Equal(t, "5", Result{Length: 5}.Display(OpLength))
	assert.Equal(t, "6", Result{Offset: 6, Found: true}.Display(OpFind))
	assert.Equal(t, "not found", Result{Found: false}.Display(OpFind))
	assert.Equal(t, "abc", Result{Output: "abc", HasOutput: true}.Display(OpConcat))
}

func TestExecute_UnknownOpListsKnownOps(t *testing.T) {
	_, err := Execute("shout", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
	assert.Contains(t, err.Error(),
		"concat, delete_range, find, insert, length, replace, substring")
}

func TestOperationsAreSorted(t *testing.T) {
	ops := Operations()
	require.Len(t, ops, 7)
	assert.IsType(t, []string{}, ops)
	for i := 1; i < len(ops); i++ {
		assert.Less(t, ops[i-1], ops[i])
	}
}
