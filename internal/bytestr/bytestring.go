package bytestr

import "bytes"

// ByteString holds an immutable, length-tracked sequence of bytes.
//
// The zero value is the absent string: it represents "no input" (the
// equivalent of a null buffer at an FFI or capture boundary) and is rejected
// by every operation with CodeInvalidArgument. The empty string is a
// distinct, valid value produced by FromString("").
//
// Constructors copy their input and accessors copy out, so a ByteString can
// never be mutated through an aliased slice.
type ByteString struct {
	b []byte
}

// FromString creates a ByteString holding a copy of s.
// FromString("") returns the valid empty string, not the absent string.
func FromString(s string) ByteString {
	b := make([]byte, len(s))
	copy(b, s)
	return ByteString{b: b}
}

// FromBytes creates a ByteString holding a copy of b.
// A nil slice yields the valid empty string; use the zero ByteString for
// absence.
func FromBytes(b []byte) ByteString {
	c := make([]byte, len(b))
	copy(c, b)
	return ByteString{b: c}
}

// Absent reports whether s is the zero-value (absent) string.
func (s ByteString) Absent() bool {
	return s.b == nil
}

// Len returns the number of bytes. The absent string has length 0; callers
// that must distinguish absence use the Length operation, which returns an
// error instead.
func (s ByteString) Len() int {
	return len(s.b)
}

// Bytes returns a copy of the underlying bytes to preserve immutability.
func (s ByteString) Bytes() []byte {
	c := make([]byte, len(s.b))
	copy(c, s.b)
	return c
}

// String returns the contents as a Go string.
func (s ByteString) String() string {
	return string(s.b)
}

// Equal reports whether s and t hold identical byte content.
// The absent string compares equal only to itself.
func (s ByteString) Equal(t ByteString) bool {
	if s.Absent() != t.Absent() {
		return false
	}
	return bytes.Equal(s.b, t.b)
}

// at returns the byte at offset i without copying. Internal use only;
// callers guarantee bounds.
func (s ByteString) at(i int) byte {
	return s.b[i]
}

// newOwned wraps an already-private slice without copying. Internal
// constructor for operation results whose buffers never escape.
func newOwned(b []byte) ByteString {
	if b == nil {
		b = []byte{}
	}
	return ByteString{b: b}
}
