package bytestr

import "fmt"

// Length returns the number of bytes in s.
//
// The absent string is rejected with CodeInvalidArgument rather than counted
// as zero, so callers can distinguish "no input" from the empty string.
func Length(s ByteString) (int, error) {
	if s.Absent() {
		return 0, invalidArgument("length", "input string is absent")
	}
	return s.Len(), nil
}

// Concat returns a new string holding all bytes of a followed by all bytes
// of b. Guarantees len(result) == len(a) + len(b).
func Concat(a, b ByteString) (ByteString, error) {
	if a.Absent() || b.Absent() {
		return ByteString{}, invalidArgument("concat", "input string is absent")
	}
	r := make([]byte, 0, a.Len()+b.Len())
	r = append(r, a.b...)
	r = append(r, b.b...)
	return newOwned(r), nil
}

// Substring extracts j bytes starting at 0-based offset i.
//
// Preconditions: 0 <= i, 0 <= j, i+j <= len(s). Violations fail with
// CodeOutOfRange. j == 0 yields the empty string; i == len(s) with j == 0
// is valid (zero-length range at the end).
func Substring(s ByteString, i, j int) (ByteString, error) {
	if s.Absent() {
		return ByteString{}, invalidArgument("substring", "input string is absent")
	}
	// Checked as i > len and j > len-i rather than i+j > len, which wraps
	// around for huge operands.
	if i < 0 || j < 0 || i > s.Len() || j > s.Len()-i {
		return ByteString{}, outOfRange("substring", fmt.Sprintf(
			"range (i=%d, j=%d) outside string of length %d", i, j, s.Len()))
	}
	r := make([]byte, j)
	copy(r, s.b[i:i+j])
	return newOwned(r), nil
}

// Insert splices s2 into s1 so that the first byte of s2 becomes the i-th
// byte (1-based) of the result. i == 1 prepends, i == len(s1)+1 appends.
//
// Precondition: 1 <= i <= len(s1)+1, otherwise CodeOutOfRange.
func Insert(s1, s2 ByteString, i int) (ByteString, error) {
	if s1.Absent() || s2.Absent() {
		return ByteString{}, invalidArgument("insert", "input string is absent")
	}
	if i < 1 || i > s1.Len()+1 {
		return ByteString{}, outOfRange("insert", fmt.Sprintf(
			"position %d outside [1, %d]", i, s1.Len()+1))
	}

	// Composed as substring + concat + concat; each piece re-checks its own
	// bounds, which the precondition above already guarantees hold.
	head, err := Substring(s1, 0, i-1)
	if err != nil {
		return ByteString{}, err
	}
	tail, err := Substring(s1, i-1, s1.Len()-(i-1))
	if err != nil {
		return ByteString{}, err
	}
	r, err := Concat(head, s2)
	if err != nil {
		return ByteString{}, err
	}
	return Concat(r, tail)
}

// DeleteRange removes j bytes starting at 1-based position i from s.
//
// Preconditions: 1 <= i <= len(s), 0 <= j, i+j-1 <= len(s). j == 0 returns
// an unmodified copy of s.
func DeleteRange(s ByteString, i, j int) (ByteString, error) {
	if s.Absent() {
		return ByteString{}, invalidArgument("delete_range", "input string is absent")
	}
	if i < 1 || i > s.Len() {
		return ByteString{}, outOfRange("delete_range", fmt.Sprintf(
			"position %d outside [1, %d]", i, s.Len()))
	}
	// i is in [1, len] here; j > len-i+1 is the overflow-safe form of
	// i+j-1 > len.
	if j < 0 || j > s.Len()-i+1 {
		return ByteString{}, outOfRange("delete_range", fmt.Sprintf(
			"count %d removes past end of string of length %d", j, s.Len()))
	}

	head, err := Substring(s, 0, i-1)
	if err != nil {
		return ByteString{}, err
	}
	tail, err := Substring(s, i+j-1, s.Len()-(i+j-1))
	if err != nil {
		return ByteString{}, err
	}
	return Concat(head, tail)
}
