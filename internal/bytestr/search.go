package bytestr

// foldByte maps ASCII uppercase letters to lowercase and leaves every other
// byte unchanged. Non-ASCII bytes therefore compare verbatim in Find; the
// toolkit performs no locale or Unicode-aware folding.
func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// matchAt reports whether pattern matches s at the given offset, comparing
// byte-by-byte through fold. The caller guarantees the window fits.
func matchAt(s, pattern ByteString, offset int, fold bool) bool {
	for j := 0; j < pattern.Len(); j++ {
		a, b := s.at(offset+j), pattern.at(j)
		if fold {
			a, b = foldByte(a), foldByte(b)
		}
		if a != b {
			return false
		}
	}
	return true
}

// scan runs the naive O(n*m) window search shared by Find and Replace.
// Returns the earliest matching 0-based offset, or found=false.
func scan(s, pattern ByteString, fold bool) (int, bool) {
	// The empty pattern matches at offset 0 for every string, including the
	// empty string.
	if pattern.Len() == 0 {
		return 0, true
	}
	if pattern.Len() > s.Len() {
		return 0, false
	}
	for i := 0; i <= s.Len()-pattern.Len(); i++ {
		if matchAt(s, pattern, i, fold) {
			return i, true
		}
	}
	return 0, false
}

// Find locates the first occurrence of pattern in s, comparing
// case-insensitively over ASCII (both sides folded to lowercase before each
// byte comparison).
//
// Returns the earliest matching 0-based offset. A missing match is an
// expected outcome reported as found=false, not an error. The error return
// is reserved for absent inputs (CodeInvalidArgument).
func Find(s, pattern ByteString) (offset int, found bool, err error) {
	if s.Absent() || pattern.Absent() {
		return 0, false, invalidArgument("find", "input string is absent")
	}
	offset, found = scan(s, pattern, true)
	return offset, found, nil
}

// Replace substitutes the first occurrence of pattern in s with replacement,
// using case-SENSITIVE literal matching. This is deliberate: Find answers
// "where is it, ignoring case" while Replace edits exactly what was asked.
//
// If pattern does not occur, Replace returns an unmodified copy of s with
// replaced=false. Otherwise len(result) == len(s) - len(pattern) +
// len(replacement).
func Replace(s, pattern, replacement ByteString) (result ByteString, replaced bool, err error) {
	if s.Absent() || pattern.Absent() || replacement.Absent() {
		return ByteString{}, false, invalidArgument("replace", "input string is absent")
	}

	pos, found := scan(s, pattern, false)
	if !found {
		return FromBytes(s.b), false, nil
	}

	r := make([]byte, 0, s.Len()-pattern.Len()+replacement.Len())
	r = append(r, s.b[:pos]...)
	r = append(r, replacement.b...)
	r = append(r, s.b[pos+pattern.Len():]...)
	return newOwned(r), true, nil
}
