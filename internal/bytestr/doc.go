// Package bytestr implements the byte-string toolkit: a small set of pure
// operations over immutable, length-tracked byte sequences.
//
// # Operations
//
// The toolkit provides seven operations:
//
//   - Length: count of bytes in a string
//   - Concat: join two strings
//   - Substring: extract a bounded range (0-based)
//   - Insert: splice one string into another (1-based position)
//   - DeleteRange: excise a range (1-based position)
//   - Find: case-insensitive first-occurrence search
//   - Replace: case-sensitive first-occurrence substitution
//
// # Indexing Conventions
//
// Substring and Find are 0-based. Insert and DeleteRange are 1-based, i.e.
// Insert(s1, s2, 1) prepends s2 and Insert(s1, s2, Length(s1)+1) appends it.
// The conventions are fixed and applied uniformly; no operation accepts both.
//
// # Error Model
//
// Contract violations fail fast with a typed *Error carrying an ErrorCode:
//
//   - CodeInvalidArgument: an absent (zero-value) ByteString where a valid
//     one is required
//   - CodeOutOfRange: an index or length precondition violated
//
// Absence of a match in Find and Replace is an expected outcome, reported
// through a boolean result, never through an error and never through a
// -1 style sentinel.
//
// # Purity
//
// Every operation reads its inputs and returns a newly allocated result.
// No operation retains references to inputs, mutates shared state, or
// blocks. Calls are safe to run concurrently on independent inputs.
package bytestr
