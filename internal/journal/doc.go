// Package journal provides durable, append-only storage for toolkit
// invocations.
//
// Every recorded operation carries a session token, a monotonic sequence
// number, the operation name, its arguments as canonical JSON, and the
// outcome (produced string, not-found, or a toolkit error). The journal is
// write-only from the toolkit's point of view: nothing in the core reads it
// back during normal operation.
//
// # Determinism
//
// Toolkit operations are pure, so a journaled session can be re-executed at
// any time and must produce byte-identical results. Verify replays a session
// through the dispatcher and reports any divergence - a divergence means the
// journal was tampered with or the toolkit's behavior changed between
// versions.
//
// Canonical JSON (sorted keys, NFC-normalized strings, no HTML escaping)
// keeps the stored argument encoding byte-stable so replay comparison can be
// exact.
//
// # Storage
//
// SQLite with WAL mode for concurrent read access. Use ":memory:" for
// throwaway journals in tests and the scenario harness.
package journal
