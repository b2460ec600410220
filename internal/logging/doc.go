// Package logging provides the diagnostic logger for the CLI layer.
//
// The logger is an injected capability: the toolkit core never logs, and
// nothing in this package is global. It wraps log/slog with a line handler
// that writes
//
//	2024-08-02 17:04:05 [INFO] message key=value
//
// to the console and, optionally, to a log file. Three levels are used:
// INFO, WARNING, ERROR. The logger can be toggled on and off at runtime
// from the interactive menu; a log file that fails to open is reported to
// the error writer and the logger continues console-only.
package logging
