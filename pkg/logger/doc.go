// Package logger builds the process-wide slog.Logger from environment
// configuration. JSON output is the default so production logs stay
// machine-parseable; text output is available for local runs.
package logger
