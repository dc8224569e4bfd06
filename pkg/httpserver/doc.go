// Package httpserver runs the HTTP listener with graceful shutdown on
// context cancellation or SIGINT/SIGTERM.
package httpserver
