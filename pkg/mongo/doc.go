// Package mongo connects to the document store backing tenant accounts,
// blogs, and affiliate records. Connection setup retries a few times so
// the service survives the database starting after it in orchestrated
// environments.
package mongo
