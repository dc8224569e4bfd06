// Package binder decodes HTTP request payloads into typed structs with
// strict validation: JSON bodies must carry the right content type,
// contain no unknown fields, and hold exactly one value.
package binder
