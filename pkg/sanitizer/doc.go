// Package sanitizer normalizes free-text input before validation and storage.
//
// All functions are idempotent: applying them twice yields the same result.
// Invalid input is never an error here; validation decides what to reject.
//
// Normalization includes:
//   - Strings: strip control characters, collapse whitespace, trim
//   - Guest names: string normalization, case preserved
//   - Emails: string normalization, lowercased
//   - Identifiers: trimmed, inner whitespace removed
package sanitizer
