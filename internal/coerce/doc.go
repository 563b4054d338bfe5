// Package coerce converts raw resource strings into typed values.
//
// Integers accept a decimal prefix (trailing garbage is ignored) or one of
// the boolean words TRUE, ON, YES, OK (1) and FALSE, OFF, NO, NOT (0).
// Doubles accept the longest floating point prefix of the string. A string
// that yields no number at all falls back to the caller's default.
//
// Arrays are plain strings split on ':', ' ' and ','. Elements are addressed
// with 1-based indices.
package coerce
