// Package resource holds the key/value store behind every option.
//
// Keys are dot-segmented strings such as "CmdLine.RunNumber" or
// "Hist.hist1.Threshold". Values are plain strings; typing happens later in
// package coerce.
//
// Files are read in three formats, chosen by extension:
//   - .toml: tables become key prefixes, arrays of scalars are joined with ","
//   - .yaml, .yml: same flattening as TOML
//   - anything else: one "Key: value" pair per line, '#' starts a comment and
//     "+Key: value" appends to an existing value
//
// Lookups that miss an exact key can fall back to wildcard entries, see
// Resolve.
package resource
