package resource

import (
	"sort"
)

// Source represents where a stored value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global file"
	SourceInclude Source = "include file"
	SourceUser    Source = "user file"
	SourceProject Source = "project file"
	SourceExtra   Source = "extra file"
	SourceEnv     Source = "environment"
	SourceCmdLine Source = "cmdline"
)

// Store is the minimal key/value contract the option registry depends on.
type Store interface {
	Lookup(key string) (string, bool)
	Set(key, value string, source Source)
	Delete(key string)
}

// Record is a single stored entry.
type Record struct {
	Key    string
	Value  string
	Source Source
}

// Env is an in-memory Store that remembers the source of each entry.
// Later writes to a key overwrite earlier ones.
type Env struct {
	records map[string]*Record
}

// NewEnv creates an empty Env.
func NewEnv() *Env {
	return &Env{records: make(map[string]*Record)}
}

// Lookup returns the value stored under the exact key.
func (e *Env) Lookup(key string) (string, bool) {
	rec, ok := e.records[key]
	if !ok {
		return "", false
	}
	return rec.Value, true
}

// Set stores value under key, replacing any previous entry.
func (e *Env) Set(key, value string, source Source) {
	if rec, ok := e.records[key]; ok {
		rec.Value = value
		rec.Source = source
		return
	}
	e.records[key] = &Record{Key: key, Value: value, Source: source}
}

// Append adds value to an existing entry separated by a space, or stores it
// as a new entry.
func (e *Env) Append(key, value string, source Source) {
	if rec, ok := e.records[key]; ok && rec.Value != "" {
		e.Set(key, rec.Value+" "+value, source)
		return
	}
	e.Set(key, value, source)
}

// Delete removes key. Missing keys are ignored.
func (e *Env) Delete(key string) {
	delete(e.records, key)
}

// Record returns a copy of the entry stored under key.
func (e *Env) Record(key string) (Record, bool) {
	rec, ok := e.records[key]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Keys returns all stored keys in lexical order.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.records))
	for k := range e.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored entries.
func (e *Env) Len() int {
	return len(e.records)
}
