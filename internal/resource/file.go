package resource

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// RCExt is the extension of files picked up when a directory is loaded.
const RCExt = ".rc"

// ErrUnsupportedValue is returned for structured values that have no flat
// string form, such as arrays of tables.
var ErrUnsupportedValue = errors.New("unsupported value")

// ReadFile merges the entries of the file at path into e.
func (e *Env) ReadFile(path string, source Source) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return e.readTOML(path, source)
	case ".yaml", ".yml":
		return e.readYAML(path, source)
	default:
		return e.readRC(path, source)
	}
}

// ReadDir merges every *.rc file in dir, in lexical order, and returns the
// paths that were read.
func (e *Env) ReadDir(dir string, source Source) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), RCExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	read := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := e.ReadFile(path, source); err != nil {
			return read, err
		}
		read = append(read, path)
	}
	return read, nil
}

// ReadPath reads path as a single file, or as a directory of *.rc files.
func (e *Env) ReadPath(path string, source Source) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return e.ReadDir(path, source)
	}
	if err := e.ReadFile(path, source); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func (e *Env) readRC(path string, source Source) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if strings.HasPrefix(key, "+") {
			if key = strings.TrimPrefix(key, "+"); key != "" {
				e.Append(key, value, source)
			}
			continue
		}
		if key != "" {
			e.Set(key, value, source)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func (e *Env) readTOML(path string, source Source) error {
	var doc map[string]any
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return fmt.Errorf("parsing TOML %s: %w", path, err)
	}
	return e.merge(doc, path, source)
}

func (e *Env) readYAML(path string, source Source) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing YAML %s: %w", path, err)
	}
	return e.merge(doc, path, source)
}

func (e *Env) merge(doc map[string]any, path string, source Source) error {
	flat := make(map[string]string)
	if err := flatten("", doc, flat); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Set(k, flat[k], source)
	}
	return nil
}

// flatten turns nested tables into dotted keys.
func flatten(prefix string, v any, out map[string]string) error {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}

	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			if err := flatten(join(k), child, out); err != nil {
				return err
			}
		}
		return nil
	case map[any]any:
		for k, child := range val {
			if err := flatten(join(fmt.Sprint(k)), child, out); err != nil {
				return err
			}
		}
		return nil
	case []map[string]any:
		return fmt.Errorf("%w: %s is an array of tables", ErrUnsupportedValue, prefix)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := scalar(item)
			if !ok {
				return fmt.Errorf("%w: %s holds a nested value", ErrUnsupportedValue, prefix)
			}
			items = append(items, s)
		}
		out[prefix] = strings.Join(items, ",")
		return nil
	}

	s, ok := scalar(v)
	if !ok {
		return fmt.Errorf("%w: %s has type %T", ErrUnsupportedValue, prefix, v)
	}
	out[prefix] = s
	return nil
}

func scalar(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case time.Time:
		return val.Format(time.RFC3339), true
	}
	return "", false
}
