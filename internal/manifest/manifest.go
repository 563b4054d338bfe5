// Package manifest declares options and positional arguments in a TOML file
// so the cmdlineargs tool can parse command lines without compiled
// descriptors.
//
// A manifest looks like:
//
//	name = "analysis"
//	standard = true
//
//	[[option]]
//	name = "IntegerArg"
//	tag = "-int"
//	kind = "int"
//	default = 13
//
//	[[positional]]
//	name = "files"
//	kind = "string"
//	greedy = true
package manifest

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/cmdlineargs-go/internal/cmdline"
)

//go:embed manifest.schema.json
var schemaJSON string

const schemaURL = "manifest.schema.json"

// ErrInvalidManifest is returned when a manifest cannot be parsed, does not
// match the schema or declares inconsistent descriptors.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest is a parsed declaration file.
type Manifest struct {
	Name        string       `toml:"name" json:"name,omitempty"`
	Description string       `toml:"description" json:"description,omitempty"`
	Standard    bool         `toml:"standard" json:"standard,omitempty"`
	StrictTypes bool         `toml:"strict_types" json:"strict_types,omitempty"`
	EnvPrefix   string       `toml:"env_prefix" json:"env_prefix,omitempty"`
	App         string       `toml:"app" json:"app,omitempty"`
	Options     []Option     `toml:"option" json:"option,omitempty"`
	Positionals []Positional `toml:"positional" json:"positional,omitempty"`
	Expansions  []Expansion  `toml:"expand" json:"expand,omitempty"`
}

// Option declares a named option.
type Option struct {
	Name    string `toml:"name" json:"name"`
	Tag     string `toml:"tag" json:"tag,omitempty"`
	Help    string `toml:"help" json:"help,omitempty"`
	Kind    string `toml:"kind" json:"kind"`
	Default any    `toml:"default" json:"default,omitempty"`
}

// Positional declares a positional slot.
type Positional struct {
	Name   string `toml:"name" json:"name"`
	Help   string `toml:"help" json:"help,omitempty"`
	Kind   string `toml:"kind" json:"kind"`
	Greedy bool   `toml:"greedy" json:"greedy,omitempty"`
}

// Expansion pre-registers per-instance copies of an option.
type Expansion struct {
	Option    string   `toml:"option" json:"option"`
	Type      string   `toml:"type" json:"type"`
	Instances []string `toml:"instances" json:"instances"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a manifest.
func Parse(data []byte) (*Manifest, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing TOML: %s", ErrInvalidManifest, err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing TOML: %s", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks what the schema cannot: default values must match the
// declared kind.
func (m *Manifest) Validate() error {
	var errs []error
	for i, o := range m.Options {
		if _, err := o.descriptor(); err != nil {
			errs = append(errs, fmt.Errorf("%w: option[%d]: %s", ErrInvalidManifest, i, err))
		}
	}
	for i, p := range m.Positionals {
		if cmdline.ParseKind(p.Kind) == cmdline.KindNone {
			errs = append(errs, fmt.Errorf("%w: positional[%d]: unknown kind %q", ErrInvalidManifest, i, p.Kind))
		}
	}
	return errors.Join(errs...)
}

// Apply registers the declared descriptors on reg. Every declaration is
// attempted; the returned error joins all failures.
func (m *Manifest) Apply(reg *cmdline.Registry) error {
	var errs []error
	if m.Standard {
		if err := cmdline.RegisterStandard(reg); err != nil {
			errs = append(errs, err)
		}
	}
	for _, o := range m.Options {
		d, err := o.descriptor()
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidManifest, err))
			continue
		}
		if err := reg.AddOption(d); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range m.Positionals {
		if err := reg.AddPositional(p.descriptor()); err != nil {
			errs = append(errs, err)
		}
	}
	for _, e := range m.Expansions {
		base := reg.Find(e.Option)
		if base == nil {
			errs = append(errs, fmt.Errorf("%w: expand: unknown option %q", ErrInvalidManifest, e.Option))
			continue
		}
		for _, instance := range e.Instances {
			base.ExpandNamed(e.Type, instance)
		}
	}
	return errors.Join(errs...)
}

func (o Option) descriptor() (*cmdline.Option, error) {
	switch cmdline.ParseKind(o.Kind) {
	case cmdline.KindFlag:
		if o.Default != nil {
			return nil, fmt.Errorf("flag %q takes no default", o.Name)
		}
		return cmdline.NewFlag(o.Name, o.Tag, o.Help), nil
	case cmdline.KindBool:
		def, ok := o.Default.(bool)
		if !ok && o.Default != nil {
			return nil, fmt.Errorf("default of %q must be a boolean", o.Name)
		}
		return cmdline.NewBool(o.Name, o.Tag, o.Help, def), nil
	case cmdline.KindInt:
		def, err := intDefault(o.Default)
		if err != nil {
			return nil, fmt.Errorf("default of %q: %w", o.Name, err)
		}
		return cmdline.NewInt(o.Name, o.Tag, o.Help, def), nil
	case cmdline.KindDouble:
		def, err := doubleDefault(o.Default)
		if err != nil {
			return nil, fmt.Errorf("default of %q: %w", o.Name, err)
		}
		return cmdline.NewDouble(o.Name, o.Tag, o.Help, def), nil
	case cmdline.KindString, cmdline.KindStringUntyped:
		switch v := o.Default.(type) {
		case nil:
			return cmdline.NewStringUnset(o.Name, o.Tag, o.Help), nil
		case string:
			return cmdline.NewString(o.Name, o.Tag, o.Help, v), nil
		default:
			return cmdline.NewString(o.Name, o.Tag, o.Help, fmt.Sprint(v)), nil
		}
	}
	return nil, fmt.Errorf("option %q has unknown kind %q", o.Name, o.Kind)
}

func (p Positional) descriptor() *cmdline.Positional {
	kind := cmdline.ParseKind(p.Kind)
	if p.Greedy {
		return cmdline.NewGreedy(p.Name, p.Help, kind)
	}
	return cmdline.NewPositional(p.Name, p.Help, kind)
}

func intDefault(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("%v is not an integer", v)
}

func doubleDefault(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("%v is not a number", v)
}

func validateSchema(doc map[string]any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("loading manifest schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compiling manifest schema: %w", err)
	}

	// Round-trip through JSON so TOML scalars have the types the validator
	// expects.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidManifest, err)
	}
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidManifest, err)
	}

	if err := schema.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", ErrInvalidManifest, err)
		}
		var errs []error
		collectSchemaErrors(&errs, ve)
		return errors.Join(errs...)
	}
	return nil
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, fmt.Errorf("%w: %s: %s", ErrInvalidManifest, pointerToPath(err.InstanceLocation), err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// pointerToPath turns "/option/0/tag" into "option[0].tag".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	var path string
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	if path == "" {
		return "(root)"
	}
	return path
}
