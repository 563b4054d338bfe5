package cmdline

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/nibzard/cmdlineargs-go/internal/coerce"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// KeyPrefix is prepended to option names to form their resource key.
const KeyPrefix = "CmdLine."

// Option is a named value settable by command-line tag, resource file or
// compiled default, in that order of precedence.
//
// All accessors are safe on a nil *Option and return zero values.
type Option struct {
	name string
	tag  string
	help string
	kind Kind
	key  string

	defInt     int
	defDouble  float64
	defString  string
	hasDefault bool

	onChange func()
	reg      *Registry
}

func newOption(name, tag, help string, kind Kind) *Option {
	return &Option{
		name: name,
		tag:  tag,
		help: help,
		kind: kind,
		key:  KeyPrefix + name,
	}
}

// NewFlag creates a switch that takes no value on the command line.
func NewFlag(name, tag, help string) *Option {
	return newOption(name, tag, help, KindFlag)
}

// NewBool creates a boolean option.
func NewBool(name, tag, help string, def bool) *Option {
	o := newOption(name, tag, help, KindBool)
	if def {
		o.defInt = 1
	}
	return o
}

// NewInt creates an integer option.
func NewInt(name, tag, help string, def int) *Option {
	o := newOption(name, tag, help, KindInt)
	o.defInt = def
	return o
}

// NewDouble creates a floating point option.
func NewDouble(name, tag, help string, def float64) *Option {
	o := newOption(name, tag, help, KindDouble)
	o.defDouble = def
	return o
}

// NewString creates a string option with a default value.
func NewString(name, tag, help, def string) *Option {
	o := newOption(name, tag, help, KindStringUntyped)
	o.defString = def
	o.hasDefault = true
	return o
}

// NewStringUnset creates a string option without a default. Its string
// accessors report "not found" until a value is stored.
func NewStringUnset(name, tag, help string) *Option {
	return newOption(name, tag, help, KindStringUntyped)
}

// OnChange sets a callback run each time the option's tag is matched on the
// command line, after the new value has been stored.
func (o *Option) OnChange(fn func()) *Option {
	o.onChange = fn
	return o
}

// Name returns the option name.
func (o *Option) Name() string {
	if o == nil {
		return ""
	}
	return o.name
}

// Tag returns the command-line tag, or "" when the option cannot be set from
// the command line.
func (o *Option) Tag() string {
	if o == nil {
		return ""
	}
	return o.tag
}

// Help returns the help text.
func (o *Option) Help() string {
	if o == nil {
		return ""
	}
	return o.help
}

// Kind returns the current kind of the option.
func (o *Option) Kind() Kind {
	if o == nil {
		return KindNone
	}
	return o.kind
}

// Key returns the resource key the option is stored under.
func (o *Option) Key() string {
	if o == nil {
		return ""
	}
	return o.key
}

// Expand returns the option scoped to owner. The owner's type name (without
// package) and Name() form the namespace.
func (o *Option) Expand(owner interface{ Name() string }) *Option {
	if o == nil || owner == nil {
		return nil
	}
	t := reflect.TypeOf(owner)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return o.ExpandNamed(t.Name(), owner.Name())
}

// ExpandNamed returns the option "<typeName>.<instance>.<Name>" with the same
// kind and default. It is created and registered on first use; later calls
// return the same descriptor.
func (o *Option) ExpandNamed(typeName, instance string) *Option {
	if o == nil {
		return nil
	}
	name := typeName + "." + instance + "." + o.name
	if o.reg != nil {
		if existing := o.reg.Find(name); existing != nil {
			return existing
		}
	}

	kind := o.kind
	if kind == KindString {
		kind = KindStringUntyped
	}
	n := &Option{
		name:       name,
		help:       o.help,
		kind:       kind,
		key:        name,
		defInt:     o.defInt,
		defDouble:  o.defDouble,
		defString:  o.defString,
		hasDefault: o.hasDefault,
	}
	if o.reg != nil {
		o.reg.register(n)
	}
	return n
}

// BoolValue returns the resolved value as a boolean.
func (o *Option) BoolValue() bool {
	if o == nil {
		return false
	}
	if o.kind != KindBool && o.kind != KindFlag {
		o.reg.mismatch(o.name, KindBool)
	}
	raw, ok := o.lookup()
	if !ok {
		return o.defInt == 1
	}
	return coerce.Int(raw, o.defInt) == 1
}

// IntValue returns the resolved value as an integer.
func (o *Option) IntValue() int {
	if o == nil {
		return 0
	}
	if o.kind != KindInt {
		o.reg.mismatch(o.name, KindInt)
	}
	raw, ok := o.lookup()
	if !ok {
		return o.defInt
	}
	return coerce.Int(raw, o.defInt)
}

// DoubleValue returns the resolved value as a float64. A stored value that
// does not start with a number yields the default.
func (o *Option) DoubleValue() float64 {
	if o == nil {
		return 0
	}
	if o.kind != KindDouble {
		o.reg.mismatch(o.name, KindDouble)
	}
	raw, ok := o.lookup()
	if !ok {
		return o.defDouble
	}
	return coerce.Double(raw, o.defDouble)
}

// StringValue returns the resolved raw value, the default, or "".
func (o *Option) StringValue() string {
	s, _ := o.LookupString()
	return s
}

// LookupString is StringValue but reports whether a stored value or a
// default exists.
func (o *Option) LookupString() (string, bool) {
	if o == nil {
		return "", false
	}
	o.normalize()
	if o.kind != KindString {
		o.reg.stringMismatch(o.name)
	}
	return o.rawString()
}

// IntArrayValue returns the index-th (1-based) element of the value.
func (o *Option) IntArrayValue(index int) int {
	raw, _ := o.arrayString()
	return coerce.IntElement(raw, index)
}

// DoubleArrayValue returns the index-th (1-based) element of the value.
func (o *Option) DoubleArrayValue(index int) float64 {
	raw, _ := o.arrayString()
	return coerce.DoubleElement(raw, index)
}

// ArraySize returns the number of elements in the value.
func (o *Option) ArraySize() int {
	raw, _ := o.arrayString()
	return coerce.ArraySize(raw)
}

// DefaultBoolValue returns the compiled default as a boolean.
func (o *Option) DefaultBoolValue() bool {
	if o == nil {
		return false
	}
	if o.kind != KindBool && o.kind != KindFlag {
		o.reg.mismatch(o.name, KindBool)
	}
	return o.defInt != 0
}

// DefaultIntValue returns the compiled default as an integer.
func (o *Option) DefaultIntValue() int {
	if o == nil {
		return 0
	}
	if o.kind != KindInt {
		o.reg.mismatch(o.name, KindInt)
	}
	return o.defInt
}

// DefaultDoubleValue returns the compiled default as a float64.
func (o *Option) DefaultDoubleValue() float64 {
	if o == nil {
		return 0
	}
	if o.kind != KindDouble {
		o.reg.mismatch(o.name, KindDouble)
	}
	return o.defDouble
}

// DefaultStringValue returns the compiled string default, or "".
func (o *Option) DefaultStringValue() string {
	s, _ := o.LookupDefaultString()
	return s
}

// LookupDefaultString reports the compiled string default and whether one
// was given.
func (o *Option) LookupDefaultString() (string, bool) {
	if o == nil {
		return "", false
	}
	if !o.kind.isString() {
		o.reg.mismatch(o.name, KindString)
	}
	return o.defString, o.hasDefault
}

// DefaultIntArrayValue returns the index-th element of the string default.
func (o *Option) DefaultIntArrayValue(index int) int {
	if o == nil {
		return 0
	}
	return coerce.IntElement(o.defString, index)
}

// DefaultDoubleArrayValue returns the index-th element of the string default.
func (o *Option) DefaultDoubleArrayValue(index int) float64 {
	if o == nil {
		return 0
	}
	return coerce.DoubleElement(o.defString, index)
}

// DefaultArraySize returns the number of elements in the string default.
func (o *Option) DefaultArraySize() int {
	if o == nil {
		return 0
	}
	return coerce.ArraySize(o.defString)
}

// defaultText renders the compiled default the way it is written back to
// the store.
func (o *Option) defaultText() (string, bool) {
	switch o.kind {
	case KindFlag:
		return "false", true
	case KindBool:
		return strconv.FormatBool(o.defInt != 0), true
	case KindInt:
		return strconv.Itoa(o.defInt), true
	case KindDouble:
		return strconv.FormatFloat(o.defDouble, 'g', -1, 64), true
	case KindString, KindStringUntyped:
		return o.defString, o.hasDefault
	}
	return "", false
}

func (o *Option) lookup() (string, bool) {
	if o.reg == nil {
		return "", false
	}
	return resource.Resolve(o.reg.store, o.key)
}

func (o *Option) rawString() (string, bool) {
	if raw, ok := o.lookup(); ok {
		return raw, true
	}
	return o.defString, o.hasDefault
}

func (o *Option) arrayString() (string, bool) {
	if o == nil {
		return "", false
	}
	o.normalize()
	return o.rawString()
}

// normalize trims the stored value of an untyped string option once and
// marks it as a plain string.
func (o *Option) normalize() {
	if o.kind != KindStringUntyped {
		return
	}
	o.kind = KindString
	if o.reg == nil {
		return
	}
	raw, ok := o.reg.store.Lookup(o.key)
	if !ok {
		return
	}
	if trimmed := strings.TrimSpace(raw); trimmed != raw {
		o.reg.store.Set(o.key, trimmed, o.reg.sourceOf(o.key))
	}
}
