package cmdline

import (
	"strings"

	"github.com/nibzard/cmdlineargs-go/internal/coerce"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// Positional is a slot filled by position from the non-tag command-line
// tokens. The value is bound as raw text by ReadCmdLine and coerced only
// when read.
//
// All accessors are safe on a nil *Positional and return zero values.
type Positional struct {
	name   string
	help   string
	kind   Kind
	value  string
	greedy bool
	reg    *Registry
}

// NewPositional creates a named positional slot.
func NewPositional(name, help string, kind Kind) *Positional {
	return &Positional{name: name, help: help, kind: kind}
}

// NewGreedy creates the greedy slot that absorbs surplus positional tokens.
// Only one may be registered.
func NewGreedy(name, help string, kind Kind) *Positional {
	return &Positional{name: name, help: help, kind: kind, greedy: true}
}

// Name returns the slot name.
func (p *Positional) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Help returns the help text.
func (p *Positional) Help() string {
	if p == nil {
		return ""
	}
	return p.help
}

// Kind returns the current kind of the slot.
func (p *Positional) Kind() Kind {
	if p == nil {
		return KindNone
	}
	return p.kind
}

// IsGreedy reports whether p is the greedy slot.
func (p *Positional) IsGreedy() bool {
	return p != nil && p.greedy
}

// Value returns the bound raw token.
func (p *Positional) Value() string {
	if p == nil {
		return ""
	}
	return p.value
}

// FlagValue is true when "CmdLine.<name>" resolves to 1, otherwise the bound
// token decides.
func (p *Positional) FlagValue() bool {
	if p == nil {
		return false
	}
	if p.kind != KindFlag {
		p.reg.mismatch(p.name, KindFlag)
	}
	if p.reg != nil {
		if raw, ok := resource.Resolve(p.reg.store, KeyPrefix+p.name); ok && coerce.Int(raw, 0) == 1 {
			return true
		}
	}
	return coerce.Int(p.value, 0) != 0
}

// BoolValue returns the bound token as a boolean.
func (p *Positional) BoolValue() bool {
	if p == nil {
		return false
	}
	if p.kind != KindBool {
		p.reg.mismatch(p.name, KindBool)
	}
	return coerce.Int(p.value, 0) != 0
}

// IntValue returns the bound token as an integer.
func (p *Positional) IntValue() int {
	if p == nil {
		return 0
	}
	if p.kind != KindInt {
		p.reg.mismatch(p.name, KindInt)
	}
	return coerce.Int(p.value, 0)
}

// DoubleValue returns the bound token as a float64.
func (p *Positional) DoubleValue() float64 {
	if p == nil {
		return 0
	}
	if p.kind != KindDouble {
		p.reg.mismatch(p.name, KindDouble)
	}
	return coerce.Double(p.value, 0)
}

// StringValue returns the bound token. An untyped string slot is trimmed on
// first read.
func (p *Positional) StringValue() string {
	if p == nil {
		return ""
	}
	p.normalize()
	if p.kind != KindString {
		p.reg.stringMismatch(p.name)
	}
	return p.value
}

// IntArrayValue returns the index-th (1-based) element of the bound token.
func (p *Positional) IntArrayValue(index int) int {
	if p == nil {
		return 0
	}
	p.normalize()
	return coerce.IntElement(p.value, index)
}

// DoubleArrayValue returns the index-th (1-based) element of the bound token.
func (p *Positional) DoubleArrayValue(index int) float64 {
	if p == nil {
		return 0
	}
	p.normalize()
	return coerce.DoubleElement(p.value, index)
}

// ArraySize returns the number of elements in the bound token.
func (p *Positional) ArraySize() int {
	if p == nil {
		return 0
	}
	p.normalize()
	return coerce.ArraySize(p.value)
}

func (p *Positional) normalize() {
	if p.kind != KindStringUntyped {
		return
	}
	p.value = strings.TrimSpace(p.value)
	p.kind = KindString
}
