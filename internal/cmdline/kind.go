package cmdline

// Kind is the value type of an option or positional argument.
type Kind int

const (
	KindNone Kind = iota
	KindFlag
	KindBool
	KindInt
	KindDouble
	KindString
	// KindStringUntyped is a string whose stored value has not been
	// normalized yet. The first string read trims the stored value and
	// turns the descriptor into KindString.
	KindStringUntyped
)

// String returns the short type name used in help output.
func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString, KindStringUntyped:
		return "string"
	default:
		return "unknown type"
	}
}

// ParseKind maps a type name to a Kind. Unknown names yield KindNone.
func ParseKind(s string) Kind {
	switch s {
	case "flag":
		return KindFlag
	case "bool":
		return KindBool
	case "int", "integer":
		return KindInt
	case "double", "float":
		return KindDouble
	case "string":
		return KindStringUntyped
	default:
		return KindNone
	}
}

func (k Kind) isString() bool {
	return k == KindString || k == KindStringUntyped
}

// description is the wording used in type mismatch warnings.
func (k Kind) description() string {
	switch k {
	case KindInt:
		return "integer"
	case KindString, KindStringUntyped:
		return "string"
	default:
		return k.String()
	}
}
