package cmdline

import "errors"

var (
	// ErrDuplicateName is returned when an option or positional name is
	// already registered.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrDuplicateTag is returned when a command-line tag is already used by
	// another option.
	ErrDuplicateTag = errors.New("duplicate command-line tag")

	// ErrSecondGreedy is returned when a greedy positional is registered
	// while another one exists.
	ErrSecondGreedy = errors.New("greedy positional already registered")

	// ErrInsufficientArgs is returned when fewer positional tokens than
	// named positional slots were given.
	ErrInsufficientArgs = errors.New("insufficient positional arguments")

	// ErrExcessArgs is returned when surplus positional tokens were given
	// and no greedy slot can take them.
	ErrExcessArgs = errors.New("too many positional arguments")

	// ErrHelp is returned after the help token printed the usage.
	ErrHelp = errors.New("help requested")

	// ErrTypeMismatch is reported when a value is read through an accessor
	// of the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidDescriptor is returned for descriptors without a name or
	// with an unknown kind.
	ErrInvalidDescriptor = errors.New("invalid descriptor")
)
