// Package cmdline binds command-line tokens, resource files and compiled
// defaults to named options and positional arguments.
//
// Descriptors are created with the New* constructors and added to a
// Registry during application setup:
//
//	reg := cmdline.New(cmdline.WithStore(env))
//	verbose := cmdline.NewBool("Verbose", "-v", "verbose output", false)
//	input := cmdline.NewPositional("input", "input file", cmdline.KindString)
//	if err := reg.AddOption(verbose); err != nil { ... }
//	if err := reg.AddPositional(input); err != nil { ... }
//	if err := reg.ReadCmdLine(os.Args); err != nil { ... }
//
// Option values live in the resource store under "CmdLine.<Name>". A typed
// accessor resolves the key (exact match first, then wildcard entries, see
// resource.Resolve) and falls back to the compiled default when nothing is
// stored. Options scoped to an owner with Expand use the key
// "<Type>.<Instance>.<Name>" instead, so a file entry "Hist.*.Threshold"
// covers every Hist instance.
//
// Positional tokens fill the named positional slots in registration order.
// A single greedy slot may absorb the surplus tokens at the position where it
// was registered.
//
// Registration conflicts and argument count mismatches are returned as
// errors wrapping the sentinels in this package. The caller is expected to
// treat them as fatal.
package cmdline
