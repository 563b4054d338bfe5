package cmdline

import "sync"

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, creating it on first use.
// Programs that parse a single command line can register their descriptors
// here instead of passing a Registry around.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
	})
	return defaultReg
}
