package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/cmdlineargs-go/internal/cmdline"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// ErrPathNotAccessible is returned when an extra config file does not exist
// or cannot be read.
var ErrPathNotAccessible = errors.New("path not accessible")

// Attach installs the loader for the extra config file control token on
// reg. reg must be backed by env.
func Attach(reg *cmdline.Registry, env *resource.Env) {
	reg.SetExtraLoader(func(path string) error {
		return ReadExtra(env, reg, path)
	})
}

// ReadExtra reads an extra config file or directory. Relative paths are
// prefixed with IncludePath like include entries.
func ReadExtra(env *resource.Env, reg *cmdline.Registry, path string) error {
	p := resolveInclude(path, stringSetting(env, reg, cmdline.OptIncludePath))
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("%w: %s", ErrPathNotAccessible, p)
	}
	reg.Logger().Info("Reading", "file", p, "source", resource.SourceExtra)
	if _, err := env.ReadPath(p, resource.SourceExtra); err != nil {
		return fmt.Errorf("reading %s: %w", p, err)
	}
	return nil
}
