package config

import (
	"os"
	"strings"
	"unicode"

	"github.com/nibzard/cmdlineargs-go/internal/cmdline"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// EnvName returns the variable that overrides the option called name, e.g.
// CMDLINEARGS_RUN_NUMBER for RunNumber.
func EnvName(prefix, name string) string {
	return prefix + "_" + upperSnake(name)
}

// LoadFromEnv stores the value of every set override variable under the
// key of its option and returns the variables that were applied.
func LoadFromEnv(store resource.Store, reg *cmdline.Registry, prefix string) []string {
	if prefix == "" {
		return nil
	}
	var applied []string
	for _, o := range reg.Options() {
		name := EnvName(prefix, o.Name())
		if v := os.Getenv(name); v != "" {
			store.Set(o.Key(), v, resource.SourceEnv)
			applied = append(applied, name)
		}
	}
	return applied
}

func upperSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '.' || r == '-' || r == ' ':
			b.WriteByte('_')
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
