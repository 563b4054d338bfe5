package cmdline

import (
	"fmt"

	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// Reserved control tokens.
const (
	HelpToken     = "-h"
	PrintToken    = "-p"
	ExtraRCToken  = "-extra-rc"
	flagSetText   = "true"
	greedyNameFmt = "%s[%d]"
)

// Control is a reserved token handled before option tags are matched.
type Control struct {
	Token string
	// TakesArg consumes the following token and passes it to Run. The
	// control is skipped when no token follows.
	TakesArg bool
	Help     string
	Run      func(r *Registry, arg string) error
}

func defaultControls() map[string]Control {
	controls := []Control{
		{
			Token: HelpToken,
			Help:  "show this help",
			Run: func(r *Registry, _ string) error {
				r.PrintHelp(r.out)
				return ErrHelp
			},
		},
		{
			Token: PrintToken,
			Help:  "print current settings",
			Run: func(r *Registry, _ string) error {
				r.Print(r.out)
				return nil
			},
		},
		{
			Token:    ExtraRCToken,
			TakesArg: true,
			Help:     "read an additional rc file or directory",
			Run: func(r *Registry, path string) error {
				if r.extraLoader == nil {
					r.logger.Warn("no loader for extra rc files", "path", path)
					return nil
				}
				return r.extraLoader(path)
			},
		},
	}
	m := make(map[string]Control, len(controls))
	for _, c := range controls {
		m[c.Token] = c
	}
	return m
}

// ReadCmdLine binds argv to the registered descriptors. argv[0] is the
// program name.
//
// Tokens matching an option tag store the following token (or "true" for a
// flag) under the option's key and run its change callback. All other tokens
// are positional and are distributed over the positional slots once the scan
// is done. Control tokens are handled first; the help token stops the parse
// with ErrHelp.
func (r *Registry) ReadCmdLine(argv []string) error {
	r.tokens = r.tokens[:0]
	r.greedyRun = nil
	for _, p := range r.named {
		p.value = ""
	}

	args := argv
	if len(argv) > 0 {
		r.program = argv[0]
		args = argv[1:]
	}

	for i := 0; i < len(args); i++ {
		tok := args[i]

		if c, ok := r.controls[tok]; ok {
			var arg string
			if c.TakesArg {
				if i+1 >= len(args) {
					r.logger.Warn("missing argument", "token", tok)
					continue
				}
				i++
				arg = args[i]
			}
			if err := c.Run(r, arg); err != nil {
				return err
			}
			continue
		}

		if o, ok := r.byTag[tok]; ok {
			if o.kind == KindFlag {
				r.store.Set(o.key, flagSetText, resource.SourceCmdLine)
			} else if i+1 < len(args) {
				i++
				r.store.Set(o.key, args[i], resource.SourceCmdLine)
			} else {
				r.logger.Warn("missing value", "option", o.name, "tag", tok)
				continue
			}
			if o.onChange != nil {
				o.onChange()
			}
			continue
		}

		r.tokens = append(r.tokens, tok)
	}

	return r.distribute()
}

// distribute binds the collected positional tokens. With P tokens and N
// named slots, the G = P-N surplus tokens starting at the greedy position go
// to the greedy slot; the named slots before and after it take the rest in
// order.
func (r *Registry) distribute() error {
	n := len(r.named)
	if n == 0 && r.greedy == nil {
		return nil
	}

	p := len(r.tokens)
	g := p - n
	if g < 0 {
		return fmt.Errorf("%w: expected %d, got %d", ErrInsufficientArgs, n, p)
	}
	if g > 0 && r.greedy == nil {
		return fmt.Errorf("%w: expected %d, got %d", ErrExcessArgs, n, p)
	}

	k := n
	if r.greedy != nil {
		k = r.greedyPos
	}
	for i := 0; i < k; i++ {
		r.named[i].value = r.tokens[i]
	}
	if g > 0 {
		r.greedyRun = make([]*Positional, g)
		for j := 0; j < g; j++ {
			r.greedyRun[j] = &Positional{
				name:  fmt.Sprintf(greedyNameFmt, r.greedy.name, j+1),
				help:  r.greedy.help,
				kind:  r.greedy.kind,
				value: r.tokens[k+j],
				reg:   r,
			}
		}
	}
	for i := k; i < n; i++ {
		r.named[i].value = r.tokens[i+g]
	}
	return nil
}
