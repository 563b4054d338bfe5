package cmd

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nibzard/cmdlineargs-go/internal/cmdline"
	"github.com/nibzard/cmdlineargs-go/internal/logging"
	"github.com/nibzard/cmdlineargs-go/internal/manifest"
)

// completionCommand prints a completion script offering the tags declared by
// a manifest together with the control tokens.
func completionCommand(args []string) error {
	fs := flag.NewFlagSet("cmdlineargs completion", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	manifestPath := fs.String("manifest", "", "Manifest declaring the options to complete")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	if fs.NArg() != 1 {
		return usageError("usage: cmdlineargs completion [-manifest m.toml] <bash|zsh|fish>")
	}

	program := "cmdlineargs"
	var words []string
	if *manifestPath != "" {
		m, err := manifest.Load(*manifestPath)
		if err != nil {
			return err
		}
		reg := cmdline.New(cmdline.WithLogger(logging.Discard()))
		if err := m.Apply(reg); err != nil {
			return err
		}
		if m.Name != "" {
			program = m.Name
		}
		words = completionWords(reg)
	}

	switch shell := fs.Arg(0); shell {
	case "bash":
		fmt.Print(bashCompletion(program, words))
	case "zsh":
		fmt.Print(zshCompletion(program, words))
	case "fish":
		fmt.Print(fishCompletion(program, words))
	default:
		return usageError("unsupported shell: %s", shell)
	}
	return nil
}

// completionWords returns the sorted tags and control tokens of reg.
func completionWords(reg *cmdline.Registry) []string {
	seen := map[string]bool{}
	for _, o := range reg.Options() {
		if o.Tag() != "" {
			seen[o.Tag()] = true
		}
	}
	for _, tok := range reg.ControlTokens() {
		seen[tok] = true
	}
	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func funcName(program string) string {
	return "_" + strings.NewReplacer("-", "_", ".", "_").Replace(program)
}

func bashCompletion(program string, words []string) string {
	fn := funcName(program)
	var b strings.Builder
	fmt.Fprintf(&b, "# %s bash completion\n", program)
	fmt.Fprintf(&b, "%s() {\n", fn)
	b.WriteString("    local cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(words, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    COMPREPLY=($(compgen -f -- \"$cur\"))\n")
	b.WriteString("}\n")
	fmt.Fprintf(&b, "complete -F %s %s\n", fn, program)
	return b.String()
}

func zshCompletion(program string, words []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#compdef %s\n", program)
	fmt.Fprintf(&b, "# %s zsh completion\n", program)
	fmt.Fprintf(&b, "%s() {\n", funcName(program))
	b.WriteString("    local -a opts\n")
	fmt.Fprintf(&b, "    opts=(%s)\n", strings.Join(quoteAll(words), " "))
	b.WriteString("    _arguments '*:file:_files' && return\n")
	b.WriteString("    compadd -a opts\n")
	b.WriteString("}\n")
	fmt.Fprintf(&b, "compdef %s %s\n", funcName(program), program)
	return b.String()
}

func fishCompletion(program string, words []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s fish completion\n", program)
	for _, w := range words {
		fmt.Fprintf(&b, "complete -c %s -o %s\n", program, strings.TrimPrefix(w, "-"))
	}
	fmt.Fprintf(&b, "complete -c %s -F\n", program)
	return b.String()
}

func quoteAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = "'" + strings.ReplaceAll(w, "'", `'\''`) + "'"
	}
	return out
}
