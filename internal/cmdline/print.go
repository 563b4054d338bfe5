package cmdline

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Setting is the resolved state of one option.
type Setting struct {
	Name   string
	Kind   Kind
	Value  string
	Source resource.Source
	Found  bool
}

// Settings resolves every option in registration order.
func (r *Registry) Settings() []Setting {
	out := make([]Setting, 0, len(r.options))
	for _, o := range r.options {
		out = append(out, r.setting(o))
	}
	return out
}

func (r *Registry) setting(o *Option) Setting {
	s := Setting{Name: o.name, Source: resource.SourceDefault, Found: true}
	switch o.kind {
	case KindFlag, KindBool:
		s.Value = strconv.FormatBool(o.BoolValue())
	case KindInt:
		s.Value = strconv.Itoa(o.IntValue())
	case KindDouble:
		s.Value = strconv.FormatFloat(o.DoubleValue(), 'g', -1, 64)
	case KindString, KindStringUntyped:
		s.Value, s.Found = o.LookupString()
	}
	s.Kind = o.kind
	if matched, _, ok := resource.ResolveKey(r.store, o.key); ok {
		s.Source = r.sourceOf(matched)
	}
	return s
}

// ControlTokens returns the reserved control tokens, sorted.
func (r *Registry) ControlTokens() []string {
	tokens := make([]string, 0, len(r.controls))
	for t := range r.controls {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// PrintHelp writes the usage line, the control tokens, every option with a
// tag and every positional slot.
func (r *Registry) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", headingStyle.Render("Usage:"), r.usageLine())

	for _, t := range r.ControlTokens() {
		c := r.controls[t]
		label := t
		if c.TakesArg {
			label += " <arg>"
		}
		fmt.Fprintf(w, "  %-20s%s\n", label, c.Help)
	}

	for _, o := range r.options {
		if o.tag == "" {
			continue
		}
		fmt.Fprintf(w, "  %-20s%s %s\n", o.tag, o.help, faintStyle.Render("("+o.kind.String()+")"))
	}

	if len(r.named) == 0 && r.greedy == nil {
		return
	}
	fmt.Fprintln(w, headingStyle.Render("Arguments:"))
	for _, p := range r.slots() {
		label := p.name
		if p.greedy {
			label += "..."
		}
		fmt.Fprintf(w, "  %-20s%s %s\n", label, p.help, faintStyle.Render("("+p.kind.String()+")"))
	}
}

// Print writes the resolved value and source of every option.
func (r *Registry) Print(w io.Writer) {
	fmt.Fprintln(w, headingStyle.Render("Current settings:"))
	for _, s := range r.Settings() {
		value := s.Value
		if s.Kind == KindString || s.Kind == KindStringUntyped {
			if s.Found {
				value = "'" + value + "'"
			} else {
				value = "(null)"
			}
		}
		fmt.Fprintf(w, "  %-20s%s %s %s\n", s.Name, value,
			faintStyle.Render("("+s.Kind.String()+")"), faintStyle.Render("["+string(s.Source)+"]"))
	}
	for _, p := range r.slots() {
		if p.greedy {
			fmt.Fprintf(w, "  %-20s[%s]\n", p.name, strings.Join(r.GreedyValues(), " "))
			continue
		}
		fmt.Fprintf(w, "  %-20s'%s' %s\n", p.name, p.value, faintStyle.Render("("+p.kind.String()+")"))
	}
}

// slots returns the positional slots with the greedy one at its position.
func (r *Registry) slots() []*Positional {
	out := make([]*Positional, 0, len(r.named)+1)
	for i, p := range r.named {
		if r.greedy != nil && i == r.greedyPos {
			out = append(out, r.greedy)
		}
		out = append(out, p)
	}
	if r.greedy != nil && r.greedyPos == len(r.named) {
		out = append(out, r.greedy)
	}
	return out
}

func (r *Registry) usageLine() string {
	parts := []string{r.program, "[options]"}
	if r.program == "" {
		parts[0] = "prog"
	}
	for _, p := range r.slots() {
		if p.greedy {
			parts = append(parts, "["+p.name+"...]")
			continue
		}
		parts = append(parts, p.name)
	}
	return strings.Join(parts, " ")
}
