// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/cmdlineargs-go/internal/cmdline"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// Filter selects settings by where their value came from.
type Filter string

const (
	FilterNone    Filter = ""
	FilterCmdLine Filter = "cmdline"
	FilterEnv     Filter = "environment"
	FilterFile    Filter = "file"
	FilterDefault Filter = "default"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// BrowserOption configures the settings browser.
type BrowserOption func(*browserConfig)

type browserConfig struct {
	title string
}

// WithTitle sets the heading shown above the settings.
func WithTitle(title string) BrowserOption {
	return func(c *browserConfig) {
		c.title = title
	}
}

// RunBrowser shows the resolved settings of reg until the user quits.
func RunBrowser(ctx context.Context, reg *cmdline.Registry, opts ...BrowserOption) error {
	c := &browserConfig{title: "Settings"}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("browser requires a TTY")
	}

	program := tea.NewProgram(newBrowserModel(reg, c.title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type browserModel struct {
	reg      *cmdline.Registry
	title    string
	all      []row
	rows     []row
	cursor   int
	filter   Filter
	showHelp bool
	detail   bool
}

// row is one line of the browser: an option or a positional slot.
type row struct {
	name   string
	kind   string
	value  string
	source resource.Source
	help   string
	tag    string
	def    string
}

func newBrowserModel(reg *cmdline.Registry, title string) *browserModel {
	m := &browserModel{reg: reg, title: title}
	m.refresh()
	return m
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.detail = !m.detail
	case "r", "f5":
		m.refresh()
	case "h", "?":
		m.showHelp = !m.showHelp
	case "1":
		m.setFilter(FilterCmdLine)
	case "2":
		m.setFilter(FilterEnv)
	case "3":
		m.setFilter(FilterFile)
	case "4":
		m.setFilter(FilterDefault)
	case "0":
		m.setFilter(FilterNone)
	}
	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.title)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.filter != FilterNone {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	if len(m.rows) == 0 {
		b.WriteString("  No settings.\n\n")
		writeFooter(&b)
		return b.String()
	}

	for i, r := range m.rows {
		line := fmt.Sprintf("%-28s %-8s %-24s %s", r.name, r.kind, r.value, dimStyle.Render("["+string(r.source)+"]"))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	if m.detail {
		writeDetail(&b, m.rows[m.cursor])
	}
	writeFooter(&b)
	return b.String()
}

func (m *browserModel) refresh() {
	m.all = m.all[:0]
	settings := m.reg.Settings()
	for i, o := range m.reg.Options() {
		m.all = append(m.all, optionRow(o, settings[i]))
	}
	for _, p := range m.reg.Args() {
		m.all = append(m.all, row{
			name:   p.Name(),
			kind:   p.Kind().String(),
			value:  p.Value(),
			source: resource.SourceCmdLine,
			help:   p.Help(),
		})
	}
	if g := m.reg.GreedyArg(); g != nil {
		m.all = append(m.all, row{
			name:   g.Name() + "...",
			kind:   g.Kind().String(),
			value:  strings.Join(m.reg.GreedyValues(), " "),
			source: resource.SourceCmdLine,
			help:   g.Help(),
		})
	}
	m.applyFilter()
}

func optionRow(o *cmdline.Option, s cmdline.Setting) row {
	r := row{
		name:   o.Name(),
		kind:   s.Kind.String(),
		value:  s.Value,
		source: s.Source,
		help:   o.Help(),
		tag:    o.Tag(),
	}
	if !s.Found {
		r.value = "(null)"
	}
	switch o.Kind() {
	case cmdline.KindInt:
		r.def = fmt.Sprint(o.DefaultIntValue())
	case cmdline.KindDouble:
		r.def = fmt.Sprint(o.DefaultDoubleValue())
	case cmdline.KindBool, cmdline.KindFlag:
		r.def = fmt.Sprint(o.DefaultBoolValue())
	default:
		if def, ok := o.LookupDefaultString(); ok {
			r.def = def
		}
	}
	return r
}

func (m *browserModel) setFilter(f Filter) {
	m.filter = f
	m.applyFilter()
}

func (m *browserModel) applyFilter() {
	m.rows = m.rows[:0]
	for _, r := range m.all {
		if matches(m.filter, r.source) {
			m.rows = append(m.rows, r)
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func matches(f Filter, source resource.Source) bool {
	switch f {
	case FilterNone:
		return true
	case FilterFile:
		switch source {
		case resource.SourceGlobal, resource.SourceInclude, resource.SourceUser,
			resource.SourceProject, resource.SourceExtra:
			return true
		}
		return false
	default:
		return string(f) == string(source)
	}
}

func writeTitle(b *strings.Builder, title string) {
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeDetail(b *strings.Builder, r row) {
	b.WriteString(r.name + "\n")
	if r.tag != "" {
		b.WriteString(fmt.Sprintf("  Tag:     %s\n", r.tag))
	}
	if r.help != "" {
		b.WriteString(fmt.Sprintf("  Help:    %s\n", r.help))
	}
	if r.def != "" {
		b.WriteString(fmt.Sprintf("  Default: %s\n", r.def))
	}
	b.WriteString(fmt.Sprintf("  Source:  %s\n\n", r.source))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  up/k down/j  Move\n")
	b.WriteString("  enter        Toggle details\n")
	b.WriteString("  r, F5        Refresh\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by command line\n")
	b.WriteString("  2            Filter by environment\n")
	b.WriteString("  3            Filter by resource files\n")
	b.WriteString("  4            Filter by defaults\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("Press h for help | q to quit\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
