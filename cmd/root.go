// Package cmd implements the cmdlineargs command-line tool.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/cmdlineargs-go/internal/cmdline"
	"github.com/nibzard/cmdlineargs-go/internal/config"
	"github.com/nibzard/cmdlineargs-go/internal/logging"
	"github.com/nibzard/cmdlineargs-go/internal/manifest"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
	"github.com/nibzard/cmdlineargs-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, cmdline.ErrHelp) || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// globalOptions are the tool's own settings.
type globalOptions struct {
	app       string
	logLevel  string
	logFormat string
}

func (g globalOptions) logger() *log.Logger {
	return logging.NewFromConfig(os.Stderr, g.logLevel, g.logFormat, false)
}

// Run executes the cmdlineargs CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cmdlineargs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var g globalOptions
	fs.StringVar(&g.app, "app", "", "Name of the default resource files (.<app>rc)")
	fs.StringVar(&g.logLevel, "log-level", "warn", "Diagnostic level (debug|info|warn|error)")
	fs.StringVar(&g.logFormat, "log-format", "text", "Diagnostic format (text|json|logfmt)")
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	if err := fs.Parse(args); err != nil {
		printUsage(fs, os.Stderr)
		return usageError("%v", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, os.Stderr)
		return usageError("missing command")
	}

	subcommand, remaining := remaining[0], remaining[1:]
	switch subcommand {
	case "parse":
		return parseCommand(ctx, g, remaining)
	case "browse":
		return browseCommand(ctx, g, remaining)
	case "validate":
		return validateCommand(remaining)
	case "completion":
		return completionCommand(remaining)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		printUsage(fs, os.Stderr)
		return usageError("unknown command: %s", subcommand)
	}
}

// session is a registry built from a manifest with resource files loaded.
type session struct {
	manifest *manifest.Manifest
	env      *resource.Env
	reg      *cmdline.Registry
	logger   *log.Logger
	strict   []error
}

type sessionFlags struct {
	manifest string
	noRC     bool
	workDir  string
}

func (sf *sessionFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&sf.manifest, "manifest", "", "Manifest declaring options and positional arguments (required)")
	fs.BoolVar(&sf.noRC, "no-rc", false, "Do not read resource files")
	fs.StringVar(&sf.workDir, "workdir", "", "Directory searched for the project resource file")
}

func newSession(g globalOptions, sf sessionFlags) (*session, error) {
	if sf.manifest == "" {
		return nil, usageError("-manifest is required")
	}
	m, err := manifest.Load(sf.manifest)
	if err != nil {
		return nil, err
	}

	s := &session{manifest: m, env: resource.NewEnv(), logger: g.logger()}
	s.reg = cmdline.New(
		cmdline.WithStore(s.env),
		cmdline.WithLogger(s.logger),
		cmdline.WithOutput(os.Stdout),
		cmdline.WithStrictTypes(m.StrictTypes),
		cmdline.WithAbort(func(err error) { s.strict = append(s.strict, err) }),
	)
	if err := m.Apply(s.reg); err != nil {
		return nil, err
	}

	app := g.app
	if app == "" {
		app = m.App
	}
	if sf.noRC {
		config.LoadFromEnv(s.env, s.reg, m.EnvPrefix)
	} else {
		config.Load(s.env, s.reg, config.Options{
			AppName:   app,
			EnvPrefix: m.EnvPrefix,
			WorkDir:   sf.workDir,
			Logger:    s.logger,
		})
	}
	config.Attach(s.reg, s.env)
	return s, nil
}

// readCmdLine parses args with the manifest name as argv[0].
func (s *session) readCmdLine(args []string) error {
	program := s.manifest.Name
	if program == "" {
		program = "cmdlineargs"
	}
	return s.reg.ReadCmdLine(append([]string{program}, args...))
}

// teeLogfile sends further diagnostics to the file named by the Logfile
// option when it is declared and set.
func (s *session) teeLogfile() (func(), error) {
	path, ok := s.reg.Find(cmdline.OptLogfile).LookupString()
	if !ok || path == "" {
		return func() {}, nil
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, err
	}
	s.logger.SetOutput(io.MultiWriter(os.Stderr, f))
	return func() {
		s.logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// parseCommand parses a command line against a manifest and prints the
// bound values.
func parseCommand(ctx context.Context, g globalOptions, args []string) error {
	fs := flag.NewFlagSet("cmdlineargs parse", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var sf sessionFlags
	sf.register(fs)
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}

	s, err := newSession(g, sf)
	if err != nil {
		return err
	}
	if err := s.readCmdLine(fs.Args()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	closeLog, err := s.teeLogfile()
	if err != nil {
		return err
	}
	defer closeLog()

	rep := buildReport(s.reg, config.NewParams(s.env, s.logger))
	s.logger.Info("parsed command line", "options", len(rep.Options), "positionals", len(rep.Positionals), "greedy", len(rep.Greedy))
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		s.reg.Print(os.Stdout)
	}
	return errors.Join(s.strict...)
}

// browseCommand parses a command line and opens the settings browser.
func browseCommand(ctx context.Context, g globalOptions, args []string) error {
	fs := flag.NewFlagSet("cmdlineargs browse", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var sf sessionFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}

	s, err := newSession(g, sf)
	if err != nil {
		return err
	}
	if err := s.readCmdLine(fs.Args()); err != nil {
		return err
	}
	title := "Settings"
	if s.manifest.Name != "" {
		title = s.manifest.Name + " settings"
	}
	return ui.RunBrowser(ctx, s.reg, ui.WithTitle(title))
}

// validateCommand checks manifests without parsing anything.
func validateCommand(args []string) error {
	if len(args) == 0 {
		return usageError("usage: cmdlineargs validate <manifest>...")
	}
	var errs []error
	for _, path := range args {
		m, err := manifest.Load(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Printf("%s: ok (%d options, %d positionals)\n", path, len(m.Options), len(m.Positionals))
	}
	return errors.Join(errs...)
}

func versionCommand() error {
	fmt.Printf("cmdlineargs version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "cmdlineargs - parse command lines against a declared option manifest")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cmdlineargs [global options] <command> [options] [-- args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  parse -manifest m.toml [-json] -- ARGS   Parse ARGS and print the bound values")
	fmt.Fprintln(w, "  browse -manifest m.toml -- ARGS          Parse ARGS and browse the settings")
	fmt.Fprintln(w, "  validate m.toml...                       Validate manifests")
	fmt.Fprintln(w, "  completion -manifest m.toml <shell>      Print a completion script")
	fmt.Fprintln(w, "  version                                  Show version information")
	fmt.Fprintln(w, "  help                                     Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
}

// report is the JSON form of a parse result.
type report struct {
	Program     string             `json:"program"`
	Options     []optionReport     `json:"options"`
	Positionals []positionalReport `json:"positionals"`
	Greedy      []string           `json:"greedy,omitempty"`
	Tokens      []string           `json:"tokens"`
	Source      string             `json:"parameter_source"`
	Drain       string             `json:"parameter_drain"`
}

type optionReport struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Value  string `json:"value"`
	Set    bool   `json:"set"`
	Source string `json:"source"`
}

type positionalReport struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func buildReport(reg *cmdline.Registry, params *config.Params) report {
	rep := report{
		Source:      params.ParameterSource().String(),
		Drain:       params.ParameterDrain().String(),
		Program:     reg.Program(),
		Options:     []optionReport{},
		Positionals: []positionalReport{},
		Tokens:      reg.Positionals(),
	}
	for _, s := range reg.Settings() {
		rep.Options = append(rep.Options, optionReport{
			Name:   s.Name,
			Kind:   s.Kind.String(),
			Value:  s.Value,
			Set:    s.Found,
			Source: string(s.Source),
		})
	}
	for _, p := range reg.Args() {
		rep.Positionals = append(rep.Positionals, positionalReport{
			Name:  p.Name(),
			Kind:  p.Kind().String(),
			Value: strings.TrimSpace(p.Value()),
		})
	}
	if reg.GreedyArg() != nil {
		rep.Greedy = reg.GreedyValues()
	}
	return rep
}
