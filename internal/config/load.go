package config

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/cmdlineargs-go/internal/cmdline"
	"github.com/nibzard/cmdlineargs-go/internal/logging"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// Options controls resource file discovery.
type Options struct {
	// AppName names the default files. Empty means DefaultAppName.
	AppName string
	// EnvPrefix enables environment overrides when not empty.
	EnvPrefix string
	// HomeDir overrides the user's home directory.
	HomeDir string
	// WorkDir is searched for the project file. Empty means ".".
	WorkDir string
	Logger  *log.Logger
}

// File is a resource file that was read.
type File struct {
	Path   string
	Source resource.Source
}

// Result reports what Load read.
type Result struct {
	Files  []File
	Env    []string
	Errors []error
}

// Err joins the errors of every file that could not be read.
func (r *Result) Err() error {
	return errors.Join(r.Errors...)
}

type loader struct {
	env    *resource.Env
	reg    *cmdline.Registry
	logger *log.Logger
	result *Result
}

// Load reads the resource files into env in the fixed order described in
// the package documentation, then applies environment overrides for the
// options registered in reg. reg may be nil; it must be backed by env
// otherwise.
//
// Unreadable files are logged and skipped. They are collected in the
// result.
func Load(env *resource.Env, reg *cmdline.Registry, opts Options) *Result {
	opts = withDefaults(opts, reg)
	l := &loader{env: env, reg: reg, logger: opts.Logger, result: &Result{}}

	userFile := findUserFile(opts.HomeDir, opts.AppName)
	projectFile := findProjectFile(opts.WorkDir, opts.AppName)

	// Bootstrap so the files below can be configured from the default files.
	l.read(userFile, resource.SourceUser)
	l.read(projectFile, resource.SourceProject)

	if dir := expandPath(stringSetting(env, reg, cmdline.OptDefaultPath)); dir != "" {
		l.read(dir, resource.SourceGlobal)
	}

	includePath := stringSetting(env, reg, cmdline.OptIncludePath)
	for _, inc := range strings.Fields(stringSetting(env, reg, cmdline.OptInclude)) {
		l.read(resolveInclude(inc, includePath), resource.SourceInclude)
	}

	l.read(userFile, resource.SourceUser)
	l.read(projectFile, resource.SourceProject)

	if opts.EnvPrefix != "" && reg != nil {
		l.result.Env = LoadFromEnv(env, reg, opts.EnvPrefix)
	}
	return l.result
}

func withDefaults(opts Options, reg *cmdline.Registry) Options {
	if opts.AppName == "" {
		opts.AppName = DefaultAppName
	}
	if opts.HomeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			opts.HomeDir = home
		}
	}
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if opts.Logger == nil {
		if reg != nil {
			opts.Logger = reg.Logger()
		} else {
			opts.Logger = logging.New(os.Stderr, logging.DefaultOptions())
		}
	}
	return opts
}

// read loads a file or every *.rc file of a directory. Empty paths are
// ignored.
func (l *loader) read(path string, source resource.Source) {
	if path == "" {
		return
	}
	l.logger.Info("Reading", "file", path, "source", source)
	files, err := l.env.ReadPath(path, source)
	for _, f := range files {
		l.result.Files = append(l.result.Files, File{Path: f, Source: source})
	}
	if err != nil {
		l.logger.Error("cannot read resource file", "path", path, "err", err)
		l.result.Errors = append(l.result.Errors, err)
	}
}

// stringSetting resolves a built-in string option from the store, falling
// back to its compiled default when it is registered.
func stringSetting(env resource.Store, reg *cmdline.Registry, name string) string {
	if v, ok := resource.Resolve(env, cmdline.KeyPrefix+name); ok {
		return strings.TrimSpace(v)
	}
	if reg == nil {
		return ""
	}
	return reg.Find(name).DefaultStringValue()
}
