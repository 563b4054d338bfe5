package cmdline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/cmdlineargs-go/internal/logging"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// Registry owns the option and positional descriptors of one parse context
// and binds them to a resource store.
//
// A Registry is not safe for concurrent use. Descriptors must not be added
// or removed while ReadCmdLine runs.
type Registry struct {
	store  resource.Store
	logger *log.Logger
	out    io.Writer

	options []*Option
	byName  map[string]*Option
	byTag   map[string]*Option

	named     []*Positional
	argByName map[string]*Positional
	greedy    *Positional
	greedyPos int
	greedyRun []*Positional
	tokens    []string

	program     string
	controls    map[string]Control
	extraLoader func(path string) error

	strictTypes bool
	abort       func(error)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStore sets the resource store. The default is an empty resource.Env.
func WithStore(s resource.Store) RegistryOption {
	return func(r *Registry) {
		r.store = s
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithOutput sets where help and settings listings are written.
func WithOutput(w io.Writer) RegistryOption {
	return func(r *Registry) {
		r.out = w
	}
}

// WithStrictTypes makes reading a non-string descriptor as a string call the
// abort hook instead of only warning.
func WithStrictTypes(enabled bool) RegistryOption {
	return func(r *Registry) {
		r.strictTypes = enabled
	}
}

// WithAbort replaces the hook run for fatal type mismatches in strict mode.
// The default logs the error at fatal level, which exits the process.
func WithAbort(fn func(error)) RegistryOption {
	return func(r *Registry) {
		r.abort = fn
	}
}

// WithControl adds or replaces a control token.
func WithControl(c Control) RegistryOption {
	return func(r *Registry) {
		r.controls[c.Token] = c
	}
}

// New creates a Registry with the built-in control tokens.
func New(opts ...RegistryOption) *Registry {
	r := &Registry{
		store:     resource.NewEnv(),
		out:       os.Stdout,
		byName:    make(map[string]*Option),
		byTag:     make(map[string]*Option),
		argByName: make(map[string]*Positional),
		greedyPos: -1,
		controls:  defaultControls(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.New(os.Stderr, logging.DefaultOptions())
	}
	if r.abort == nil {
		r.abort = func(err error) { r.logger.Fatal(err) }
	}
	return r
}

// Store returns the resource store backing the registry.
func (r *Registry) Store() resource.Store {
	return r.store
}

// Logger returns the diagnostics logger.
func (r *Registry) Logger() *log.Logger {
	return r.logger
}

// Program returns argv[0] of the last parse.
func (r *Registry) Program() string {
	return r.program
}

// SetExtraLoader installs the function that reads the path given to the
// extra config file control token.
func (r *Registry) SetExtraLoader(fn func(path string) error) {
	r.extraLoader = fn
}

// AddOption registers options. Every option is attempted; the returned error
// joins all conflicts.
func (r *Registry) AddOption(opts ...*Option) error {
	var errs []error
	for _, o := range opts {
		if err := r.addOption(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) addOption(o *Option) error {
	if o == nil || o.name == "" {
		return fmt.Errorf("%w: option without a name", ErrInvalidDescriptor)
	}
	if o.kind == KindNone {
		return fmt.Errorf("%w: option '%s' has no type", ErrInvalidDescriptor, o.name)
	}
	if _, ok := r.byName[o.name]; ok {
		return fmt.Errorf("%w: option '%s' already exists", ErrDuplicateName, o.name)
	}
	if o.tag != "" {
		if other, ok := r.byTag[o.tag]; ok {
			return fmt.Errorf("%w: options '%s' and '%s' share tag '%s'", ErrDuplicateTag, o.name, other.name, o.tag)
		}
		if _, ok := r.controls[o.tag]; ok {
			return fmt.Errorf("%w: option '%s' uses reserved tag '%s'", ErrDuplicateTag, o.name, o.tag)
		}
	}
	r.register(o)
	return nil
}

func (r *Registry) register(o *Option) {
	o.reg = r
	r.options = append(r.options, o)
	r.byName[o.name] = o
	if o.tag != "" {
		r.byTag[o.tag] = o
	}
}

// AddPositional registers positional slots in order. A greedy slot records
// its position among the named slots registered before it.
func (r *Registry) AddPositional(args ...*Positional) error {
	var errs []error
	for _, p := range args {
		if err := r.addPositional(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) addPositional(p *Positional) error {
	if p == nil || p.name == "" {
		return fmt.Errorf("%w: positional argument without a name", ErrInvalidDescriptor)
	}
	if _, ok := r.argByName[p.name]; ok {
		return fmt.Errorf("%w: positional argument '%s' already exists", ErrDuplicateName, p.name)
	}
	if p.greedy {
		if r.greedy != nil {
			return fmt.Errorf("%w: '%s' conflicts with '%s'", ErrSecondGreedy, p.name, r.greedy.name)
		}
		r.greedy = p
		r.greedyPos = len(r.named)
	} else {
		r.named = append(r.named, p)
	}
	p.reg = r
	r.argByName[p.name] = p
	return nil
}

// Remove deregisters an option and purges its stored value.
func (r *Registry) Remove(o *Option) {
	if o == nil || r.byName[o.name] != o {
		return
	}
	delete(r.byName, o.name)
	if o.tag != "" {
		delete(r.byTag, o.tag)
	}
	for i, cur := range r.options {
		if cur == o {
			r.options = append(r.options[:i], r.options[i+1:]...)
			break
		}
	}
	r.store.Delete(o.key)
	o.reg = nil
}

// ClearOptions drops every descriptor, purges their stored values and
// forgets the last parse, so the same names and tags can be registered
// again.
func (r *Registry) ClearOptions() {
	for _, o := range r.options {
		r.store.Delete(o.key)
		o.reg = nil
	}
	r.options = nil
	r.byName = make(map[string]*Option)
	r.byTag = make(map[string]*Option)
	for _, p := range r.argByName {
		p.reg = nil
	}
	r.named = nil
	r.argByName = make(map[string]*Positional)
	r.greedy = nil
	r.greedyPos = -1
	r.greedyRun = nil
	r.tokens = nil
}

// RestoreDefaults writes the compiled default of every option that has a
// command-line tag back to the store. String options without a default are
// removed from the store.
func (r *Registry) RestoreDefaults() {
	for _, o := range r.options {
		if o.tag == "" {
			continue
		}
		if text, ok := o.defaultText(); ok {
			r.store.Set(o.key, text, resource.SourceDefault)
		} else {
			r.store.Delete(o.key)
		}
	}
}

// Options returns the registered options in registration order.
func (r *Registry) Options() []*Option {
	return append([]*Option(nil), r.options...)
}

// Find returns the option with the given name, or nil.
func (r *Registry) Find(name string) *Option {
	return r.byName[name]
}

// Arg returns the named or greedy positional with the given name, or nil.
func (r *Registry) Arg(name string) *Positional {
	return r.argByName[name]
}

// Args returns the named positional slots in registration order.
func (r *Registry) Args() []*Positional {
	return append([]*Positional(nil), r.named...)
}

// GreedyArg returns the greedy slot, or nil if none was registered.
func (r *Registry) GreedyArg() *Positional {
	return r.greedy
}

// Greedy returns the values absorbed by the greedy slot in the last parse.
func (r *Registry) Greedy() []*Positional {
	return append([]*Positional(nil), r.greedyRun...)
}

// GreedyValues returns the raw tokens absorbed by the greedy slot.
func (r *Registry) GreedyValues() []string {
	out := make([]string, len(r.greedyRun))
	for i, p := range r.greedyRun {
		out[i] = p.value
	}
	return out
}

// Positionals returns every positional token collected by the last parse.
func (r *Registry) Positionals() []string {
	return append([]string(nil), r.tokens...)
}

// BoolValue returns the named option's value, or false if it does not exist.
func (r *Registry) BoolValue(name string) bool { return r.Find(name).BoolValue() }

// IntValue returns the named option's value, or 0 if it does not exist.
func (r *Registry) IntValue(name string) int { return r.Find(name).IntValue() }

// DoubleValue returns the named option's value, or 0 if it does not exist.
func (r *Registry) DoubleValue(name string) float64 { return r.Find(name).DoubleValue() }

// StringValue returns the named option's value, or "" if it does not exist.
func (r *Registry) StringValue(name string) string { return r.Find(name).StringValue() }

// IntArrayValue returns an element of the named option's value.
func (r *Registry) IntArrayValue(name string, index int) int {
	return r.Find(name).IntArrayValue(index)
}

// DoubleArrayValue returns an element of the named option's value.
func (r *Registry) DoubleArrayValue(name string, index int) float64 {
	return r.Find(name).DoubleArrayValue(index)
}

// ArraySize returns the element count of the named option's value.
func (r *Registry) ArraySize(name string) int { return r.Find(name).ArraySize() }

// DefaultBoolValue returns the named option's compiled default.
func (r *Registry) DefaultBoolValue(name string) bool { return r.Find(name).DefaultBoolValue() }

// DefaultIntValue returns the named option's compiled default.
func (r *Registry) DefaultIntValue(name string) int { return r.Find(name).DefaultIntValue() }

// DefaultDoubleValue returns the named option's compiled default.
func (r *Registry) DefaultDoubleValue(name string) float64 {
	return r.Find(name).DefaultDoubleValue()
}

// DefaultStringValue returns the named option's compiled default.
func (r *Registry) DefaultStringValue(name string) string {
	return r.Find(name).DefaultStringValue()
}

// DefaultIntArrayValue returns an element of the named option's default.
func (r *Registry) DefaultIntArrayValue(name string, index int) int {
	return r.Find(name).DefaultIntArrayValue(index)
}

// DefaultDoubleArrayValue returns an element of the named option's default.
func (r *Registry) DefaultDoubleArrayValue(name string, index int) float64 {
	return r.Find(name).DefaultDoubleArrayValue(index)
}

// DefaultArraySize returns the element count of the named option's default.
func (r *Registry) DefaultArraySize(name string) int {
	return r.Find(name).DefaultArraySize()
}

func (r *Registry) mismatch(name string, want Kind) {
	if r == nil {
		return
	}
	r.logger.Warn(fmt.Sprintf("%s not defined as %s", name, want.description()))
}

func (r *Registry) stringMismatch(name string) {
	if r == nil {
		return
	}
	if r.strictTypes {
		r.abort(fmt.Errorf("%w: %s not defined as string", ErrTypeMismatch, name))
		return
	}
	r.mismatch(name, KindString)
}

// sourceOf reports where the stored value for key came from, when the store
// tracks it.
func (r *Registry) sourceOf(key string) resource.Source {
	type recorder interface {
		Record(key string) (resource.Record, bool)
	}
	if rs, ok := r.store.(recorder); ok {
		if rec, ok := rs.Record(key); ok {
			return rec.Source
		}
	}
	return resource.SourceCmdLine
}
