package config

import (
	"github.com/charmbracelet/log"

	"github.com/nibzard/cmdlineargs-go/internal/cmdline"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// Backend is where parameter objects are read from or written to.
type Backend int

const (
	BackendSQL Backend = iota
	BackendFile
	BackendImportExport
	BackendFileImport
)

func (b Backend) String() string {
	switch b {
	case BackendSQL:
		return "sql"
	case BackendFile:
		return "file"
	case BackendImportExport:
		return "importexport"
	case BackendFileImport:
		return "fileimport"
	default:
		return "unknown"
	}
}

// Resource keys of the parameter source and drain settings.
const (
	ParameterSourceKey = cmdline.KeyPrefix + "ParameterSource"
	ParameterDrainKey  = cmdline.KeyPrefix + "ParameterDrain"
	parSourcePrefix    = cmdline.KeyPrefix + "ParSource."
	parDrainPrefix     = cmdline.KeyPrefix + "ParDrain."

	defaultSource = "sql"
	defaultDrain  = "file"
)

// Params answers where parameter objects come from and go to.
type Params struct {
	store  resource.Store
	logger *log.Logger
}

// NewParams creates Params reading store.
func NewParams(store resource.Store, logger *log.Logger) *Params {
	return &Params{store: store, logger: logger}
}

// ParameterSource returns the global parameter source. Unknown values fall
// back to sql.
func (p *Params) ParameterSource() Backend {
	mode := p.lookup(ParameterSourceKey, defaultSource)
	switch mode {
	case "sql":
		return BackendSQL
	case "file":
		return BackendFile
	case "fileimport":
		return BackendFileImport
	}
	p.logger.Warn("unknown default parameter source, falling back to sql", "source", mode)
	return BackendSQL
}

// ParameterSourceType returns the source of the parameter object obj,
// falling back to the global source. Unknown values mean import/export.
func (p *Params) ParameterSourceType(obj string) Backend {
	mode := p.lookup(parSourcePrefix+obj, p.lookup(ParameterSourceKey, defaultSource))
	p.logger.Debug("parameter source query", "key", parSourcePrefix+obj, "mode", mode)
	switch mode {
	case "sql":
		return BackendSQL
	case "file":
		return BackendFile
	case "fileimport":
		return BackendFileImport
	}
	return BackendImportExport
}

// ParameterSourceFor returns the raw source setting of obj.
func (p *Params) ParameterSourceFor(obj string) (string, bool) {
	return resource.Resolve(p.store, parSourcePrefix+obj)
}

// SetParameterSource sets the source of obj.
func (p *Params) SetParameterSource(obj, source string) {
	p.store.Set(parSourcePrefix+obj, source, resource.SourceCmdLine)
}

// ParameterDrain returns the global parameter drain. Unknown values fall
// back to file.
func (p *Params) ParameterDrain() Backend {
	mode := p.lookup(ParameterDrainKey, defaultDrain)
	switch mode {
	case "sql":
		return BackendSQL
	case "file":
		return BackendFile
	}
	p.logger.Warn("unknown default parameter drain, falling back to file", "drain", mode)
	return BackendFile
}

// ParameterDrainType returns the drain of the parameter object obj, falling
// back to the global drain. Unknown values mean import/export.
func (p *Params) ParameterDrainType(obj string) Backend {
	mode := p.lookup(parDrainPrefix+obj, p.lookup(ParameterDrainKey, defaultDrain))
	p.logger.Debug("parameter drain query", "key", parDrainPrefix+obj, "mode", mode)
	switch mode {
	case "sql":
		return BackendSQL
	case "file":
		return BackendFile
	}
	return BackendImportExport
}

// ParameterDrainFor returns the raw drain setting of obj.
func (p *Params) ParameterDrainFor(obj string) (string, bool) {
	return resource.Resolve(p.store, parDrainPrefix+obj)
}

// SetParameterDrain sets the drain of obj.
func (p *Params) SetParameterDrain(obj, drain string) {
	p.store.Set(parDrainPrefix+obj, drain, resource.SourceCmdLine)
}

func (p *Params) lookup(key, def string) string {
	if v, ok := resource.Resolve(p.store, key); ok {
		return v
	}
	return def
}
