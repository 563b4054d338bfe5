package cmdline

// Names of the built-in options added by RegisterStandard.
const (
	OptIncludePath        = "IncludePath"
	OptDefaultPath        = "DefaultPath"
	OptInclude            = "Include"
	OptName               = "Name"
	OptLogfile            = "Logfile"
	OptRunNumber          = "RunNumber"
	OptAutoAbort          = "AutoAbort"
	OptDataDir            = "DataDir"
	OptParameterDirectory = "ParameterDirectory"
)

// StandardOptions returns fresh descriptors for the built-in options.
func StandardOptions() []*Option {
	return []*Option{
		NewString(OptIncludePath, "-incpath", "directory prefixed to relative include files", ""),
		NewString(OptDefaultPath, "-defpath", "directory whose *.rc files are read first", ""),
		NewString(OptInclude, "", "space separated list of rc files to include", ""),
		NewStringUnset(OptName, "-n", "name of the run"),
		NewStringUnset(OptLogfile, "-lf", "log file"),
		NewInt(OptRunNumber, "-r", "run number", -1),
		NewBool(OptAutoAbort, "-abort", "abort on first error", false),
		NewString(OptDataDir, "-dd", "data directory", "./share"),
		NewString(OptParameterDirectory, "", "directory of parameter files", "./"),
	}
}

// RegisterStandard adds the built-in options to r.
func RegisterStandard(r *Registry) error {
	return r.AddOption(StandardOptions()...)
}
