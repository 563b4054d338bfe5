package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

// DefaultAppName names the default resource files (.cmdlineargsrc).
const DefaultAppName = "cmdlineargs"

// rcName returns the dot-file name of the default resource file.
func rcName(app string) string {
	return "." + app + "rc"
}

// findProjectFile looks for the default resource file in workDir.
func findProjectFile(workDir, app string) string {
	path := filepath.Join(workDir, rcName(app))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// findUserFile looks for a user-level resource file.
// Checks ~/.<app>rc first, then falls back to <config dir>/<app>/<app>.rc.
func findUserFile(home, app string) string {
	if home != "" {
		path := filepath.Join(home, rcName(app))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if cfgDir := osUserConfigDir(home); cfgDir != "" {
		path := filepath.Join(cfgDir, app, app+resource.RCExt)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir(home string) string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if home != "" {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home != "" {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}
