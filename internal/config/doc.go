// Package config discovers and reads resource files into a resource.Env.
//
// Files are read in a fixed order, later files overriding earlier ones:
// 1. Every *.rc file in DefaultPath (global defaults)
// 2. Every entry of the space-separated Include list, relative entries
//    prefixed with IncludePath
// 3. The user file (~/.<app>rc, or <config dir>/<app>/<app>.rc)
// 4. The project file (./.<app>rc)
// 5. Environment variables (<PREFIX>_<NAME>)
//
// The user and project files are also read once before step 1 so that
// DefaultPath, IncludePath and Include can be set there.
//
// The command line is read afterwards by the registry and overrides all of
// the above. Files given with the extra config control token are read when
// the token is seen.
package config
