package version

import "runtime/debug"

// These variables are overridden at build time using -ldflags.
// Keep sensible defaults for local development.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// Info is the build metadata reported by the version endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Dirty     string `json:"dirty"`
	GoVersion string `json:"go_version"`
}

// Get returns the injected metadata, filling the commit from the embedded
// VCS stamp when no -ldflags value was given.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, Dirty: Dirty}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			if info.Dirty == "false" {
				info.Dirty = s.Value
			}
		}
	}
	return info
}
