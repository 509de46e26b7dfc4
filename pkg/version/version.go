// Package version reports which WordTracker build is running.
//
// Release builds set the variables with ldflags:
//
//	-X github.com/Aman-CERP/wordtracker/pkg/version.Version=v1.2.0
//	-X github.com/Aman-CERP/wordtracker/pkg/version.Commit=$(git rev-parse --short HEAD)
//	-X github.com/Aman-CERP/wordtracker/pkg/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)
//
// Binaries built with "go install" fill the blanks from the module build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"

	GoVersion = runtime.Version()
)

// BuildInfo is the JSON form printed by "wordtracker version --json".
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// modified is set when the VCS tree had uncommitted changes at build time.
var modified bool

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info)
	}
}

// fromBuildInfo fills values ldflags left at their defaults.
func fromBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "unknown" && s.Value != "" {
				Commit = s.Value
				if len(Commit) > 12 {
					Commit = Commit[:12]
				}
			}
		case "vcs.time":
			if Date == "unknown" && s.Value != "" {
				Date = s.Value
			}
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
}

// String returns the one-line version banner.
func String() string {
	commit := Commit
	if modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("wordtracker %s (commit: %s, built: %s, go: %s)", Version, commit, Date, GoVersion)
}

// Short returns just the version.
func Short() string {
	return Version
}

// GetInfo returns the build information.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		Modified:  modified,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
