// Package version reports the codemend build. Release builds set the
// variables with -ldflags "-X"; other builds fall back to module build info.
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

const unknown = "unknown"

var (
	// Version is the release tag, or "dev".
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = unknown
	// Date is the build timestamp.
	Date = unknown
)

var initOnce sync.Once

// InitBinaryVersion fills unset fields from the embedded build info.
func InitBinaryVersion() {
	initOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}

		apply(info)
	})
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

// String renders the one-line version banner.
func String() string {
	return fmt.Sprintf("codemend %s (commit: %s, built: %s)", Version, Commit, Date)
}
