// Package version exposes build information injected by the linker.
package version

import (
	"fmt"
	"runtime"
)

// Populated with -ldflags "-X github.com/grovetools/sessionsync/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Info is the build information of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the details below the version line.
func (i Info) String() string {
	return fmt.Sprintf("  Commit:    %s\n  Built:     %s\n  Go:        %s\n  Platform:  %s",
		i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
