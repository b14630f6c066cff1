// Package version reports the hlbuild build identity.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are injected at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns a human-readable version string. Binaries installed with
// "go install" carry no ldflags, so the module version is used instead.
func String() string {
	v := Version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("hlbuild %s (%s, %s)", v, Commit, BuildDate)
}
