// Package platform maps the host operating system to the closed set of
// platform identifiers used for toolchain selection and artifact naming.
package platform

import (
	"runtime"
	"strings"
)

// ID identifies a host platform.
type ID string

const (
	Windows ID = "windows"
	Linux   ID = "linux"
	MacOS   ID = "macos"
	Unknown ID = "unknown"
)

// All lists every platform identifier in display order.
var All = []ID{Windows, Linux, MacOS, Unknown}

// Detect returns the platform of the running process.
func Detect() ID {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps an OS name (runtime.GOOS style) to an ID.
// Anything unrecognized is Unknown.
func FromGOOS(goos string) ID {
	switch strings.ToLower(strings.TrimSpace(goos)) {
	case "windows":
		return Windows
	case "linux":
		return Linux
	case "darwin", "macos":
		return MacOS
	default:
		return Unknown
	}
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// IsWindows reports whether the Windows toolchain branch applies.
// Unknown platforms take the POSIX branch.
func (id ID) IsWindows() bool { return id == Windows }

// ExeSuffix returns the executable file suffix for the platform.
func (id ID) ExeSuffix() string {
	if id.IsWindows() {
		return ".exe"
	}
	return ""
}

// DefaultArtifactTag is the platform token the project's CMake embeds in
// artifact names. Every non-Windows host builds "linux" named binaries.
func (id ID) DefaultArtifactTag() string {
	if id.IsWindows() {
		return "win11"
	}
	return "linux"
}

// Valid reports whether id is one of the known identifiers.
func (id ID) Valid() bool {
	for _, p := range All {
		if p == id {
			return true
		}
	}
	return false
}
