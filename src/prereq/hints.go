package prereq

import "github.com/sofmeright/hlbuild/src/platform"

// compilerHints returns install guidance for a missing POSIX compiler.
func compilerHints(p platform.ID) []string {
	switch p {
	case platform.Linux:
		return []string{
			"Ubuntu/Debian: sudo apt install build-essential",
			"CentOS/RHEL: sudo yum groupinstall 'Development Tools'",
			"Fedora: sudo dnf groupinstall 'Development Tools'",
		}
	case platform.MacOS:
		return []string{
			"Xcode Command Line Tools: xcode-select --install",
			"Homebrew: brew install gcc",
		}
	default:
		return []string{"Install GCC or Clang with your system package manager."}
	}
}

// buildToolHints returns install guidance for a missing build tool.
func buildToolHints(p platform.ID, tool string) []string {
	if toolLabel(tool) != "CMake" {
		return nil
	}
	switch p {
	case platform.Windows:
		return []string{"winget install Kitware.CMake", "or download from https://cmake.org/download/"}
	case platform.Linux:
		return []string{"Ubuntu/Debian: sudo apt install cmake", "Fedora: sudo dnf install cmake"}
	case platform.MacOS:
		return []string{"Homebrew: brew install cmake"}
	default:
		return []string{"Download from https://cmake.org/download/"}
	}
}
