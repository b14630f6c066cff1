// Package output renders operator-facing console output: colored status
// lines, framed sections, and CI report files.
package output

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sofmeright/hlbuild/src/config"
	"github.com/sofmeright/hlbuild/src/platform"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorCyan   = "\033[0;36m"
	colorGray   = "\033[0;37m"
	colorDim    = "\033[90m"
	colorBold   = "\033[1m"
)

// Style applies ANSI colors when Color is set. It holds no other state, so
// a Style decided once at startup can be passed anywhere.
type Style struct {
	Color bool
}

// Paint wraps text in the given color codes.
func (s Style) Paint(text string, codes ...string) string {
	if !s.Color || len(codes) == 0 {
		return text
	}
	var prefix string
	for _, c := range codes {
		prefix += c
	}
	return prefix + text + colorReset
}

func (s Style) Header(text string) string  { return s.Paint(text, colorGreen, colorBold) }
func (s Style) Rule(text string) string    { return s.Paint(text, colorGreen) }
func (s Style) Info(text string) string    { return s.Paint(text, colorCyan) }
func (s Style) Success(text string) string { return s.Paint("✓ "+text, colorGreen) }
func (s Style) Warning(text string) string { return s.Paint("⚠ "+text, colorYellow) }
func (s Style) Error(text string) string   { return s.Paint("✗ "+text, colorRed) }
func (s Style) Gray(text string) string    { return s.Paint(text, colorGray) }
func (s Style) Bold(text string) string    { return s.Paint(text, colorBold) }

// UseColor decides once whether output is colored.
// FORCE_COLOR always wins. Otherwise NO_COLOR and TERM=dumb disable color,
// Windows consoles are assumed not to render ANSI, and color is used for
// terminals and CI logs.
func UseColor(p platform.ID, env config.Env) bool {
	if env.ForceColor != "" {
		return true
	}
	if env.NoColor != "" || env.Term == "dumb" {
		return false
	}
	if p.IsWindows() {
		return false
	}
	return isTerminal() || env.IsCI()
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
