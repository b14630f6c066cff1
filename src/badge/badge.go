package badge

import (
	"fmt"
	"os"
	"path/filepath"
)

// Badge colors.
const (
	ColorPassing = "#4c1"
	ColorPartial = "#dfb317"
	ColorFailing = "#e05d44"
)

// Badge is the content of one badge.
type Badge struct {
	Label string // left half
	Value string // right half
	Color string // right half fill
}

// Engine generates SVG badges from measured font metrics.
type Engine struct {
	metrics *FontMetrics

	// EmbedFont inlines the font as a base64 @font-face rule so the badge
	// renders identically without the font installed.
	EmbedFont bool
}

// New creates an engine.
func New(metrics *FontMetrics) *Engine {
	return &Engine{metrics: metrics}
}

// Generate produces the SVG document for b.
func (e *Engine) Generate(b Badge) string {
	return e.renderSVG(b)
}

// ForCounts builds the badge for a run where succeeded of attempted items
// passed: green when all passed, red when none did, yellow in between.
func ForCounts(label string, succeeded, attempted int) Badge {
	b := Badge{Label: label, Value: fmt.Sprintf("%d/%d passing", succeeded, attempted)}
	switch {
	case succeeded == attempted:
		b.Color = ColorPassing
	case succeeded == 0:
		b.Color = ColorFailing
	default:
		b.Color = ColorPartial
	}
	return b
}

// WriteFile renders b into path, creating parent directories.
func (e *Engine) WriteFile(path string, b Badge) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating badge dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(e.Generate(b)), 0o644); err != nil {
		return fmt.Errorf("writing badge: %w", err)
	}
	return nil
}
