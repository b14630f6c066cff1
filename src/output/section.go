package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const sectionWidth = 61 // inner width between │ and line end

// Status values understood by StatusIcon.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Section renders a box-drawing framed block of rows.
type Section struct {
	w     io.Writer
	name  string
	style Style
}

// NewSection writes the section header and returns the section.
// A non-zero elapsed is shown right-aligned in the header.
func NewSection(w io.Writer, name string, elapsed time.Duration, color bool) *Section {
	s := &Section{w: w, name: name, style: Style{Color: color}}
	s.writeHeader(elapsed)
	return s
}

// Row writes a content line inside the frame.
func (s *Section) Row(format string, args ...any) {
	fmt.Fprintf(s.w, "    │ %s\n", fmt.Sprintf(format, args...))
}

// Status writes "label  icon  detail".
func (s *Section) Status(label, status, detail string) {
	icon := StatusIcon(status, s.style.Color)
	if detail == "" {
		s.Row("%-16s%s", label, icon)
		return
	}
	s.Row("%-16s%s  %s", label, icon, detail)
}

// Separator writes a mid-section divider.
func (s *Section) Separator() {
	fmt.Fprintf(s.w, "    ├%s\n", strings.Repeat("─", sectionWidth))
}

// Close writes the footer.
func (s *Section) Close() {
	fmt.Fprintf(s.w, "    └%s\n", strings.Repeat("─", sectionWidth))
}

// writeHeader renders: ── Name ──────────────────── elapsed ──
func (s *Section) writeHeader(elapsed time.Duration) {
	label := fmt.Sprintf("── %s ", s.name)

	suffix := "──"
	if elapsed > 0 {
		suffix = fmt.Sprintf(" %s ──", FormatElapsed(elapsed))
	}

	fill := sectionWidth + 4 - len([]rune(label)) - len([]rune(suffix))
	if fill < 1 {
		fill = 1
	}

	line := label + strings.Repeat("─", fill) + suffix
	if s.style.Color {
		fmt.Fprintf(s.w, "\n    \033[2;36m%s\033[0m\n", line)
		return
	}
	fmt.Fprintf(s.w, "\n    %s\n", line)
}

// StatusIcon returns the icon for a status, colored when color is set.
func StatusIcon(status string, color bool) string {
	var icon, code string
	switch status {
	case StatusSuccess:
		icon, code = "✓", "\033[32m"
	case StatusFailed:
		icon, code = "✗", "\033[31m"
	default:
		icon, code = "⊘", "\033[33m"
	}
	if !color {
		return icon
	}
	return code + icon + colorReset
}

// StatusOf maps a boolean outcome to a status value.
func StatusOf(ok bool) string {
	if ok {
		return StatusSuccess
	}
	return StatusFailed
}

// Dimmed returns dimmed text if color is enabled.
func Dimmed(text string, color bool) string {
	return Style{Color: color}.Paint(text, colorDim)
}

// KV is a key-value pair for the context block.
type KV struct {
	Key   string
	Value string
}

// ContextBlock prints run context as aligned two-column pairs.
func ContextBlock(w io.Writer, kv []KV) {
	if len(kv) == 0 {
		return
	}
	fmt.Fprintln(w)
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(w, "    %-12s%-20s%-11s%s\n",
				kv[i].Key, kv[i].Value, kv[i+1].Key, kv[i+1].Value)
		} else {
			fmt.Fprintf(w, "    %-12s%s\n", kv[i].Key, kv[i].Value)
		}
	}
}

// FormatElapsed formats a duration for section headers and summaries.
func FormatElapsed(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}

// FormatSize renders a byte count the way build summaries show it.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
