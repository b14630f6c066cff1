package output

import (
	"fmt"
	"io"
	"strings"
)

// Console writes status lines in a fixed vocabulary: header, info, success,
// warning, error, gray detail.
type Console struct {
	w     io.Writer
	style Style
}

// NewConsole creates a console writing to w.
func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: w, style: Style{Color: color}}
}

// Writer returns the underlying writer, for sections and raw output.
func (c *Console) Writer() io.Writer { return c.w }

// Style returns the console's style.
func (c *Console) Style() Style { return c.style }

// Color reports whether the console emits ANSI colors.
func (c *Console) Color() bool { return c.style.Color }

// Header prints a bold title underlined with '='.
func (c *Console) Header(text string) {
	fmt.Fprintln(c.w, c.style.Header(text))
	fmt.Fprintln(c.w, c.style.Rule(strings.Repeat("=", len([]rune(text)))))
}

func (c *Console) Info(format string, args ...any) {
	fmt.Fprintln(c.w, c.style.Info(fmt.Sprintf(format, args...)))
}

func (c *Console) Success(format string, args ...any) {
	fmt.Fprintln(c.w, c.style.Success(fmt.Sprintf(format, args...)))
}

func (c *Console) Warning(format string, args ...any) {
	fmt.Fprintln(c.w, c.style.Warning(fmt.Sprintf(format, args...)))
}

func (c *Console) Error(format string, args ...any) {
	fmt.Fprintln(c.w, c.style.Error(fmt.Sprintf(format, args...)))
}

func (c *Console) Gray(format string, args ...any) {
	fmt.Fprintln(c.w, c.style.Gray(fmt.Sprintf(format, args...)))
}

// Block prints multi-line text in gray, each line indented.
func (c *Console) Block(indent, text string) {
	text = strings.TrimRight(text, "\r\n")
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		c.Gray("%s%s", indent, strings.TrimRight(line, "\r"))
	}
}

// Println writes an unstyled line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.w, args...)
}
