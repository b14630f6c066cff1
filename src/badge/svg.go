package badge

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"math"
)

const (
	badgeHeight = 20
	textPadding = 5
	labelFill   = "#555"
)

// segment is one colored box of a badge with its centered text.
type segment struct {
	text  string
	fill  string
	x     int
	width int
}

func (s segment) center() int { return s.x + s.width/2 }

// layout measures b into its label and value boxes, left to right.
func (e *Engine) layout(b Badge) []segment {
	segs := []segment{
		{text: b.Label, fill: labelFill},
		{text: b.Value, fill: b.Color},
	}
	x := 0
	for i := range segs {
		segs[i].x = x
		segs[i].width = int(math.Round(e.metrics.TextWidth(segs[i].text))) + 2*textPadding
		x += segs[i].width
	}
	return segs
}

func (e *Engine) renderSVG(b Badge) string {
	segs := e.layout(b)
	last := segs[len(segs)-1]
	total := last.x + last.width
	title := escape(b.Label + ": " + b.Value)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" role="img" aria-label="%s">`,
		total, badgeHeight, title)
	fmt.Fprintf(&buf, `<title>%s</title>`, title)
	if e.EmbedFont {
		fmt.Fprintf(&buf, `<style type="text/css">%s</style>`, fontFace(e.metrics.FontName(), e.metrics.data))
	}
	buf.WriteString(`<defs><linearGradient id="shine" x2="0" y2="100%">` +
		`<stop offset="0" stop-color="#bbb" stop-opacity=".1"/><stop offset="1" stop-opacity=".1"/>` +
		`</linearGradient></defs>`)
	fmt.Fprintf(&buf, `<clipPath id="round"><rect width="%d" height="%d" rx="3"/></clipPath>`, total, badgeHeight)

	buf.WriteString(`<g clip-path="url(#round)">`)
	for _, s := range segs {
		fmt.Fprintf(&buf, `<rect x="%d" width="%d" height="%d" fill="%s"/>`, s.x, s.width, badgeHeight, escape(s.fill))
	}
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="url(#shine)"/>`, total, badgeHeight)
	buf.WriteString(`</g>`)

	family := fmt.Sprintf("'%s',Verdana,Geneva,sans-serif", e.metrics.FontName())
	fmt.Fprintf(&buf, `<g fill="#fff" text-anchor="middle" font-family="%s" font-size="%g">`,
		escape(family), e.metrics.FontSize())
	for _, s := range segs {
		text := escape(s.text)
		fmt.Fprintf(&buf, `<text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>`, s.center(), text)
		fmt.Fprintf(&buf, `<text x="%d" y="14">%s</text>`, s.center(), text)
	}
	buf.WriteString(`</g></svg>`)
	return buf.String()
}

// fontFace inlines data as a CSS @font-face rule. CFF fonts start with
// "OTTO"; everything else is treated as TrueType.
func fontFace(name string, data []byte) string {
	ext, format := "ttf", "truetype"
	if bytes.HasPrefix(data, []byte("OTTO")) {
		ext, format = "otf", "opentype"
	}
	return fmt.Sprintf(`@font-face{font-family:'%s';src:url(data:font/%s;base64,%s) format('%s')}`,
		name, ext, base64.StdEncoding.EncodeToString(data), format)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
