package web

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
)

// Raw HTML in markdown sources is dropped by goldmark's default renderer.
var md = goldmark.New()

func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

func lower(s string) string {
	return strings.ToLower(s)
}
