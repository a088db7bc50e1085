package content

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/oornnery/site/internal/sanitize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// RenderMarkdown converts markdown to sanitized HTML. Rendering is
// delegated to goldmark; the output passes through the UGC policy so stored
// HTML is always safe to serve.
func RenderMarkdown(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		// Fall back to the escaped source rather than serving nothing.
		return sanitize.Text(source)
	}
	return sanitize.HTML(buf.String())
}

var (
	slugInvalid  = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces   = regexp.MustCompile(`[\s_]+`)
	slugRepeats  = regexp.MustCompile(`-+`)
	wordsPattern = regexp.MustCompile(`\w+`)
)

// Slugify builds a URL slug from a title.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugRepeats.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ReadingTime estimates minutes to read at 200 words per minute, never
// below one minute.
func ReadingTime(source string) int {
	words := len(wordsPattern.FindAllString(source, -1))
	minutes := (words + 100) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
