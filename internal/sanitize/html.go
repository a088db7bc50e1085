package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all HTML tags and attributes.
	// Use for fields that should only contain plain text (names, subjects,
	// comment bodies).
	StrictPolicy = bluemonday.StrictPolicy()

	// UGCPolicy allows safe user-generated content with basic formatting.
	// Use for rendered markdown (post and project bodies) before it is
	// stored as HTML.
	UGCPolicy = bluemonday.UGCPolicy()
)

// Text strips all HTML tags and returns plain text.
func Text(input string) string {
	return StrictPolicy.Sanitize(input)
}

// HTML sanitizes HTML content, allowing safe formatting tags.
// Removes <script>, <iframe>, event handlers, and style attributes.
func HTML(input string) string {
	return UGCPolicy.Sanitize(input)
}
