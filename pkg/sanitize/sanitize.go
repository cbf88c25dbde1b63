package sanitize

import (
	"html"
	"regexp"
	"strings"
)

// Patterns removed from free-text input before it is stored or rendered.
// scriptPattern tolerates whitespace before the closing '>' of the end tag
// and spans newlines, so malformed tags like "</script >" are still caught.
var (
	scriptPattern     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script\s*>`)
	javascriptPattern = regexp.MustCompile(`(?i)javascript:|on\w+\s*=`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
)

// Text neutralizes HTML/script/URL-handler injection in a free-text value.
// maxLength <= 0 means no length limit.
//
// The step order is significant: removal patterns must run against the
// literal text before entity escaping, otherwise escaped input could
// reconstruct a pattern or hide one from removal.
func Text(text string, maxLength int) string {
	// Remove complete <script>...</script> blocks first.
	text = scriptPattern.ReplaceAllString(text, "")

	// Remove javascript: URL schemes and on<event>= handler attributes.
	text = javascriptPattern.ReplaceAllString(text, "")

	// Strip any remaining tag-like constructs.
	text = tagPattern.ReplaceAllString(text, "")

	// Escape what is left, quotes included. Must run last.
	text = html.EscapeString(text)

	text = strings.TrimSpace(text)

	// Simple length cut. May split a multi-byte sequence; accepted.
	if maxLength > 0 && len(text) > maxLength {
		text = text[:maxLength]
	}

	return text
}

// TextPtr is Text for optional fields: nil in, nil out.
func TextPtr(text *string, maxLength int) *string {
	if text == nil {
		return nil
	}
	clean := Text(*text, maxLength)

	return &clean
}
