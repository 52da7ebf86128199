// ============================================================================
// METADATA
// ============================================================================
// Keyword Detector - sanitize step
//
// Purpose: isolates natural-language intent from quoted material so
// keyword matching doesn't fire on a keyword mentioned only inside an
// example, a URL, or a code fence. See spec section 4.5 step 1.
package keyword

import (
	"regexp"
	"strings"
)

var (
	xmlSelfClose = regexp.MustCompile(`<[a-zA-Z][\w-]*\b[^>]*/>`)
	urlPattern   = regexp.MustCompile(`https?://\S+`)
	filePathLike = regexp.MustCompile(`\b(?:[\w.-]+/)+[\w.-]+\.\w{1,8}\b`)
	fencedCode   = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`[^`\n]*`")
	openTagName  = regexp.MustCompile(`<([a-zA-Z][\w-]*)\b[^>]*>`)
)

// Sanitize strips paired XML tag blocks, self-closing tags, URLs,
// file-path-like tokens, fenced and inline code blocks, replacing each with
// a single space so word boundaries on either side survive.
func Sanitize(text string) string {
	text = stripPairedXMLTags(text)
	text = xmlSelfClose.ReplaceAllString(text, " ")
	text = fencedCode.ReplaceAllString(text, " ")
	text = inlineCode.ReplaceAllString(text, " ")
	text = urlPattern.ReplaceAllString(text, " ")
	text = filePathLike.ReplaceAllString(text, " ")
	return text
}

// stripPairedXMLTags removes <tag>...</tag> blocks for any tag name. Go's
// RE2 engine has no backreferences, so the matching close tag is found by
// a manual scan rather than a single regex.
func stripPairedXMLTags(text string) string {
	for {
		loc := openTagName.FindStringSubmatchIndex(text)
		if loc == nil {
			return text
		}
		name := text[loc[2]:loc[3]]
		closeTag := "</" + name + ">"
		rest := text[loc[1]:]
		closeIdx := strings.Index(rest, closeTag)
		if closeIdx < 0 {
			// Unterminated tag: strip just the opening tag and continue.
			text = text[:loc[0]] + " " + rest
			continue
		}
		text = text[:loc[0]] + " " + rest[closeIdx+len(closeTag):]
	}
}
