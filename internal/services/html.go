package services

import (
	"regexp"
	"strings"
)

var (
	htmlTagPattern     = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)
	interTagWhitespace = regexp.MustCompile(`>\s+<`)
	blockClosePattern  = regexp.MustCompile(`</(p|div|ul|ol|li|h[1-6]|blockquote|table|pre)>\n*`)
	blankLinePattern   = regexp.MustCompile(`\n{2,}`)
)

// FormatContent normalizes the HTML formatting of a free-text field so the
// storefront renders it consistently. Inputs that already carry markup keep
// their structure: newlines are normalized, whitespace between tags is
// collapsed to a single newline, block-level closing tags get exactly one
// trailing newline, and content that starts with bare inline text is wrapped
// in a paragraph. Plain-text inputs are split on blank lines into paragraphs
// with single line breaks becoming <br /> inside a paragraph.
//
// The transform is idempotent: formatting already-formatted content is a
// no-op.
func FormatContent(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	if htmlTagPattern.MatchString(s) {
		s = interTagWhitespace.ReplaceAllString(s, ">\n<")
		s = blockClosePattern.ReplaceAllString(s, "</$1>\n")
		if !strings.HasPrefix(s, "<") {
			s = "<p>" + s + "</p>"
		}
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	for _, para := range blankLinePattern.Split(s, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(para, "\n", "<br />\n"))
		b.WriteString("</p>")
	}
	return b.String()
}

// StripTags removes markup for search tokenization
func StripTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, " ")
}
