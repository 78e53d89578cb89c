// Package render turns site content into HTML: markdown papers, lightbox
// galleries and timeline descriptions.
package render

import (
	"html/template"

	"github.com/russross/blackfriday/v2"
)

// markdownExtensions matches what the papers are written against: tables,
// fenced code, footnotes, definition lists and single newlines as <br>.
const markdownExtensions = blackfriday.CommonExtensions |
	blackfriday.Footnotes |
	blackfriday.HardLineBreak

// MarkdownBytes renders markdown into an HTML fragment.
func MarkdownBytes(src []byte) []byte {
	return blackfriday.Run(src, blackfriday.WithExtensions(markdownExtensions))
}

// Markdown renders trusted markdown content for use in templates.
func Markdown(src string) template.HTML {
	return template.HTML(MarkdownBytes([]byte(src)))
}
