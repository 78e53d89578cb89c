package render

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/naka-gawa/portfolio/internal/domain"
)

// Description renders a timeline description. Text items are escaped; items
// with a path become gallery anchors when the image exists under root and
// fall back to plain text otherwise.
func Description(items []domain.DescriptionItem, root, urlPrefix string) template.HTML {
	var b strings.Builder
	gallery := false
	for _, item := range items {
		text := template.HTMLEscapeString(item.Text)
		if item.Path == "" {
			b.WriteString(text)
			continue
		}
		full, ok := SafeJoin(root, item.Path)
		if !ok {
			b.WriteString(text)
			continue
		}
		w, h, err := ImageSize(full)
		if err != nil {
			b.WriteString(text)
			continue
		}
		href := urlPrefix + (&url.URL{Path: item.Path}).EscapedPath()
		fmt.Fprintf(&b, `<a href="%s" data-pswp-width="%d" data-pswp-height="%d">%s</a>`,
			template.HTMLEscapeString(href), w, h, text)
		gallery = true
	}
	if gallery {
		return template.HTML(`<div class="` + GalleryClass + `">` + b.String() + `</div>`)
	}
	return template.HTML(b.String())
}
