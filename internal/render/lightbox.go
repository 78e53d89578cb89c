package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// GalleryClass is the class PhotoSwipe looks for on gallery containers.
const GalleryClass = "pswp-gallery"

// ImageResolver maps an <img> src to a local file, or reports false when the
// image is not served from disk.
type ImageResolver func(src string) (path string, ok bool)

// PrefixResolver resolves same-origin srcs whose decoded path starts with
// urlPrefix to files under dir. Query strings and fragments are ignored.
func PrefixResolver(urlPrefix, dir string) ImageResolver {
	return func(src string) (string, bool) {
		u, err := url.Parse(src)
		if err != nil || u.Scheme != "" || u.Host != "" {
			return "", false
		}
		rel, ok := strings.CutPrefix(u.Path, urlPrefix)
		if !ok {
			return "", false
		}
		return SafeJoin(dir, rel)
	}
}

// Lightbox wraps every local image of an HTML fragment in a PhotoSwipe anchor
// carrying its dimensions. Images already inside a link, and images whose size
// cannot be read, are left untouched. When at least one image is wrapped the
// fragment is enclosed in a gallery container.
func Lightbox(fragment []byte, resolve ImageResolver) (template.HTML, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), root)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML fragment: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	wrapped := 0
	for _, img := range findImages(root, false) {
		src := attr(img, "src")
		path, ok := resolve(src)
		if !ok {
			continue
		}
		w, h, err := ImageSize(path)
		if err != nil {
			continue
		}
		link := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr: []html.Attribute{
				{Key: "href", Val: src},
				{Key: "data-pswp-width", Val: strconv.Itoa(w)},
				{Key: "data-pswp-height", Val: strconv.Itoa(h)},
			},
		}
		parent := img.Parent
		parent.InsertBefore(link, img)
		parent.RemoveChild(img)
		link.AppendChild(img)
		wrapped++
	}

	var buf bytes.Buffer
	if wrapped > 0 {
		root.Attr = []html.Attribute{{Key: "class", Val: GalleryClass}}
		if err := html.Render(&buf, root); err != nil {
			return "", err
		}
		return template.HTML(buf.String()), nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return template.HTML(buf.String()), nil
}

func findImages(n *html.Node, inLink bool) []*html.Node {
	var found []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Img:
			if !inLink {
				found = append(found, c)
			}
		case atom.A:
			found = append(found, findImages(c, true)...)
		default:
			found = append(found, findImages(c, inLink)...)
		}
	}
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
