package resolve

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/wikiport-cli/internal/markup"
)

// bookmark is an in-document anchor value and the text of the first
// reference to it, used to place its target marker.
type bookmark struct {
	name string
	text string
}

// rewriteBookmarkAnchor turns an in-document bookmark reference into
// an anchor-macro link and remembers the bookmark for target
// insertion.
func (r *Resolver) rewriteBookmarkAnchor(a *html.Node) {
	name, _ := markup.Attr(a, attrAnchor)
	if name == "" {
		return
	}
	text := anchorText(a)
	markup.Replace(a, markup.AnchorLink(name, text))

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookmarks {
		if b.name == name {
			return
		}
	}
	r.bookmarks = append(r.bookmarks, bookmark{name: name, text: text})
}

// insertBookmarkTargets places an anchor marker for every bookmark
// seen in the tree: immediately before the first heading or paragraph
// containing the bookmark's text, or prepended to the document when no
// element matches.
func (r *Resolver) insertBookmarkTargets(container *html.Node) {
	r.mu.Lock()
	bookmarks := make([]bookmark, len(r.bookmarks))
	copy(bookmarks, r.bookmarks)
	r.mu.Unlock()

	for _, b := range bookmarks {
		target := findBookmarkHost(container, b.name, b.text)
		macro := markup.AnchorMacro(b.name)
		if target != nil && target.Parent != nil {
			target.Parent.InsertBefore(macro, target)
			continue
		}
		if container.FirstChild != nil {
			container.InsertBefore(macro, container.FirstChild)
		} else {
			container.AppendChild(macro)
		}
	}
}

// findBookmarkHost returns the first heading or paragraph whose text
// contains the bookmark text, skipping elements that hold a link to
// the bookmark itself. An empty bookmark text matches nothing.
func findBookmarkHost(container *html.Node, name, text string) *html.Node {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	hosts := markup.FindAll(container, func(n *html.Node) bool {
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6", "p":
			return strings.Contains(markup.Text(n), text) && !containsAnchorLink(n, name)
		}
		return false
	})
	if len(hosts) == 0 {
		return nil
	}
	return hosts[0]
}

func containsAnchorLink(n *html.Node, name string) bool {
	links := markup.FindAll(n, func(c *html.Node) bool {
		if c.Data != "ac:link" {
			return false
		}
		v, _ := markup.Attr(c, "ac:anchor")
		return v == name
	})
	return len(links) > 0
}
