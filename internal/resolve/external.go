package resolve

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/wikiport-cli/internal/markup"
)

// externalTypeImage marks tooltip entries that embed an attachment.
const externalTypeImage = "image"

// rewriteExternalAnchor replaces a tooltip reference with the looked
// up external information: image entries become image embeds, text
// entries pass through as markup. Unknown keys are left unchanged.
func (r *Resolver) rewriteExternalAnchor(a *html.Node) {
	key, _ := markup.Attr(a, attrExternalID)
	entries, ok := r.cfg.External[key]
	if !ok || len(entries) == 0 {
		r.logSkip(key, "no external information entry")
		return
	}

	parent := a.Parent
	if parent == nil {
		return
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.InformationType, externalTypeImage) {
			parent.InsertBefore(markup.ImageEmbed(entry.Content), a)
			continue
		}
		parsed, err := markup.ParseFragment(entry.Content)
		if err != nil {
			// Non-parseable content: keep it as literal text.
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: entry.Content}, a)
			continue
		}
		for c := parsed.FirstChild; c != nil; {
			next := c.NextSibling
			parsed.RemoveChild(c)
			parent.InsertBefore(c, a)
			c = next
		}
	}
	parent.RemoveChild(a)
}
