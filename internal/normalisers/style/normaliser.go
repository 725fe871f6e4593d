// Package style canonicalises inline styling and performs structural
// cleanup on the markup tree before publishing: legacy exports carry
// print-oriented units, rgb() colours and deeply wrapped elements that
// the target wiki renders poorly.
package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/wikiport-cli/internal/markup"
)

// Fixed conversion ratios used by the legacy editor.
const (
	pxPerCm = 37.8
	pxPerPt = 1.333
)

// Pre-compiled expressions. These run inside attribute values only;
// element structure is always edited on the parsed tree.
var (
	cmValue   = regexp.MustCompile(`(\d+(?:\.\d+)?)cm`)
	ptValue   = regexp.MustCompile(`(\d+(?:\.\d+)?)pt`)
	rgbValue  = regexp.MustCompile(`rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*[\d.]+\s*)?\)`)
	bgColour  = regexp.MustCompile(`(?i)background(?:-color)?\s*:\s*([^;]+);?`)
	widthDecl = regexp.MustCompile(`(?i)width\s*:\s*[^;]+;?`)
)

// voidElements never hold content; pruning must not remove them or
// elements containing them.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "source": true, "track": true,
	"wbr": true,
}

// Normaliser applies the deterministic style and structure transforms.
type Normaliser struct{}

// New creates a new style normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Apply normalises the tree rooted at container in place: unit and
// colour conversion, background-colour propagation, table cleanup,
// checklist conversion, empty-element pruning and redundant-wrapper
// collapse. Pure tree transform, no I/O.
func (n *Normaliser) Apply(container *html.Node) {
	markup.Walk(container, func(c *html.Node) {
		if c.Type != html.ElementNode {
			return
		}
		convertStyleValues(c)
		propagateBackground(c)
		cleanTable(c)
	})
	convertChecklists(container)
	pruneEmpty(container)
	collapseWrappers(container)
}

// NormaliseString is a convenience wrapper that parses, applies and
// renders. Markup that fails to parse is returned unmodified.
func (n *Normaliser) NormaliseString(s string) string {
	container, err := markup.ParseFragment(s)
	if err != nil {
		return s
	}
	n.Apply(container)
	out, err := markup.Render(container)
	if err != nil {
		return s
	}
	return out
}

// convertStyleValues rewrites cm, pt and rgb()/rgba() occurrences in
// the element's style attribute to px and 6-digit hex.
func convertStyleValues(c *html.Node) {
	style, ok := markup.Attr(c, "style")
	if !ok {
		return
	}
	markup.SetAttr(c, "style", ConvertUnits(style))
}

// ConvertUnits converts cm and pt lengths to px and rgb()/rgba()
// colours to 6-digit hex within a style value.
func ConvertUnits(style string) string {
	style = cmValue.ReplaceAllStringFunc(style, func(m string) string {
		v, err := strconv.ParseFloat(strings.TrimSuffix(m, "cm"), 64)
		if err != nil {
			return m
		}
		return fmt.Sprintf("%.2fpx", v*pxPerCm)
	})
	style = ptValue.ReplaceAllStringFunc(style, func(m string) string {
		v, err := strconv.ParseFloat(strings.TrimSuffix(m, "pt"), 64)
		if err != nil {
			return m
		}
		return fmt.Sprintf("%.2fpx", v*pxPerPt)
	})
	return rgbValue.ReplaceAllStringFunc(style, ConvertColour)
}

// ConvertColour converts one rgb()/rgba() value to 6-digit hex.
// Unparseable values are returned unchanged.
func ConvertColour(value string) string {
	m := rgbValue.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	r, err1 := strconv.Atoi(m[1])
	g, err2 := strconv.Atoi(m[2])
	b, err3 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil || err3 != nil || r > 255 || g > 255 || b > 255 {
		return value
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// propagateBackground moves background colours onto table cells as a
// dedicated highlight attribute and strips them from everything else.
func propagateBackground(c *html.Node) {
	style, ok := markup.Attr(c, "style")
	if !ok {
		return
	}
	m := bgColour.FindStringSubmatch(style)
	if m == nil {
		return
	}
	colour := strings.TrimSpace(m[1])
	if c.Data == "td" || c.Data == "th" {
		markup.SetAttr(c, "data-highlight-colour", colour)
		return
	}
	cleaned := strings.TrimSpace(bgColour.ReplaceAllString(style, ""))
	if cleaned == "" {
		markup.RemoveAttr(c, "style")
		return
	}
	markup.SetAttr(c, "style", cleaned)
}

// cleanTable strips explicit widths from table elements and marks the
// table for fixed layout.
func cleanTable(c *html.Node) {
	switch c.Data {
	case "table":
		markup.RemoveAttr(c, "width")
		stripWidthDecl(c)
		markup.SetAttr(c, "data-layout", "fixed")
	case "td", "th", "col", "colgroup", "tr":
		markup.RemoveAttr(c, "width")
		stripWidthDecl(c)
	}
}

func stripWidthDecl(c *html.Node) {
	style, ok := markup.Attr(c, "style")
	if !ok {
		return
	}
	cleaned := strings.TrimSpace(widthDecl.ReplaceAllString(style, ""))
	if cleaned == "" {
		markup.RemoveAttr(c, "style")
		return
	}
	markup.SetAttr(c, "style", cleaned)
}

// convertChecklists rewrites lists of checkbox items into the native
// task-list construct. A list qualifies when every item contains a
// checkbox input.
func convertChecklists(container *html.Node) {
	lists := markup.FindAll(container, func(c *html.Node) bool {
		return c.Data == "ul" || c.Data == "ol"
	})
	for _, list := range lists {
		items, ok := checklistItems(list)
		if !ok {
			continue
		}
		markup.Replace(list, markup.TaskList(items))
	}
}

func checklistItems(list *html.Node) ([]markup.TaskItem, bool) {
	var items []markup.TaskItem
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data != "li" {
			return nil, false
		}
		box := findCheckbox(c)
		if box == nil {
			return nil, false
		}
		_, checked := markup.Attr(box, "checked")
		items = append(items, markup.TaskItem{
			Complete: checked,
			Body:     strings.TrimSpace(markup.Text(c)),
		})
	}
	return items, len(items) > 0
}

func findCheckbox(li *html.Node) *html.Node {
	boxes := markup.FindAll(li, func(c *html.Node) bool {
		if c.Data != "input" {
			return false
		}
		t, _ := markup.Attr(c, "type")
		return t == "checkbox"
	})
	if len(boxes) == 0 {
		return nil
	}
	return boxes[0]
}

// pruneEmpty removes non-void elements with no visible text and no
// non-empty children. Macro elements are exempt: an anchor macro is
// legitimately empty. Children are visited before parents so cascades
// of emptied wrappers resolve in one pass.
func pruneEmpty(container *html.Node) {
	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		pruneEmpty(c)
		if removableEmpty(c) {
			container.RemoveChild(c)
		}
		c = next
	}
}

func removableEmpty(c *html.Node) bool {
	if c.Type != html.ElementNode || voidElements[c.Data] || markup.IsMacro(c) {
		return false
	}
	if strings.TrimSpace(markup.Text(c)) != "" {
		return false
	}
	// Anything still attached below survived its own pruning pass and
	// therefore carries content of some kind.
	for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
		if gc.Type == html.ElementNode {
			return false
		}
	}
	return true
}

// collapseWrappers repeatedly unwraps elements whose sole child shares
// the same tag. Each unwrap removes a node, so the loop is bounded by
// document size.
func collapseWrappers(container *html.Node) {
	for {
		changed := false
		wrappers := markup.FindAll(container, soleChildSameTag)
		for _, w := range wrappers {
			child := w.FirstChild
			if child == nil || w.Parent == nil {
				continue
			}
			w.RemoveChild(child)
			markup.Replace(w, child)
			changed = true
		}
		if !changed {
			return
		}
	}
}

func soleChildSameTag(c *html.Node) bool {
	child := c.FirstChild
	if child == nil || child.NextSibling != nil {
		return false
	}
	return child.Type == html.ElementNode && child.Data == c.Data
}
