package markup

import "golang.org/x/net/html"

// PageLink builds a link to a page by content title within a space.
// An empty linkText falls back to the title.
func PageLink(title, spaceKey, linkText string) *html.Node {
	link := element("ac:link")
	ref := element("ri:page", "ri:content-title", title)
	if spaceKey != "" {
		SetAttr(ref, "ri:space-key", spaceKey)
	}
	link.AppendChild(ref)
	if linkText == "" {
		linkText = title
	}
	body := element("ac:link-body")
	body.AppendChild(text(linkText))
	link.AppendChild(body)
	return link
}

// URLLink builds a plain hyperlink.
func URLLink(url, linkText string) *html.Node {
	a := element("a", "href", url)
	if linkText == "" {
		linkText = url
	}
	a.AppendChild(text(linkText))
	return a
}

// AnchorLink builds a link to an in-page anchor macro.
func AnchorLink(anchor, linkText string) *html.Node {
	link := element("ac:link", "ac:anchor", anchor)
	if linkText != "" {
		body := element("ac:link-body")
		body.AppendChild(text(linkText))
		link.AppendChild(body)
	}
	return link
}

// AnchorMacro builds the anchor-marker macro that AnchorLink targets.
func AnchorMacro(name string) *html.Node {
	macro := element("ac:structured-macro", "ac:name", "anchor")
	param := element("ac:parameter", "ac:name", "")
	param.AppendChild(text(name))
	macro.AppendChild(param)
	return macro
}

// ExpandMacro builds a collapsible section: a visible title and a
// hidden rich-text body. The body markup is parsed as a fragment.
func ExpandMacro(title, bodyMarkup string) (*html.Node, error) {
	macro := element("ac:structured-macro", "ac:name", "expand")
	param := element("ac:parameter", "ac:name", "title")
	param.AppendChild(text(title))
	macro.AppendChild(param)

	rich := element("ac:rich-text-body")
	parsed, err := ParseFragment(bodyMarkup)
	if err != nil {
		return nil, err
	}
	for c := parsed.FirstChild; c != nil; {
		next := c.NextSibling
		parsed.RemoveChild(c)
		rich.AppendChild(c)
		c = next
	}
	macro.AppendChild(rich)
	return macro, nil
}

// IncludeMacro builds a transclusion of another page by title and
// space key.
func IncludeMacro(spaceKey, title string) *html.Node {
	macro := element("ac:structured-macro", "ac:name", "include")
	param := element("ac:parameter", "ac:name", "")
	link := element("ac:link")
	ref := element("ri:page", "ri:content-title", title)
	if spaceKey != "" {
		SetAttr(ref, "ri:space-key", spaceKey)
	}
	link.AppendChild(ref)
	param.AppendChild(link)
	macro.AppendChild(param)
	return macro
}

// ImageEmbed builds an image embed referencing an attachment filename.
func ImageEmbed(filename string) *html.Node {
	img := element("ac:image")
	img.AppendChild(element("ri:attachment", "ri:filename", filename))
	return img
}

// TaskItem is one entry of a task list.
type TaskItem struct {
	Complete bool
	Body     string
}

// TaskList builds a checklist of task items.
func TaskList(items []TaskItem) *html.Node {
	list := element("ac:task-list")
	for _, item := range items {
		task := element("ac:task")
		status := element("ac:task-status")
		if item.Complete {
			status.AppendChild(text("complete"))
		} else {
			status.AppendChild(text("incomplete"))
		}
		body := element("ac:task-body")
		body.AppendChild(text(item.Body))
		task.AppendChild(status)
		task.AppendChild(body)
		list.AppendChild(task)
	}
	return list
}
