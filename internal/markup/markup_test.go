package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, s string) *html.Node {
	t.Helper()
	container, err := ParseFragment(s)
	require.NoError(t, err)
	return container
}

func mustRender(t *testing.T, container *html.Node) string {
	t.Helper()
	out, err := Render(container)
	require.NoError(t, err)
	return out
}

func TestParseFragment_RoundTrip(t *testing.T) {
	in := `<p>Hello <a href="https://example.com">link</a></p><p>bye</p>`
	container := mustParse(t, in)
	assert.Equal(t, in, mustRender(t, container))
}

func TestParseFragment_KeepsMacroElements(t *testing.T) {
	in := `<ac:structured-macro ac:name="anchor"><ac:parameter ac:name="">top</ac:parameter></ac:structured-macro>`
	container := mustParse(t, in)
	assert.Equal(t, in, mustRender(t, container))
}

func TestWalk_VisitorMayDetachVisitedNode(t *testing.T) {
	container := mustParse(t, "<p>a</p><p>b</p><p>c</p>")

	Walk(container, func(n *html.Node) {
		if n.Type == html.TextNode && n.Data == "b" && n.Parent != nil {
			p := n.Parent
			if p.Parent != nil {
				p.Parent.RemoveChild(p)
			}
		}
	})

	assert.Equal(t, "<p>a</p><p>c</p>", mustRender(t, container))
}

func TestFindAll_DocumentOrder(t *testing.T) {
	container := mustParse(t, `<p><a href="1">x</a></p><a href="2">y</a>`)

	anchors := FindAll(container, func(n *html.Node) bool { return n.Data == "a" })
	require.Len(t, anchors, 2)
	href, _ := Attr(anchors[0], "href")
	assert.Equal(t, "1", href)
}

func TestAttrHelpers(t *testing.T) {
	n := element("a", "href", "x")

	v, ok := Attr(n, "href")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	SetAttr(n, "href", "y")
	v, _ = Attr(n, "href")
	assert.Equal(t, "y", v)

	SetAttr(n, "title", "t")
	_, ok = Attr(n, "title")
	assert.True(t, ok)

	RemoveAttr(n, "href")
	_, ok = Attr(n, "href")
	assert.False(t, ok)
}

func TestText_ConcatenatesDescendants(t *testing.T) {
	container := mustParse(t, "<p>Hello <b>big</b> world</p>")
	assert.Equal(t, "Hello big world", Text(container))
}

func TestReplace(t *testing.T) {
	container := mustParse(t, `<p><a data-itemid="d2">there</a></p>`)
	old := FindAll(container, func(n *html.Node) bool { return n.Data == "a" })[0]

	Replace(old, PageLink("OtherDoc", "DOCS", "there"))

	out := mustRender(t, container)
	assert.Contains(t, out, `ri:content-title="OtherDoc"`)
	assert.NotContains(t, out, "data-itemid")
}

func TestIsMacro(t *testing.T) {
	assert.True(t, IsMacro(element("ac:image")))
	assert.True(t, IsMacro(element("ri:page")))
	assert.True(t, IsMacro(element("ri:attachment")))
	assert.False(t, IsMacro(element("p")))
	assert.False(t, IsMacro(text("ac:image")))
}

func TestPageLink_Render(t *testing.T) {
	out, err := RenderNode(PageLink("OtherDoc", "DOCS", "there"))
	require.NoError(t, err)
	assert.Equal(t,
		`<ac:link><ri:page ri:content-title="OtherDoc" ri:space-key="DOCS"></ri:page><ac:link-body>there</ac:link-body></ac:link>`,
		out)
}

func TestPageLink_EmptyLinkTextFallsBackToTitle(t *testing.T) {
	out, err := RenderNode(PageLink("OtherDoc", "", ""))
	require.NoError(t, err)
	assert.Contains(t, out, "<ac:link-body>OtherDoc</ac:link-body>")
	assert.NotContains(t, out, "ri:space-key")
}

func TestURLLink_Render(t *testing.T) {
	out, err := RenderNode(URLLink("https://example.com", "site"))
	require.NoError(t, err)
	assert.Equal(t, `<a href="https://example.com">site</a>`, out)
}

func TestAnchorLink_Render(t *testing.T) {
	out, err := RenderNode(AnchorLink("sec2", "Section two"))
	require.NoError(t, err)
	assert.Equal(t,
		`<ac:link ac:anchor="sec2"><ac:link-body>Section two</ac:link-body></ac:link>`,
		out)
}

func TestAnchorMacro_Render(t *testing.T) {
	out, err := RenderNode(AnchorMacro("sec2"))
	require.NoError(t, err)
	assert.Equal(t,
		`<ac:structured-macro ac:name="anchor"><ac:parameter ac:name="">sec2</ac:parameter></ac:structured-macro>`,
		out)
}

func TestExpandMacro_ParsesBodyMarkup(t *testing.T) {
	macro, err := ExpandMacro("More", "<p>hidden <b>rich</b> text</p>")
	require.NoError(t, err)

	out, err := RenderNode(macro)
	require.NoError(t, err)
	assert.Contains(t, out, `<ac:parameter ac:name="title">More</ac:parameter>`)
	assert.Contains(t, out, `<ac:rich-text-body><p>hidden <b>rich</b> text</p></ac:rich-text-body>`)
}

func TestIncludeMacro_Render(t *testing.T) {
	out, err := RenderNode(IncludeMacro("HUB", "Shared intro"))
	require.NoError(t, err)
	assert.Contains(t, out, `ac:name="include"`)
	assert.Contains(t, out, `ri:content-title="Shared intro"`)
	assert.Contains(t, out, `ri:space-key="HUB"`)
}

func TestImageEmbed_Render(t *testing.T) {
	out, err := RenderNode(ImageEmbed("diagram.png"))
	require.NoError(t, err)
	assert.Equal(t, `<ac:image><ri:attachment ri:filename="diagram.png"></ri:attachment></ac:image>`, out)
}

func TestTaskList_Render(t *testing.T) {
	out, err := RenderNode(TaskList([]TaskItem{
		{Complete: true, Body: "done thing"},
		{Complete: false, Body: "open thing"},
	}))
	require.NoError(t, err)
	assert.Contains(t, out, "<ac:task-status>complete</ac:task-status>")
	assert.Contains(t, out, "<ac:task-status>incomplete</ac:task-status>")
	assert.Contains(t, out, "<ac:task-body>open thing</ac:task-body>")
}
