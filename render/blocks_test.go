package render

import (
	"strings"
	"testing"

	"github.com/goliatone/go-notion-render/notion"
)

func textItem(content string) map[string]any {
	return map[string]any{
		"type":       "text",
		"plain_text": content,
		"text":       map[string]any{"content": content},
	}
}

func richText(contents ...string) []any {
	items := make([]any, 0, len(contents))
	for _, content := range contents {
		items = append(items, textItem(content))
	}
	return items
}

func block(id, tag string, payload map[string]any) *notion.Block {
	return &notion.Block{ID: id, Type: tag, Payload: payload}
}

func TestRenderBlock_Paragraph(t *testing.T) {
	renderer := NewRenderer()
	node := block("b1", "paragraph", map[string]any{"rich_text": richText("Hello World")})

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != "<p>Hello World</p>" {
		t.Fatalf("paragraph mismatch, got %q", got)
	}
}

func TestRenderBlock_ParagraphWithColor(t *testing.T) {
	renderer := NewRenderer()
	node := block("b1", "paragraph", map[string]any{
		"rich_text": richText("x"),
		"color":     "blue",
	})

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<p class="notion-color-blue">x</p>` {
		t.Fatalf("colored paragraph mismatch, got %q", got)
	}
}

func TestRenderBlock_Headings(t *testing.T) {
	renderer := NewRenderer()
	cases := []struct {
		tag  string
		want string
	}{
		{"heading_1", `<h1 id="section-title">Section Title</h1>`},
		{"heading_2", `<h2 id="section-title">Section Title</h2>`},
		{"heading_3", `<h3 id="section-title">Section Title</h3>`},
	}
	for _, tc := range cases {
		node := block("h", tc.tag, map[string]any{"rich_text": richText("Section Title")})
		got, err := renderer.RenderBlock(node)
		if err != nil {
			t.Fatalf("%s: %v", tc.tag, err)
		}
		if got != tc.want {
			t.Fatalf("%s mismatch:\n got %q\nwant %q", tc.tag, got, tc.want)
		}
	}
}

func TestRenderBlock_ImageWithCaption(t *testing.T) {
	renderer := NewRenderer()
	node := block("img", "image", map[string]any{
		"type":     "external",
		"external": map[string]any{"url": "https://x/img.png"},
		"caption":  richText("Cap"),
	})

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	want := `<figure><img src="https://x/img.png" alt="Cap" /><figcaption>Cap</figcaption></figure>`
	if got != want {
		t.Fatalf("image mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRenderBlock_ImageWithoutCaptionOmitsFigcaption(t *testing.T) {
	renderer := NewRenderer()
	node := block("img", "image", map[string]any{
		"type": "file",
		"file": map[string]any{"url": "https://files/img.png"},
	})

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if strings.Contains(got, "figcaption") {
		t.Fatalf("absent caption must omit the caption element entirely, got %q", got)
	}
	if got != `<figure><img src="https://files/img.png" alt="" /></figure>` {
		t.Fatalf("hosted file image mismatch, got %q", got)
	}
}

func TestRenderBlock_Video(t *testing.T) {
	renderer := NewRenderer()
	node := block("v", "video", map[string]any{
		"type":     "external",
		"external": map[string]any{"url": "https://x/clip.mp4"},
	})

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<figure><video controls src="https://x/clip.mp4"></video></figure>` {
		t.Fatalf("video mismatch, got %q", got)
	}
}

func TestRenderBlock_CodeEscapesContent(t *testing.T) {
	renderer := NewRenderer()
	node := block("c", "code", map[string]any{
		"rich_text": richText("if a < b && c > d {"),
		"language":  "go",
	})

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	want := `<pre><code class="language-go">if a &lt; b &amp;&amp; c &gt; d {</code></pre>`
	if got != want {
		t.Fatalf("code mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRenderBlock_UnsupportedTagSoftFails(t *testing.T) {
	renderer := NewRenderer()
	node := block("u", "unsupported_type", nil)

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("unsupported tag must not abort, got %v", err)
	}
	if got != "<!-- Unsupported block type: unsupported_type -->" {
		t.Fatalf("soft-fail marker mismatch, got %q", got)
	}
}

func TestRenderBlock_Divider(t *testing.T) {
	renderer := NewRenderer()
	got, err := renderer.RenderBlock(block("d", "divider", nil))
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != "<hr />" {
		t.Fatalf("divider mismatch, got %q", got)
	}
}

func TestRenderBlock_ToggleWithEmptyChildren(t *testing.T) {
	renderer := NewRenderer()
	node := block("t", "toggle", map[string]any{"rich_text": richText("More")})

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != "<details><summary>More</summary></details>" {
		t.Fatalf("toggle mismatch, got %q", got)
	}
}

func TestRenderBlock_QuoteWithChildren(t *testing.T) {
	renderer := NewRenderer()
	node := block("q", "quote", map[string]any{"rich_text": richText("Wise words")})
	node.Children = []*notion.Block{
		block("q1", "paragraph", map[string]any{"rich_text": richText("elaboration")}),
	}

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	want := "<blockquote><p>Wise words</p><p>elaboration</p></blockquote>"
	if got != want {
		t.Fatalf("quote mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRenderBlock_CalloutWithEmojiIcon(t *testing.T) {
	renderer := NewRenderer()
	node := block("c", "callout", map[string]any{
		"rich_text": richText("Watch out"),
		"icon":      map[string]any{"type": "emoji", "emoji": "⚠️"},
	})

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	want := `<aside class="callout"><span class="callout-icon">⚠️</span><p>Watch out</p></aside>`
	if got != want {
		t.Fatalf("callout mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRenderBlock_BulletedItemWrapsOwnChildren(t *testing.T) {
	renderer := NewRenderer()
	node := block("li", "bulleted_list_item", map[string]any{"rich_text": richText("parent")})
	node.Children = []*notion.Block{
		block("li2", "bulleted_list_item", map[string]any{"rich_text": richText("child")}),
	}

	got, err := renderer.RenderBlock(node)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	want := "<li>parent<ul><li>child</li></ul></li>"
	if got != want {
		t.Fatalf("nested list mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRenderBlock_ToDoCheckedState(t *testing.T) {
	renderer := NewRenderer()

	unchecked := block("t1", "to_do", map[string]any{"rich_text": richText("later")})
	got, err := renderer.RenderBlock(unchecked)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<li class="to-do-item"><input type="checkbox" disabled /> later</li>` {
		t.Fatalf("unchecked item mismatch, got %q", got)
	}

	checked := block("t2", "to_do", map[string]any{"rich_text": richText("done"), "checked": true})
	got, err = renderer.RenderBlock(checked)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<li class="to-do-item"><input type="checkbox" checked disabled /> done</li>` {
		t.Fatalf("checked item mismatch, got %q", got)
	}
}

func TestRenderBlock_TableRegroupsRowsByWidth(t *testing.T) {
	renderer := NewRenderer()
	table := block("tb", "table", map[string]any{"table_width": float64(2)})
	table.Rows = []*notion.Block{
		block("r1", "table_row", map[string]any{"cells": richText("a")}),
		block("r2", "table_row", map[string]any{"cells": richText("b")}),
		block("r3", "table_row", map[string]any{"cells": richText("c")}),
		block("r4", "table_row", map[string]any{"cells": richText("d")}),
	}

	got, err := renderer.RenderBlock(table)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if n := strings.Count(got, "<tr>"); n != 2 {
		t.Fatalf("expected exactly 2 row elements, got %d in %q", n, got)
	}
	if n := strings.Count(got, "<td>"); n != 4 {
		t.Fatalf("expected 4 cell elements, got %d in %q", n, got)
	}
	want := "<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>"
	if got != want {
		t.Fatalf("table mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRenderBlock_TableColumnHeader(t *testing.T) {
	renderer := NewRenderer()
	table := block("tb", "table", map[string]any{
		"table_width":       float64(2),
		"has_column_header": true,
	})
	table.Rows = []*notion.Block{
		block("r1", "table_row", map[string]any{"cells": richText("h1")}),
		block("r2", "table_row", map[string]any{"cells": richText("h2")}),
		block("r3", "table_row", map[string]any{"cells": richText("v1")}),
		block("r4", "table_row", map[string]any{"cells": richText("v2")}),
	}

	got, err := renderer.RenderBlock(table)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if n := strings.Count(got, "<th>"); n != 2 {
		t.Fatalf("expected 2 header cells, got %d in %q", n, got)
	}
	if n := strings.Count(got, "<td>"); n != 2 {
		t.Fatalf("expected 2 body cells, got %d in %q", n, got)
	}
}

func TestRenderBlock_ColumnListWithoutChildrenRendersNothing(t *testing.T) {
	renderer := NewRenderer()
	got, err := renderer.RenderBlock(block("cl", "column_list", nil))
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != "" {
		t.Fatalf("layout wrapper without children must render nothing, got %q", got)
	}
}

func TestRenderBlock_ColumnLayout(t *testing.T) {
	renderer := NewRenderer()
	column := block("c1", "column", nil)
	column.Children = []*notion.Block{
		block("p1", "paragraph", map[string]any{"rich_text": richText("left")}),
	}
	list := block("cl", "column_list", nil)
	list.Columns = []*notion.Block{column}

	got, err := renderer.RenderBlock(list)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	want := `<div class="column-list"><div class="column"><p>left</p></div></div>`
	if got != want {
		t.Fatalf("column layout mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRenderBlock_BookmarkPrefersCaption(t *testing.T) {
	renderer := NewRenderer()

	bare := block("b1", "bookmark", map[string]any{"url": "https://example.com"})
	got, err := renderer.RenderBlock(bare)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<a class="bookmark" href="https://example.com">https://example.com</a>` {
		t.Fatalf("bare bookmark mismatch, got %q", got)
	}

	captioned := block("b2", "bookmark", map[string]any{
		"url":     "https://example.com",
		"caption": richText("Example site"),
	})
	got, err = renderer.RenderBlock(captioned)
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<a class="bookmark" href="https://example.com">Example site</a>` {
		t.Fatalf("captioned bookmark mismatch, got %q", got)
	}
}

func TestRenderBlock_LinkPreview(t *testing.T) {
	renderer := NewRenderer()
	got, err := renderer.RenderBlock(block("lp", "link_preview", map[string]any{"url": "https://example.com"}))
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<a class="link-preview" href="https://example.com">https://example.com</a>` {
		t.Fatalf("link preview mismatch, got %q", got)
	}
}

func TestRenderBlock_EquationBlockIsTrusted(t *testing.T) {
	renderer := NewRenderer()
	got, err := renderer.RenderBlock(block("eq", "equation", map[string]any{"expression": `\sum_{i<n} i`}))
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<div class="equation">\sum_{i<n} i</div>` {
		t.Fatalf("equation block mismatch, got %q", got)
	}
}

func TestRenderBlock_ChildPageUsesResolver(t *testing.T) {
	resolver := NewResolver(map[string]string{"cp": "child-post"}, ResolverOptions{})
	renderer := NewRenderer(WithResolver(resolver))

	got, err := renderer.RenderBlock(block("cp", "child_page", map[string]any{"title": "Child"}))
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<a class="child-page" href="/posts/child-post/">Child</a>` {
		t.Fatalf("resolved child page mismatch, got %q", got)
	}

	got, err = renderer.RenderBlock(block("other", "child_page", map[string]any{"title": "Orphan"}))
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if got != `<span class="child-page">Orphan</span>` {
		t.Fatalf("unresolved child page mismatch, got %q", got)
	}
}

func TestRenderBlock_ShapeFailureNamesNodeAndTag(t *testing.T) {
	renderer := NewRenderer()
	node := block("broken-node", "paragraph", map[string]any{"color": "red"})

	_, err := renderer.RenderBlock(node)
	if err == nil {
		t.Fatalf("expected shape validation failure")
	}
	if !strings.Contains(err.Error(), "broken-node") {
		t.Fatalf("error must name the node id, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "paragraph") {
		t.Fatalf("error must name the tag, got %q", err.Error())
	}
}
