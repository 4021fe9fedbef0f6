package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-notion-render/internal/logging"
	"github.com/goliatone/go-notion-render/notion"
	"github.com/goliatone/go-notion-render/pkg/interfaces"
)

// RendererOption customizes a Renderer.
type RendererOption func(*Renderer)

// WithResolver supplies the cross-reference resolution table.
func WithResolver(resolver *Resolver) RendererOption {
	return func(r *Renderer) {
		r.resolver = resolver
	}
}

// WithLogger attaches a logger to the renderer.
func WithLogger(logger interfaces.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer converts a validated block tree into HTML fragments. Rendering is
// pure, synchronous recursion: children render before their parent, and no
// state outlives a call apart from the read-only resolver.
type Renderer struct {
	resolver *Resolver
	logger   interfaces.Logger
}

// NewRenderer constructs a Renderer. Without options it renders with an empty
// resolution table and no logging.
func NewRenderer(opts ...RendererOption) *Renderer {
	renderer := &Renderer{
		resolver: NewResolver(nil, ResolverOptions{}),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(renderer)
	}
	return renderer
}

// RenderBlock produces the markup fragment for a single block. The block is
// shape-validated first; a contract violation is fatal to the whole render
// call and names the offending node's id and tag. A well-formed block whose
// tag falls outside the supported set degrades to a comment marker instead.
func (r *Renderer) RenderBlock(block *notion.Block) (string, error) {
	if block == nil {
		return "", ErrNilNode
	}

	if !Known(block.Type) {
		r.logger.Warn("unsupported block type", "block_id", block.ID, "type", block.Type)
		return "<!-- Unsupported block type: " + escapeHTML(block.Type) + " -->", nil
	}

	payload, err := Narrow(block)
	if err != nil {
		return "", err
	}

	switch p := payload.(type) {
	case *Paragraph:
		return r.renderParagraph(block, p)
	case *Heading:
		return r.renderHeading(p), nil
	case *ListItem:
		return r.renderListItem(block, p)
	case *ToDo:
		return r.renderToDo(block, p)
	case *Toggle:
		return r.renderToggle(block, p)
	case *Quote:
		return r.renderQuote(block, p)
	case *Callout:
		return r.renderCallout(block, p)
	case *Code:
		return r.renderCode(p), nil
	case *Media:
		return r.renderMedia(block, p), nil
	case *Embed:
		return r.renderEmbed(p), nil
	case *Equation:
		return `<div class="equation">` + p.Expression + `</div>`, nil
	case *Divider:
		return "<hr />", nil
	case *Table:
		return r.renderTable(block, p)
	case *TableRow:
		// A row outside a table has no layout of its own; the table rule
		// consumes rows directly.
		return `<td>` + RenderSpans(p.Spans, r.resolver) + `</td>`, nil
	case *ColumnList:
		return r.renderColumnList(block)
	case *Column:
		return r.renderColumn(block)
	case *Bookmark:
		return r.renderBookmark(p), nil
	case *LinkPreview:
		return `<a class="link-preview" href="` + escapeHTML(p.URL) + `">` + escapeHTML(p.URL) + `</a>`, nil
	case *ChildPage:
		return r.renderChildPage(block, p), nil
	default:
		return "", fmt.Errorf("render: block %q (%s): no production rule for payload %T", block.ID, block.Type, payload)
	}
}

func (r *Renderer) renderParagraph(block *notion.Block, p *Paragraph) (string, error) {
	var out strings.Builder
	out.WriteString("<p")
	writeColorClass(&out, p.Color)
	out.WriteString(">")
	out.WriteString(RenderSpans(p.Spans, r.resolver))
	out.WriteString("</p>")

	// Indented blocks below a paragraph render after it, unwrapped.
	children, err := r.RenderBlocks(block.Children)
	if err != nil {
		return "", err
	}
	out.WriteString(children)
	return out.String(), nil
}

func (r *Renderer) renderHeading(h *Heading) string {
	tag := "h" + strconv.Itoa(h.Level)

	var out strings.Builder
	out.WriteString("<" + tag)
	if anchor := headingAnchor(h.Spans); anchor != "" {
		out.WriteString(` id="` + anchor + `"`)
	}
	writeColorClass(&out, h.Color)
	out.WriteString(">")
	out.WriteString(RenderSpans(h.Spans, r.resolver))
	out.WriteString("</" + tag + ">")
	return out.String()
}

// headingAnchor derives a stable fragment identifier from the heading text.
func headingAnchor(spans []Span) string {
	text := strings.TrimSpace(PlainText(spans))
	if text == "" {
		return ""
	}
	anchor, err := slug.Normalize(text)
	if err != nil {
		return ""
	}
	return anchor
}

// renderListItem emits one list entry. The enclosing <ul>/<ol> around sibling
// items is the composer's job; only the item's own nested children get a list
// wrapper here, of the same kind as the item.
func (r *Renderer) renderListItem(block *notion.Block, item *ListItem) (string, error) {
	var out strings.Builder
	out.WriteString("<li")
	writeColorClass(&out, item.Color)
	out.WriteString(">")
	out.WriteString(RenderSpans(item.Spans, r.resolver))

	if len(block.Children) > 0 {
		kind := listKindOf(block.Type)
		nested, err := r.renderFragments(block.Children)
		if err != nil {
			return "", err
		}
		out.WriteString(kind.open())
		out.WriteString(nested)
		out.WriteString(kind.close())
	}

	out.WriteString("</li>")
	return out.String(), nil
}

func (r *Renderer) renderToDo(block *notion.Block, todo *ToDo) (string, error) {
	var out strings.Builder
	out.WriteString(`<li class="to-do-item"`)
	writeColorClass(&out, todo.Color)
	out.WriteString(`><input type="checkbox"`)
	if todo.Checked {
		out.WriteString(" checked")
	}
	out.WriteString(" disabled /> ")
	out.WriteString(RenderSpans(todo.Spans, r.resolver))

	if len(block.Children) > 0 {
		nested, err := r.renderFragments(block.Children)
		if err != nil {
			return "", err
		}
		out.WriteString(listToDo.open())
		out.WriteString(nested)
		out.WriteString(listToDo.close())
	}

	out.WriteString("</li>")
	return out.String(), nil
}

func (r *Renderer) renderToggle(block *notion.Block, toggle *Toggle) (string, error) {
	children, err := r.RenderBlocks(block.Children)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString("<details")
	writeColorClass(&out, toggle.Color)
	out.WriteString("><summary>")
	out.WriteString(RenderSpans(toggle.Spans, r.resolver))
	out.WriteString("</summary>")
	out.WriteString(children)
	out.WriteString("</details>")
	return out.String(), nil
}

func (r *Renderer) renderQuote(block *notion.Block, quote *Quote) (string, error) {
	children, err := r.RenderBlocks(block.Children)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString("<blockquote")
	writeColorClass(&out, quote.Color)
	out.WriteString("><p>")
	out.WriteString(RenderSpans(quote.Spans, r.resolver))
	out.WriteString("</p>")
	out.WriteString(children)
	out.WriteString("</blockquote>")
	return out.String(), nil
}

func (r *Renderer) renderCallout(block *notion.Block, callout *Callout) (string, error) {
	children, err := r.RenderBlocks(block.Children)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(`<aside class="callout`)
	if callout.Color != "" && callout.Color != "default" {
		out.WriteString(" notion-color-" + escapeHTML(callout.Color))
	}
	out.WriteString(`">`)
	if callout.Icon != nil {
		if callout.Icon.Emoji != "" {
			out.WriteString(`<span class="callout-icon">` + escapeHTML(callout.Icon.Emoji) + `</span>`)
		} else if callout.Icon.URL != "" {
			out.WriteString(`<img class="callout-icon" src="` + escapeHTML(callout.Icon.URL) + `" alt="" />`)
		}
	}
	out.WriteString("<p>")
	out.WriteString(RenderSpans(callout.Spans, r.resolver))
	out.WriteString("</p>")
	out.WriteString(children)
	out.WriteString("</aside>")
	return out.String(), nil
}

// renderCode emits the literal code text escaped; code content is user text,
// never trusted markup, even when the language is "html".
func (r *Renderer) renderCode(code *Code) string {
	var out strings.Builder
	out.WriteString(`<pre><code class="language-` + escapeHTML(code.Language) + `">`)
	out.WriteString(escapeHTML(PlainText(code.Spans)))
	out.WriteString("</code></pre>")
	if len(code.Caption) > 0 {
		out.WriteString(`<p class="code-caption">` + RenderSpans(code.Caption, r.resolver) + `</p>`)
	}
	return out.String()
}

func (r *Renderer) renderMedia(block *notion.Block, media *Media) string {
	caption := strings.TrimSpace(PlainText(media.Caption))

	var out strings.Builder
	out.WriteString("<figure>")
	switch BlockType(block.Type) {
	case TypeVideo:
		out.WriteString(`<video controls src="` + escapeHTML(media.URL) + `"></video>`)
	default:
		out.WriteString(`<img src="` + escapeHTML(media.URL) + `" alt="` + escapeHTML(caption) + `" />`)
	}
	if len(media.Caption) > 0 {
		out.WriteString("<figcaption>" + RenderSpans(media.Caption, r.resolver) + "</figcaption>")
	}
	out.WriteString("</figure>")
	return out.String()
}

func (r *Renderer) renderEmbed(embed *Embed) string {
	var out strings.Builder
	out.WriteString(`<figure class="embed"><iframe src="` + escapeHTML(embed.URL) + `"></iframe>`)
	if len(embed.Caption) > 0 {
		out.WriteString("<figcaption>" + RenderSpans(embed.Caption, r.resolver) + "</figcaption>")
	}
	out.WriteString("</figure>")
	return out.String()
}

// renderTable regroups the table's flat row children into rows of Width
// cells. Each row child contributes one cell's span sequence.
func (r *Renderer) renderTable(block *notion.Block, table *Table) (string, error) {
	rows := block.Rows
	if len(rows) == 0 {
		// Trees rendered without the fetcher's reshape step keep rows in the
		// generic children list.
		rows = block.Children
	}

	cells := make([]string, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		if BlockType(row.Type) != TypeTableRow {
			return "", &ShapeError{
				NodeID:   row.ID,
				Tag:      row.Type,
				Path:     "type",
				Expected: `"table_row"`,
				Actual:   row.Type,
				Payload:  row.Payload,
			}
		}
		payload, err := Narrow(row)
		if err != nil {
			return "", err
		}
		cells = append(cells, RenderSpans(payload.(*TableRow).Spans, r.resolver))
	}

	var out strings.Builder
	out.WriteString("<table>")
	for start := 0; start < len(cells); start += table.Width {
		end := start + table.Width
		if end > len(cells) {
			end = len(cells)
		}
		header := table.HasColumnHeader && start == 0
		out.WriteString("<tr>")
		for _, cell := range cells[start:end] {
			if header {
				out.WriteString("<th>" + cell + "</th>")
			} else {
				out.WriteString("<td>" + cell + "</td>")
			}
		}
		out.WriteString("</tr>")
	}
	out.WriteString("</table>")
	return out.String(), nil
}

// Column wrappers are pure layout: no children means no output at all.
func (r *Renderer) renderColumnList(block *notion.Block) (string, error) {
	columns := block.Columns
	if len(columns) == 0 {
		columns = block.Children
	}
	if len(columns) == 0 {
		return "", nil
	}

	children, err := r.RenderBlocks(columns)
	if err != nil {
		return "", err
	}
	return `<div class="column-list">` + children + `</div>`, nil
}

func (r *Renderer) renderColumn(block *notion.Block) (string, error) {
	if len(block.Children) == 0 {
		return "", nil
	}

	children, err := r.RenderBlocks(block.Children)
	if err != nil {
		return "", err
	}
	return `<div class="column">` + children + `</div>`, nil
}

// renderBookmark prefers caption spans over the bare URL as link text.
func (r *Renderer) renderBookmark(bookmark *Bookmark) string {
	text := escapeHTML(bookmark.URL)
	if len(bookmark.Caption) > 0 {
		text = RenderSpans(bookmark.Caption, r.resolver)
	}
	return `<a class="bookmark" href="` + escapeHTML(bookmark.URL) + `">` + text + `</a>`
}

// renderChildPage links to the child entry when the resolution table knows
// it, and degrades to a plain marker otherwise.
func (r *Renderer) renderChildPage(block *notion.Block, page *ChildPage) string {
	if slug, ok := r.resolver.Slug(block.ID); ok {
		return `<a class="child-page" href="` + escapeHTML(r.resolver.URL(slug)) + `">` +
			escapeHTML(page.Title) + `</a>`
	}
	return `<span class="child-page">` + escapeHTML(page.Title) + `</span>`
}

// renderFragments renders each block to its own fragment and concatenates
// them without the composer's list-run merging. Used for a list item's nested
// children, which the item wraps itself.
func (r *Renderer) renderFragments(blocks []*notion.Block) (string, error) {
	var out strings.Builder
	for _, block := range blocks {
		fragment, err := r.RenderBlock(block)
		if err != nil {
			return "", err
		}
		out.WriteString(fragment)
	}
	return out.String(), nil
}

func writeColorClass(out *strings.Builder, color string) {
	if color == "" || color == "default" {
		return
	}
	out.WriteString(` class="notion-color-` + escapeHTML(color) + `"`)
}
