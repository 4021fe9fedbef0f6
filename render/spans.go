package render

import "strings"

// htmlEscaper covers the five characters that must never appear unescaped in
// generated text content or attribute values.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// RenderSpans converts an ordered span sequence into a concatenated markup
// string. No enclosing wrapper is emitted; block-level wrapping is the
// caller's responsibility. An empty sequence renders to the empty string.
func RenderSpans(spans []Span, resolver *Resolver) string {
	if len(spans) == 0 {
		return ""
	}

	var out strings.Builder
	for _, span := range spans {
		out.WriteString(renderSpan(span, resolver))
	}
	return out.String()
}

func renderSpan(span Span, resolver *Resolver) string {
	switch span.Type {
	case SpanMention:
		return renderMention(span, resolver)
	case SpanEquation:
		// Equation source is trusted markup, not user text.
		return `<span class="equation">` + span.Expression + `</span>`
	default:
		return renderTextSpan(span)
	}
}

// renderTextSpan applies style wrappers in a fixed nesting order: bold,
// italic, strikethrough, underline, monospace, color. A hyperlink target
// wraps the fully styled result last, so the link is outermost.
func renderTextSpan(span Span) string {
	out := escapeHTML(span.Text)

	a := span.Annotations
	if a.Bold {
		out = "<strong>" + out + "</strong>"
	}
	if a.Italic {
		out = "<em>" + out + "</em>"
	}
	if a.Strikethrough {
		out = "<del>" + out + "</del>"
	}
	if a.Underline {
		out = `<span class="underline">` + out + `</span>`
	}
	if a.Code {
		out = "<code>" + out + "</code>"
	}
	if a.Color != "" && a.Color != "default" {
		out = `<span class="notion-color-` + escapeHTML(a.Color) + `">` + out + `</span>`
	}
	if span.Href != "" {
		out = `<a href="` + escapeHTML(span.Href) + `">` + out + `</a>`
	}
	return out
}

func renderMention(span Span, resolver *Resolver) string {
	mention := span.Mention
	if mention == nil {
		return renderTextSpan(span)
	}

	switch mention.Type {
	case MentionPage:
		if slug, ok := resolver.Slug(mention.PageID); ok {
			return `<a href="` + escapeHTML(resolver.URL(slug)) + `">` + escapeHTML(span.Text) + `</a>`
		}
		// The target is not part of this run; expose the raw identifier as
		// diagnostic data and keep rendering.
		return `<span class="unresolved-mention" data-page-id="` + escapeHTML(mention.PageID) + `">` +
			escapeHTML(span.Text) + `</span>`

	case MentionUser:
		name := mention.UserName
		if name == "" {
			name = span.Text
		}
		if name == "" {
			name = "unknown"
		}
		return `<span class="user-mention">@` + escapeHTML(name) + `</span>`

	case MentionDate:
		return renderDateMention(mention.Date)

	default:
		return renderTextSpan(span)
	}
}

// renderDateMention emits a machine-readable time element carrying the start
// instant, appending the end and zone to the visible text when present.
func renderDateMention(date *DateRange) string {
	if date == nil || date.Start == "" {
		return ""
	}

	text := date.Start
	if date.End != "" {
		text += " - " + date.End
	}
	if date.TimeZone != "" {
		text += " (" + date.TimeZone + ")"
	}
	return `<time datetime="` + escapeHTML(date.Start) + `">` + escapeHTML(text) + `</time>`
}

// PlainText flattens a span sequence to its unstyled literal text. Used for
// alt attributes and slug anchors.
func PlainText(spans []Span) string {
	var out strings.Builder
	for _, span := range spans {
		if span.Type == SpanEquation && span.Text == "" {
			out.WriteString(span.Expression)
			continue
		}
		out.WriteString(span.Text)
	}
	return out.String()
}
