package render

import (
	"fmt"

	"github.com/goliatone/go-notion-render/notion"
)

// contract narrows one tag's raw payload into its typed form, or reports the
// first structural mismatch as a *ShapeError.
type contract func(shape, map[string]any) (any, error)

// contracts maps every member of the closed tag set to its structural
// contract. A tag missing here is not a supported block type.
var contracts = map[BlockType]contract{
	TypeParagraph:        paragraphContract,
	TypeHeading1:         headingContract(1),
	TypeHeading2:         headingContract(2),
	TypeHeading3:         headingContract(3),
	TypeBulletedListItem: listItemContract,
	TypeNumberedListItem: listItemContract,
	TypeToDo:             toDoContract,
	TypeToggle:           toggleContract,
	TypeQuote:            quoteContract,
	TypeCallout:          calloutContract,
	TypeCode:             codeContract,
	TypeImage:            mediaContract,
	TypeVideo:            mediaContract,
	TypeEmbed:            embedContract,
	TypeEquation:         equationContract,
	TypeDivider:          emptyContract(func() any { return &Divider{} }),
	TypeTable:            tableContract,
	TypeTableRow:         tableRowContract,
	TypeColumnList:       emptyContract(func() any { return &ColumnList{} }),
	TypeColumn:           emptyContract(func() any { return &Column{} }),
	TypeBookmark:         bookmarkContract,
	TypeLinkPreview:      linkPreviewContract,
	TypeChildPage:        childPageContract,
}

// Known reports whether the tag belongs to the closed supported set.
func Known(tag string) bool {
	_, ok := contracts[BlockType(tag)]
	return ok
}

// Narrow validates a block's payload against its declared tag's contract and
// returns the typed payload. Validation is lazy: it runs per node, right
// before that node renders, so a malformed node in an unvisited branch never
// blocks its unrelated siblings.
func Narrow(block *notion.Block) (any, error) {
	if block == nil {
		return nil, ErrNilNode
	}
	narrower, ok := contracts[BlockType(block.Type)]
	if !ok {
		return nil, &ShapeError{
			NodeID:   block.ID,
			Tag:      block.Type,
			Path:     "type",
			Expected: "a supported block type",
			Actual:   block.Type,
			Payload:  block.Payload,
		}
	}

	payload := block.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return narrower(shape{node: block}, payload)
}

// shape carries the node under validation so helpers can produce precise
// diagnostics without threading identifiers through every call.
type shape struct {
	node *notion.Block
}

func (s shape) root() string {
	return s.node.Type
}

func (s shape) fail(path, expected string, actual any) error {
	return &ShapeError{
		NodeID:   s.node.ID,
		Tag:      s.node.Type,
		Path:     path,
		Expected: expected,
		Actual:   actual,
		Payload:  s.node.Payload,
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func (s shape) requiredString(m map[string]any, path, key string) (string, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return "", s.fail(join(path, key), "string", nil)
	}
	str, ok := value.(string)
	if !ok {
		return "", s.fail(join(path, key), "string", value)
	}
	return str, nil
}

// optionalString treats both absence and JSON null as "not set".
func (s shape) optionalString(m map[string]any, path, key string) (string, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return "", nil
	}
	str, ok := value.(string)
	if !ok {
		return "", s.fail(join(path, key), "string", value)
	}
	return str, nil
}

func (s shape) optionalBool(m map[string]any, path, key string) (bool, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return false, nil
	}
	b, ok := value.(bool)
	if !ok {
		return false, s.fail(join(path, key), "boolean", value)
	}
	return b, nil
}

func (s shape) requiredNumber(m map[string]any, path, key string) (float64, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return 0, s.fail(join(path, key), "number", nil)
	}
	num, ok := value.(float64)
	if !ok {
		return 0, s.fail(join(path, key), "number", value)
	}
	return num, nil
}

func (s shape) requiredArray(m map[string]any, path, key string) ([]any, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return nil, s.fail(join(path, key), "array", nil)
	}
	arr, ok := value.([]any)
	if !ok {
		return nil, s.fail(join(path, key), "array", value)
	}
	return arr, nil
}

func (s shape) requiredObject(m map[string]any, path, key string) (map[string]any, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return nil, s.fail(join(path, key), "object", nil)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, s.fail(join(path, key), "object", value)
	}
	return obj, nil
}

func (s shape) optionalObject(m map[string]any, path, key string) (map[string]any, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return nil, nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, s.fail(join(path, key), "object", value)
	}
	return obj, nil
}

// requiredSpans parses a rich text array field into spans.
func (s shape) requiredSpans(m map[string]any, path, key string) ([]Span, error) {
	arr, err := s.requiredArray(m, path, key)
	if err != nil {
		return nil, err
	}
	return s.parseSpans(arr, join(path, key))
}

// optionalSpans parses a rich text array field that may be absent.
func (s shape) optionalSpans(m map[string]any, path, key string) ([]Span, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return nil, nil
	}
	arr, ok := value.([]any)
	if !ok {
		return nil, s.fail(join(path, key), "array", value)
	}
	return s.parseSpans(arr, join(path, key))
}

func (s shape) parseSpans(items []any, path string) ([]Span, error) {
	spans := make([]Span, 0, len(items))
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, s.fail(itemPath, "object", item)
		}
		span, err := s.parseSpan(obj, itemPath)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	return spans, nil
}

func (s shape) parseSpan(obj map[string]any, path string) (Span, error) {
	kind, err := s.requiredString(obj, path, "type")
	if err != nil {
		return Span{}, err
	}

	plain, err := s.optionalString(obj, path, "plain_text")
	if err != nil {
		return Span{}, err
	}
	href, err := s.optionalString(obj, path, "href")
	if err != nil {
		return Span{}, err
	}

	annotations, err := s.parseAnnotations(obj, path)
	if err != nil {
		return Span{}, err
	}

	switch kind {
	case "text":
		text, err := s.requiredObject(obj, path, "text")
		if err != nil {
			return Span{}, err
		}
		content, err := s.requiredString(text, join(path, "text"), "content")
		if err != nil {
			return Span{}, err
		}
		link, err := s.optionalObject(text, join(path, "text"), "link")
		if err != nil {
			return Span{}, err
		}
		if link != nil {
			url, err := s.requiredString(link, join(path, "text.link"), "url")
			if err != nil {
				return Span{}, err
			}
			href = url
		}
		return Span{
			Type:        SpanText,
			Text:        content,
			Href:        href,
			Annotations: annotations,
		}, nil

	case "mention":
		mention, err := s.parseMention(obj, path)
		if err != nil {
			return Span{}, err
		}
		return Span{
			Type:        SpanMention,
			Text:        plain,
			Href:        href,
			Annotations: annotations,
			Mention:     mention,
		}, nil

	case "equation":
		eq, err := s.requiredObject(obj, path, "equation")
		if err != nil {
			return Span{}, err
		}
		expression, err := s.requiredString(eq, join(path, "equation"), "expression")
		if err != nil {
			return Span{}, err
		}
		return Span{
			Type:        SpanEquation,
			Text:        plain,
			Annotations: annotations,
			Expression:  expression,
		}, nil

	default:
		return Span{}, s.fail(join(path, "type"), `"text", "mention" or "equation"`, kind)
	}
}

func (s shape) parseAnnotations(obj map[string]any, path string) (Annotations, error) {
	raw, err := s.optionalObject(obj, path, "annotations")
	if err != nil {
		return Annotations{}, err
	}
	if raw == nil {
		return Annotations{}, nil
	}

	annotationsPath := join(path, "annotations")
	var out Annotations
	if out.Bold, err = s.optionalBool(raw, annotationsPath, "bold"); err != nil {
		return Annotations{}, err
	}
	if out.Italic, err = s.optionalBool(raw, annotationsPath, "italic"); err != nil {
		return Annotations{}, err
	}
	if out.Strikethrough, err = s.optionalBool(raw, annotationsPath, "strikethrough"); err != nil {
		return Annotations{}, err
	}
	if out.Underline, err = s.optionalBool(raw, annotationsPath, "underline"); err != nil {
		return Annotations{}, err
	}
	if out.Code, err = s.optionalBool(raw, annotationsPath, "code"); err != nil {
		return Annotations{}, err
	}
	if out.Color, err = s.optionalString(raw, annotationsPath, "color"); err != nil {
		return Annotations{}, err
	}
	return out, nil
}

func (s shape) parseMention(obj map[string]any, path string) (*Mention, error) {
	raw, err := s.requiredObject(obj, path, "mention")
	if err != nil {
		return nil, err
	}
	mentionPath := join(path, "mention")

	kind, err := s.requiredString(raw, mentionPath, "type")
	if err != nil {
		return nil, err
	}

	switch MentionType(kind) {
	case MentionPage:
		page, err := s.requiredObject(raw, mentionPath, "page")
		if err != nil {
			return nil, err
		}
		id, err := s.requiredString(page, join(mentionPath, "page"), "id")
		if err != nil {
			return nil, err
		}
		return &Mention{Type: MentionPage, PageID: id}, nil

	case MentionUser:
		user, err := s.optionalObject(raw, mentionPath, "user")
		if err != nil {
			return nil, err
		}
		mention := &Mention{Type: MentionUser}
		if user != nil {
			if mention.UserID, err = s.optionalString(user, join(mentionPath, "user"), "id"); err != nil {
				return nil, err
			}
			if mention.UserName, err = s.optionalString(user, join(mentionPath, "user"), "name"); err != nil {
				return nil, err
			}
		}
		return mention, nil

	case MentionDate:
		date, err := s.requiredObject(raw, mentionPath, "date")
		if err != nil {
			return nil, err
		}
		datePath := join(mentionPath, "date")
		rangeValue := &DateRange{}
		if rangeValue.Start, err = s.requiredString(date, datePath, "start"); err != nil {
			return nil, err
		}
		if rangeValue.End, err = s.optionalString(date, datePath, "end"); err != nil {
			return nil, err
		}
		if rangeValue.TimeZone, err = s.optionalString(date, datePath, "time_zone"); err != nil {
			return nil, err
		}
		return &Mention{Type: MentionDate, Date: rangeValue}, nil

	default:
		// Other mention kinds (database, template, link preview) degrade to
		// a plain-text placeholder downstream.
		return &Mention{Type: MentionType(kind)}, nil
	}
}

// Per-tag contracts. Unknown extra payload fields are ignored throughout.

func paragraphContract(s shape, m map[string]any) (any, error) {
	spans, err := s.requiredSpans(m, s.root(), "rich_text")
	if err != nil {
		return nil, err
	}
	color, err := s.optionalString(m, s.root(), "color")
	if err != nil {
		return nil, err
	}
	return &Paragraph{Spans: spans, Color: color}, nil
}

func headingContract(level int) contract {
	return func(s shape, m map[string]any) (any, error) {
		spans, err := s.requiredSpans(m, s.root(), "rich_text")
		if err != nil {
			return nil, err
		}
		color, err := s.optionalString(m, s.root(), "color")
		if err != nil {
			return nil, err
		}
		if _, err := s.optionalBool(m, s.root(), "is_toggleable"); err != nil {
			return nil, err
		}
		return &Heading{Level: level, Spans: spans, Color: color}, nil
	}
}

func listItemContract(s shape, m map[string]any) (any, error) {
	spans, err := s.requiredSpans(m, s.root(), "rich_text")
	if err != nil {
		return nil, err
	}
	color, err := s.optionalString(m, s.root(), "color")
	if err != nil {
		return nil, err
	}
	return &ListItem{Spans: spans, Color: color}, nil
}

func toDoContract(s shape, m map[string]any) (any, error) {
	spans, err := s.requiredSpans(m, s.root(), "rich_text")
	if err != nil {
		return nil, err
	}
	checked, err := s.optionalBool(m, s.root(), "checked")
	if err != nil {
		return nil, err
	}
	color, err := s.optionalString(m, s.root(), "color")
	if err != nil {
		return nil, err
	}
	return &ToDo{Spans: spans, Checked: checked, Color: color}, nil
}

func toggleContract(s shape, m map[string]any) (any, error) {
	spans, err := s.requiredSpans(m, s.root(), "rich_text")
	if err != nil {
		return nil, err
	}
	color, err := s.optionalString(m, s.root(), "color")
	if err != nil {
		return nil, err
	}
	return &Toggle{Spans: spans, Color: color}, nil
}

func quoteContract(s shape, m map[string]any) (any, error) {
	spans, err := s.requiredSpans(m, s.root(), "rich_text")
	if err != nil {
		return nil, err
	}
	color, err := s.optionalString(m, s.root(), "color")
	if err != nil {
		return nil, err
	}
	return &Quote{Spans: spans, Color: color}, nil
}

func calloutContract(s shape, m map[string]any) (any, error) {
	spans, err := s.requiredSpans(m, s.root(), "rich_text")
	if err != nil {
		return nil, err
	}
	color, err := s.optionalString(m, s.root(), "color")
	if err != nil {
		return nil, err
	}

	icon, err := s.optionalObject(m, s.root(), "icon")
	if err != nil {
		return nil, err
	}
	callout := &Callout{Spans: spans, Color: color}
	if icon != nil {
		iconPath := join(s.root(), "icon")
		kind, err := s.requiredString(icon, iconPath, "type")
		if err != nil {
			return nil, err
		}
		switch kind {
		case "emoji":
			emoji, err := s.requiredString(icon, iconPath, "emoji")
			if err != nil {
				return nil, err
			}
			callout.Icon = &Icon{Emoji: emoji}
		case "external", "file":
			source, err := s.requiredObject(icon, iconPath, kind)
			if err != nil {
				return nil, err
			}
			url, err := s.requiredString(source, join(iconPath, kind), "url")
			if err != nil {
				return nil, err
			}
			callout.Icon = &Icon{URL: url}
		default:
			return nil, s.fail(join(iconPath, "type"), `"emoji", "external" or "file"`, kind)
		}
	}
	return callout, nil
}

func codeContract(s shape, m map[string]any) (any, error) {
	spans, err := s.requiredSpans(m, s.root(), "rich_text")
	if err != nil {
		return nil, err
	}
	language, err := s.requiredString(m, s.root(), "language")
	if err != nil {
		return nil, err
	}
	caption, err := s.optionalSpans(m, s.root(), "caption")
	if err != nil {
		return nil, err
	}
	return &Code{Spans: spans, Caption: caption, Language: language}, nil
}

// mediaContract covers image and video payloads: the URL lives under
// whichever of the external or hosted-file variants the source declares.
func mediaContract(s shape, m map[string]any) (any, error) {
	kind, err := s.requiredString(m, s.root(), "type")
	if err != nil {
		return nil, err
	}
	if kind != "external" && kind != "file" {
		return nil, s.fail(join(s.root(), "type"), `"external" or "file"`, kind)
	}

	source, err := s.requiredObject(m, s.root(), kind)
	if err != nil {
		return nil, err
	}
	url, err := s.requiredString(source, join(s.root(), kind), "url")
	if err != nil {
		return nil, err
	}
	caption, err := s.optionalSpans(m, s.root(), "caption")
	if err != nil {
		return nil, err
	}
	return &Media{URL: url, Caption: caption}, nil
}

func embedContract(s shape, m map[string]any) (any, error) {
	url, err := s.requiredString(m, s.root(), "url")
	if err != nil {
		return nil, err
	}
	caption, err := s.optionalSpans(m, s.root(), "caption")
	if err != nil {
		return nil, err
	}
	return &Embed{URL: url, Caption: caption}, nil
}

func equationContract(s shape, m map[string]any) (any, error) {
	expression, err := s.requiredString(m, s.root(), "expression")
	if err != nil {
		return nil, err
	}
	return &Equation{Expression: expression}, nil
}

func tableContract(s shape, m map[string]any) (any, error) {
	width, err := s.requiredNumber(m, s.root(), "table_width")
	if err != nil {
		return nil, err
	}
	if width < 1 {
		return nil, s.fail(join(s.root(), "table_width"), "number >= 1", width)
	}
	columnHeader, err := s.optionalBool(m, s.root(), "has_column_header")
	if err != nil {
		return nil, err
	}
	rowHeader, err := s.optionalBool(m, s.root(), "has_row_header")
	if err != nil {
		return nil, err
	}
	return &Table{
		Width:           int(width),
		HasColumnHeader: columnHeader,
		HasRowHeader:    rowHeader,
	}, nil
}

func tableRowContract(s shape, m map[string]any) (any, error) {
	spans, err := s.requiredSpans(m, s.root(), "cells")
	if err != nil {
		return nil, err
	}
	return &TableRow{Spans: spans}, nil
}

func bookmarkContract(s shape, m map[string]any) (any, error) {
	url, err := s.requiredString(m, s.root(), "url")
	if err != nil {
		return nil, err
	}
	caption, err := s.optionalSpans(m, s.root(), "caption")
	if err != nil {
		return nil, err
	}
	return &Bookmark{URL: url, Caption: caption}, nil
}

func linkPreviewContract(s shape, m map[string]any) (any, error) {
	url, err := s.requiredString(m, s.root(), "url")
	if err != nil {
		return nil, err
	}
	return &LinkPreview{URL: url}, nil
}

func childPageContract(s shape, m map[string]any) (any, error) {
	title, err := s.requiredString(m, s.root(), "title")
	if err != nil {
		return nil, err
	}
	return &ChildPage{Title: title}, nil
}

// emptyContract accepts any payload; the tag carries no required fields.
func emptyContract(build func() any) contract {
	return func(shape, map[string]any) (any, error) {
		return build(), nil
	}
}
