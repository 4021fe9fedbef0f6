package render

import (
	"strings"

	"github.com/goliatone/go-notion-render/notion"
)

// listKind tracks which list wrapper, if any, is currently open while
// composing a sibling sequence.
type listKind int

const (
	listNone listKind = iota
	listBulleted
	listNumbered
	listToDo
)

func listKindOf(tag string) listKind {
	switch BlockType(tag) {
	case TypeBulletedListItem:
		return listBulleted
	case TypeNumberedListItem:
		return listNumbered
	case TypeToDo:
		return listToDo
	default:
		return listNone
	}
}

func (k listKind) open() string {
	switch k {
	case listBulleted:
		return "<ul>"
	case listNumbered:
		return "<ol>"
	case listToDo:
		return `<ul class="to-do-list">`
	default:
		return ""
	}
}

func (k listKind) close() string {
	switch k {
	case listBulleted, listToDo:
		return "</ul>"
	case listNumbered:
		return "</ol>"
	default:
		return ""
	}
}

// RenderBlocks walks an ordered sibling list, merging runs of same-kind list
// items into a single enclosing list wrapper and concatenating fragments in
// document order. A run ends as soon as the next sibling is a different kind;
// any wrapper still open when the sequence ends is closed. An empty sibling
// list renders to the empty string.
func (r *Renderer) RenderBlocks(blocks []*notion.Block) (string, error) {
	if len(blocks) == 0 {
		return "", nil
	}

	var (
		out  strings.Builder
		open = listNone
	)
	for _, block := range blocks {
		if block == nil {
			continue
		}

		kind := listKindOf(block.Type)
		if kind != open {
			out.WriteString(open.close())
			out.WriteString(kind.open())
			open = kind
		}

		fragment, err := r.RenderBlock(block)
		if err != nil {
			return "", err
		}
		out.WriteString(fragment)
	}
	out.WriteString(open.close())

	return out.String(), nil
}
