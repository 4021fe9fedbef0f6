package render

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNilNode = errors.New("render: nil node")
)

// ShapeError reports a block whose payload does not satisfy its declared
// tag's structural contract. The failing node always identifies itself: the
// message carries the node id, the tag, the offending field path, the
// expected versus actual value, and the full payload for context.
type ShapeError struct {
	NodeID   string
	Tag      string
	Path     string
	Expected string
	Actual   any
	Payload  map[string]any
}

func (e *ShapeError) Error() string {
	if e == nil {
		return "render: shape error"
	}
	return fmt.Sprintf("render: block %q (%s): field %s: expected %s, got %s; payload: %s",
		e.NodeID, e.Tag, e.Path, e.Expected, describeValue(e.Actual), compactJSON(e.Payload))
}

// describeValue renders the offending value for diagnostics, naming absence
// explicitly instead of printing an empty string.
func describeValue(v any) string {
	if v == nil {
		return "<missing>"
	}
	switch tv := v.(type) {
	case string:
		return fmt.Sprintf("string %q", tv)
	case bool:
		return fmt.Sprintf("bool %v", tv)
	case float64:
		return fmt.Sprintf("number %v", tv)
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T %v", v, v)
	}
}

func compactJSON(payload map[string]any) string {
	if payload == nil {
		return "null"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}
