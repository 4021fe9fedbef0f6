package metadata

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func articleSchema() Schema {
	return Schema{Fields: []Field{
		{Name: "Title", Type: TypeTitle, Required: true},
		{Name: "Summary", Type: TypeRichText},
		{Name: "Views", Type: TypeNumber},
		{Name: "Published", Type: TypeCheckbox},
		{Name: "Category", Type: TypeSelect},
		{Name: "Tags", Type: TypeMultiSelect},
		{Name: "Date", Type: TypeDate},
		{Name: "Canonical", Type: TypeURL},
	}}
}

func titleProperty(text string) map[string]any {
	return map[string]any{
		"type": "title",
		"title": []any{
			map[string]any{"plain_text": text},
		},
	}
}

func TestParse_CoercesDeclaredTypes(t *testing.T) {
	properties := map[string]any{
		"Title": titleProperty("Hello"),
		"Summary": map[string]any{
			"type": "rich_text",
			"rich_text": []any{
				map[string]any{"plain_text": "part one, "},
				map[string]any{"plain_text": "part two"},
			},
		},
		"Views":     map[string]any{"type": "number", "number": float64(42)},
		"Published": map[string]any{"type": "checkbox", "checkbox": true},
		"Category": map[string]any{
			"type":   "select",
			"select": map[string]any{"name": "Tech", "color": "blue"},
		},
		"Tags": map[string]any{
			"type": "multi_select",
			"multi_select": []any{
				map[string]any{"name": "go"},
				map[string]any{"name": "html"},
			},
		},
		"Date": map[string]any{
			"type": "date",
			"date": map[string]any{"start": "2024-06-01", "end": "2024-06-02"},
		},
		"Canonical": map[string]any{"type": "url", "url": "https://example.com/a"},
	}

	record, err := Parse(properties, articleSchema())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := record.String("Title"); got != "Hello" {
		t.Fatalf("title mismatch, got %q", got)
	}
	if got := record.String("Summary"); got != "part one, part two" {
		t.Fatalf("rich text must flatten, got %q", got)
	}
	if views, ok := record.Number("Views"); !ok || views != 42 {
		t.Fatalf("number mismatch, got %v (%v)", views, ok)
	}
	if !record.Bool("Published") {
		t.Fatalf("checkbox mismatch")
	}
	if got := record.String("Category"); got != "Tech" {
		t.Fatalf("select must surface option name, got %q", got)
	}
	if tags := record.Strings("Tags"); len(tags) != 2 || tags[0] != "go" || tags[1] != "html" {
		t.Fatalf("multi select mismatch, got %v", tags)
	}
	date, ok := record.Date("Date")
	if !ok || date.Start != "2024-06-01" || date.End != "2024-06-02" {
		t.Fatalf("date mismatch, got %+v (%v)", date, ok)
	}
	if start, ok := date.StartTime(); !ok || start.Format("2006-01-02") != "2024-06-01" {
		t.Fatalf("date start must parse, got %v (%v)", start, ok)
	}
	if got := record.String("Canonical"); got != "https://example.com/a" {
		t.Fatalf("url mismatch, got %q", got)
	}
}

func TestParse_MissingRequiredFieldFails(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Title", Type: TypeTitle, Required: true}}}

	_, err := Parse(map[string]any{}, schema)

	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected *FieldError, got %T (%v)", err, err)
	}
	if fieldErr.Field != "Title" {
		t.Fatalf("diagnostic must name the field, got %q", fieldErr.Field)
	}
}

func TestParse_MissingOptionalFieldIsSkipped(t *testing.T) {
	schema := Schema{Fields: []Field{
		{Name: "Title", Type: TypeTitle, Required: true},
		{Name: "Summary", Type: TypeRichText},
	}}

	record, err := Parse(map[string]any{"Title": titleProperty("x")}, schema)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if record.Has("Summary") {
		t.Fatalf("absent optional fields must not appear in the record")
	}
}

func TestParse_DeclaredTypeMismatchFails(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Title", Type: TypeTitle, Required: true}}}
	properties := map[string]any{
		"Title": map[string]any{"type": "rich_text", "rich_text": []any{}},
	}

	_, err := Parse(properties, schema)

	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected *FieldError, got %T (%v)", err, err)
	}
	if fieldErr.Path != "Title.type" {
		t.Fatalf("path mismatch, got %q", fieldErr.Path)
	}
	if !strings.Contains(fieldErr.Error(), "rich_text") {
		t.Fatalf("message must carry the offending value, got %q", fieldErr.Error())
	}
}

func TestParse_WrongValueShapeFails(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Views", Type: TypeNumber}}}
	properties := map[string]any{
		"Views": map[string]any{"type": "number", "number": "not a number"},
	}

	_, err := Parse(properties, schema)

	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected *FieldError, got %T (%v)", err, err)
	}
	if fieldErr.Path != "Views.number" {
		t.Fatalf("path mismatch, got %q", fieldErr.Path)
	}
}

func TestParse_EmptyRequiredTitleFails(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Title", Type: TypeTitle, Required: true}}}
	properties := map[string]any{
		"Title": map[string]any{"type": "title", "title": []any{}},
	}

	if _, err := Parse(properties, schema); err == nil {
		t.Fatalf("empty required title must fail")
	}
}

func TestParse_NilPropertiesFails(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Title", Type: TypeTitle}}}
	if _, err := Parse(nil, schema); !errors.Is(err, ErrNilProperties) {
		t.Fatalf("expected ErrNilProperties, got %v", err)
	}
}

func TestParse_InvalidSchemaFails(t *testing.T) {
	_, err := Parse(map[string]any{}, Schema{})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}

	dup := Schema{Fields: []Field{
		{Name: "Title", Type: TypeTitle},
		{Name: "Title", Type: TypeRichText},
	}}
	if _, err := Parse(map[string]any{}, dup); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("duplicate fields must invalidate the schema, got %v", err)
	}

	unknown := Schema{Fields: []Field{{Name: "X", Type: PropertyType("banner")}}}
	if _, err := Parse(map[string]any{}, unknown); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("unknown property type must invalidate the schema, got %v", err)
	}
}

func TestParse_FormulaUnwrapsByResultType(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Score", Type: TypeFormula}}}
	properties := map[string]any{
		"Score": map[string]any{
			"type":    "formula",
			"formula": map[string]any{"type": "number", "number": float64(7)},
		},
	}

	record, err := Parse(properties, schema)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if score, ok := record.Number("Score"); !ok || score != 7 {
		t.Fatalf("formula result mismatch, got %v (%v)", score, ok)
	}
}

func TestParse_RollupArray(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Related", Type: TypeRollup}}}
	properties := map[string]any{
		"Related": map[string]any{
			"type": "rollup",
			"rollup": map[string]any{
				"type":  "array",
				"array": []any{map[string]any{"id": "x"}},
			},
		},
	}

	record, err := Parse(properties, schema)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !record.Has("Related") {
		t.Fatalf("non-empty rollup array must be captured")
	}
}

func TestParse_UniqueIDCombinesPrefixAndNumber(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Ref", Type: TypeUniqueID}}}
	properties := map[string]any{
		"Ref": map[string]any{
			"type":      "unique_id",
			"unique_id": map[string]any{"prefix": "DOC", "number": float64(12)},
		},
	}

	record, err := Parse(properties, schema)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := record.String("Ref"); got != "DOC-12" {
		t.Fatalf("unique id mismatch, got %q", got)
	}
}

func TestParse_Timestamps(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Created", Type: TypeCreatedTime}}}
	properties := map[string]any{
		"Created": map[string]any{
			"type":         "created_time",
			"created_time": "2024-03-04T05:06:07Z",
		},
	}

	record, err := Parse(properties, schema)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ts, ok := record.Time("Created")
	if !ok {
		t.Fatalf("timestamp must be captured")
	}
	want := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("timestamp mismatch, got %v", ts)
	}
}

func TestParse_PeopleFallBackToIDs(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "Authors", Type: TypePeople}}}
	properties := map[string]any{
		"Authors": map[string]any{
			"type": "people",
			"people": []any{
				map[string]any{"id": "u1", "name": "Ada"},
				map[string]any{"id": "u2"},
			},
		},
	}

	record, err := Parse(properties, schema)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	authors := record.Strings("Authors")
	if len(authors) != 2 || authors[0] != "Ada" || authors[1] != "u2" {
		t.Fatalf("people mismatch, got %v", authors)
	}
}
