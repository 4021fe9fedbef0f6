package metadata

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PropertyType enumerates the remote property kinds a schema can declare.
type PropertyType string

const (
	TypeTitle          PropertyType = "title"
	TypeRichText       PropertyType = "rich_text"
	TypeNumber         PropertyType = "number"
	TypeCheckbox       PropertyType = "checkbox"
	TypeSelect         PropertyType = "select"
	TypeStatus         PropertyType = "status"
	TypeMultiSelect    PropertyType = "multi_select"
	TypeDate           PropertyType = "date"
	TypeURL            PropertyType = "url"
	TypeEmail          PropertyType = "email"
	TypePhoneNumber    PropertyType = "phone_number"
	TypeFiles          PropertyType = "files"
	TypePeople         PropertyType = "people"
	TypeFormula        PropertyType = "formula"
	TypeRollup         PropertyType = "rollup"
	TypeRelation       PropertyType = "relation"
	TypeUniqueID       PropertyType = "unique_id"
	TypeCreatedTime    PropertyType = "created_time"
	TypeCreatedBy      PropertyType = "created_by"
	TypeLastEditedTime PropertyType = "last_edited_time"
	TypeLastEditedBy   PropertyType = "last_edited_by"
	TypeVerification   PropertyType = "verification"
	TypeButton         PropertyType = "button"
)

var knownPropertyTypes = map[PropertyType]struct{}{
	TypeTitle:          {},
	TypeRichText:       {},
	TypeNumber:         {},
	TypeCheckbox:       {},
	TypeSelect:         {},
	TypeStatus:         {},
	TypeMultiSelect:    {},
	TypeDate:           {},
	TypeURL:            {},
	TypeEmail:          {},
	TypePhoneNumber:    {},
	TypeFiles:          {},
	TypePeople:         {},
	TypeFormula:        {},
	TypeRollup:         {},
	TypeRelation:       {},
	TypeUniqueID:       {},
	TypeCreatedTime:    {},
	TypeCreatedBy:      {},
	TypeLastEditedTime: {},
	TypeLastEditedBy:   {},
	TypeVerification:   {},
	TypeButton:         {},
}

// KnownPropertyType reports whether the type belongs to the supported set.
func KnownPropertyType(t PropertyType) bool {
	_, ok := knownPropertyTypes[t]
	return ok
}

// Field declares one expected property: its user-defined name in the remote
// property bag and the property type it must carry.
type Field struct {
	Name     string
	Type     PropertyType
	Required bool
}

// Schema is the declarative description of the properties a typed record is
// built from.
type Schema struct {
	Fields []Field
}

// Validate checks the schema declaration itself before any parsing happens.
func (s Schema) Validate() error {
	errs := validation.Errors{}
	if len(s.Fields) == 0 {
		errs["fields"] = validation.NewError("metadata.schema.fields_required", "at least one field is required")
	}

	seen := map[string]struct{}{}
	for _, field := range s.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			errs["fields"] = validation.NewError("metadata.schema.field_name_required", "field name is required")
			continue
		}
		if _, dup := seen[name]; dup {
			errs[name] = validation.NewError("metadata.schema.field_duplicate", "field is declared more than once")
			continue
		}
		seen[name] = struct{}{}
		if !KnownPropertyType(field.Type) {
			errs[name] = validation.NewError("metadata.schema.field_type_unknown", "unknown property type "+string(field.Type))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DateValue is a coerced date property: a start instant with optional end
// and zone.
type DateValue struct {
	Start    string
	End      string
	TimeZone string
}

// StartTime parses the start instant, accepting date-only and RFC3339 forms.
func (d *DateValue) StartTime() (time.Time, bool) {
	if d == nil {
		return time.Time{}, false
	}
	return parseInstant(d.Start)
}

func parseInstant(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Record is the typed outcome of parsing one property bag against a schema.
// Values are keyed by the schema field name; absent optional fields are not
// present in the map.
type Record struct {
	values map[string]any
}

// Has reports whether a value was captured for the field.
func (r *Record) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.values[name]
	return ok
}

// Get returns the raw coerced value for the field.
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	value, ok := r.values[name]
	return value, ok
}

// String returns the field's string value, or "" when absent or non-string.
func (r *Record) String(name string) string {
	value, _ := r.Get(name)
	str, _ := value.(string)
	return str
}

// Number returns the field's numeric value.
func (r *Record) Number(name string) (float64, bool) {
	value, _ := r.Get(name)
	num, ok := value.(float64)
	return num, ok
}

// Bool returns the field's boolean value, defaulting to false.
func (r *Record) Bool(name string) bool {
	value, _ := r.Get(name)
	b, _ := value.(bool)
	return b
}

// Strings returns the field's string list value.
func (r *Record) Strings(name string) []string {
	value, _ := r.Get(name)
	list, _ := value.([]string)
	return list
}

// Date returns the field's date value.
func (r *Record) Date(name string) (*DateValue, bool) {
	value, _ := r.Get(name)
	date, ok := value.(*DateValue)
	return date, ok
}

// Time returns the field's timestamp value.
func (r *Record) Time(name string) (time.Time, bool) {
	value, _ := r.Get(name)
	ts, ok := value.(time.Time)
	return ts, ok
}
