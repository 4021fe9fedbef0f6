package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse coerces a raw property bag into a typed record according to the
// schema. The first failing field aborts the parse; the returned error names
// the field, the offending path, and the literal offending value.
func Parse(properties map[string]any, schema Schema) (*Record, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaInvalid, err)
	}
	if properties == nil {
		return nil, ErrNilProperties
	}

	record := &Record{values: make(map[string]any, len(schema.Fields))}
	for _, field := range schema.Fields {
		raw, ok := properties[field.Name]
		if !ok || raw == nil {
			if field.Required {
				return nil, &FieldError{Field: field.Name, Expected: string(field.Type) + " property", Value: nil}
			}
			continue
		}

		prop, ok := raw.(map[string]any)
		if !ok {
			return nil, &FieldError{Field: field.Name, Expected: "property object", Value: raw}
		}

		declared, _ := prop["type"].(string)
		if declared != "" && declared != string(field.Type) {
			return nil, &FieldError{
				Field:    field.Name,
				Path:     field.Name + ".type",
				Expected: string(field.Type),
				Value:    declared,
			}
		}

		value, err := coerce(field, prop[string(field.Type)])
		if err != nil {
			return nil, err
		}
		if value == nil {
			if field.Required {
				return nil, &FieldError{Field: field.Name, Expected: "non-empty " + string(field.Type), Value: nil}
			}
			continue
		}
		record.values[field.Name] = value
	}
	return record, nil
}

// coerce maps one property payload to its typed value. A nil result with a
// nil error means the property is present but empty.
func coerce(field Field, payload any) (any, error) {
	switch field.Type {
	case TypeTitle, TypeRichText:
		return coerceRichText(field, payload)
	case TypeNumber:
		return coerceNumber(field, payload)
	case TypeCheckbox:
		b, ok := payload.(bool)
		if !ok {
			return nil, typeError(field, "boolean", payload)
		}
		return b, nil
	case TypeSelect, TypeStatus:
		return coerceOptionName(field, payload)
	case TypeMultiSelect:
		return coerceOptionNames(field, payload)
	case TypeDate:
		return coerceDate(field, payload)
	case TypeURL, TypeEmail, TypePhoneNumber:
		return coerceOptionalString(field, payload)
	case TypeFiles:
		return coerceFiles(field, payload)
	case TypePeople:
		return coercePeople(field, payload)
	case TypeRelation:
		return coerceRelation(field, payload)
	case TypeFormula:
		return coerceFormula(field, payload)
	case TypeRollup:
		return coerceRollup(field, payload)
	case TypeUniqueID:
		return coerceUniqueID(field, payload)
	case TypeCreatedTime, TypeLastEditedTime:
		return coerceTimestamp(field, payload)
	case TypeCreatedBy, TypeLastEditedBy:
		return coerceActor(field, payload)
	case TypeVerification:
		return coerceVerification(field, payload)
	case TypeButton:
		// Buttons carry no data; presence is the value.
		return true, nil
	default:
		return nil, typeError(field, "a supported property type", string(field.Type))
	}
}

func typeError(field Field, expected string, value any) error {
	return &FieldError{
		Field:    field.Name,
		Path:     field.Name + "." + string(field.Type),
		Expected: expected,
		Value:    value,
	}
}

// coerceRichText flattens a rich text array to its literal text.
func coerceRichText(field Field, payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, typeError(field, "array", payload)
	}

	var out strings.Builder
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &FieldError{
				Field:    field.Name,
				Path:     fmt.Sprintf("%s.%s[%d]", field.Name, field.Type, i),
				Expected: "object",
				Value:    item,
			}
		}
		if plain, ok := obj["plain_text"].(string); ok {
			out.WriteString(plain)
			continue
		}
		if text, ok := obj["text"].(map[string]any); ok {
			if content, ok := text["content"].(string); ok {
				out.WriteString(content)
			}
		}
	}
	text := out.String()
	if text == "" {
		return nil, nil
	}
	return text, nil
}

func coerceNumber(field Field, payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	num, ok := payload.(float64)
	if !ok {
		return nil, typeError(field, "number", payload)
	}
	return num, nil
}

func coerceOptionName(field Field, payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	option, ok := payload.(map[string]any)
	if !ok {
		return nil, typeError(field, "object", payload)
	}
	name, ok := option["name"].(string)
	if !ok {
		return nil, &FieldError{
			Field:    field.Name,
			Path:     field.Name + "." + string(field.Type) + ".name",
			Expected: "string",
			Value:    option["name"],
		}
	}
	return name, nil
}

func coerceOptionNames(field Field, payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, typeError(field, "array", payload)
	}

	names := make([]string, 0, len(items))
	for i, item := range items {
		option, ok := item.(map[string]any)
		if !ok {
			return nil, &FieldError{
				Field:    field.Name,
				Path:     fmt.Sprintf("%s.%s[%d]", field.Name, field.Type, i),
				Expected: "object",
				Value:    item,
			}
		}
		if name, ok := option["name"].(string); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	return names, nil
}

func coerceDate(field Field, payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, typeError(field, "object", payload)
	}
	start, ok := obj["start"].(string)
	if !ok {
		return nil, &FieldError{
			Field:    field.Name,
			Path:     field.Name + "." + string(field.Type) + ".start",
			Expected: "string",
			Value:    obj["start"],
		}
	}
	date := &DateValue{Start: start}
	if end, ok := obj["end"].(string); ok {
		date.End = end
	}
	if zone, ok := obj["time_zone"].(string); ok {
		date.TimeZone = zone
	}
	return date, nil
}

func coerceOptionalString(field Field, payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	str, ok := payload.(string)
	if !ok {
		return nil, typeError(field, "string", payload)
	}
	if str == "" {
		return nil, nil
	}
	return str, nil
}

// coerceFiles collects the download URL of each attachment, hosted or
// external.
func coerceFiles(field Field, payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, typeError(field, "array", payload)
	}

	urls := make([]string, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &FieldError{
				Field:    field.Name,
				Path:     fmt.Sprintf("%s.%s[%d]", field.Name, field.Type, i),
				Expected: "object",
				Value:    item,
			}
		}
		kind, _ := obj["type"].(string)
		if source, ok := obj[kind].(map[string]any); ok {
			if url, ok := source["url"].(string); ok && url != "" {
				urls = append(urls, url)
			}
		}
	}
	if len(urls) == 0 {
		return nil, nil
	}
	return urls, nil
}

// coercePeople collects display names, falling back to identifiers.
func coercePeople(field Field, payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, typeError(field, "array", payload)
	}

	people := make([]string, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := obj["name"].(string); ok && name != "" {
			people = append(people, name)
			continue
		}
		if id, ok := obj["id"].(string); ok && id != "" {
			people = append(people, id)
		}
	}
	if len(people) == 0 {
		return nil, nil
	}
	return people, nil
}

func coerceRelation(field Field, payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, typeError(field, "array", payload)
	}

	ids := make([]string, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &FieldError{
				Field:    field.Name,
				Path:     fmt.Sprintf("%s.%s[%d]", field.Name, field.Type, i),
				Expected: "object",
				Value:    item,
			}
		}
		if id, ok := obj["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

// coerceFormula unwraps the formula result by its declared result type.
func coerceFormula(field Field, payload any) (any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, typeError(field, "object", payload)
	}
	kind, _ := obj["type"].(string)
	switch kind {
	case "string":
		return coerceOptionalString(field, obj["string"])
	case "number":
		return coerceNumber(field, obj["number"])
	case "boolean":
		b, ok := obj["boolean"].(bool)
		if !ok {
			return nil, typeError(field, "boolean formula result", obj["boolean"])
		}
		return b, nil
	case "date":
		return coerceDate(field, obj["date"])
	default:
		return nil, &FieldError{
			Field:    field.Name,
			Path:     field.Name + ".formula.type",
			Expected: `"string", "number", "boolean" or "date"`,
			Value:    kind,
		}
	}
}

// coerceRollup unwraps a rollup by its result type; array rollups surface
// their raw element list.
func coerceRollup(field Field, payload any) (any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, typeError(field, "object", payload)
	}
	kind, _ := obj["type"].(string)
	switch kind {
	case "number":
		return coerceNumber(field, obj["number"])
	case "date":
		return coerceDate(field, obj["date"])
	case "array":
		items, ok := obj["array"].([]any)
		if !ok {
			return nil, typeError(field, "array rollup result", obj["array"])
		}
		if len(items) == 0 {
			return nil, nil
		}
		return items, nil
	default:
		return nil, &FieldError{
			Field:    field.Name,
			Path:     field.Name + ".rollup.type",
			Expected: `"number", "date" or "array"`,
			Value:    kind,
		}
	}
}

func coerceUniqueID(field Field, payload any) (any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, typeError(field, "object", payload)
	}
	number, ok := obj["number"].(float64)
	if !ok {
		return nil, &FieldError{
			Field:    field.Name,
			Path:     field.Name + ".unique_id.number",
			Expected: "number",
			Value:    obj["number"],
		}
	}
	id := strconv.FormatFloat(number, 'f', -1, 64)
	if prefix, ok := obj["prefix"].(string); ok && prefix != "" {
		id = prefix + "-" + id
	}
	return id, nil
}

func coerceTimestamp(field Field, payload any) (any, error) {
	str, ok := payload.(string)
	if !ok {
		return nil, typeError(field, "RFC3339 timestamp", payload)
	}
	ts, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return nil, typeError(field, "RFC3339 timestamp", str)
	}
	return ts, nil
}

func coerceActor(field Field, payload any) (any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, typeError(field, "object", payload)
	}
	if name, ok := obj["name"].(string); ok && name != "" {
		return name, nil
	}
	id, ok := obj["id"].(string)
	if !ok || id == "" {
		return nil, &FieldError{
			Field:    field.Name,
			Path:     field.Name + "." + string(field.Type) + ".id",
			Expected: "string",
			Value:    obj["id"],
		}
	}
	return id, nil
}

func coerceVerification(field Field, payload any) (any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, typeError(field, "object", payload)
	}
	state, ok := obj["state"].(string)
	if !ok {
		return nil, &FieldError{
			Field:    field.Name,
			Path:     field.Name + ".verification.state",
			Expected: "string",
			Value:    obj["state"],
		}
	}
	return state, nil
}
