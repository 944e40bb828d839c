// Package normalize converts heterogeneous section payloads between the raw
// shapes clients and storage produce and the three shapes the service
// understands: string, list of strings, string-to-string map. It never fails;
// profile data is member-authored and a save must not be blocked by a value
// we cannot interpret.
package normalize

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode"

	"directory-service/internal/models"
	"directory-service/internal/registry"
)

// Value is the closed set of shapes a normalized section field can take.
// Exactly one of Text, Tags, Pairs is meaningful, selected by Kind.
type Value struct {
	Kind  models.FieldKind
	Text  string
	Tags  []string
	Pairs map[string]string
}

// Raw returns the plain representation used in Section.Data and on the wire.
func (v Value) Raw() any {
	switch v.Kind {
	case models.FieldTags:
		return v.Tags
	case models.FieldKeyValue:
		return v.Pairs
	default:
		return v.Text
	}
}

// IsEmpty reports whether the value carries no content after coercion.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case models.FieldTags:
		return len(v.Tags) == 0
	case models.FieldKeyValue:
		return len(v.Pairs) == 0
	default:
		return v.Text == ""
	}
}

// Coerce forces a raw field value into the given kind. The boolean is false
// when the input had no usable content. max caps tag and pair counts; zero
// means uncapped.
func Coerce(raw any, kind models.FieldKind, max int) (Value, bool) {
	switch kind {
	case models.FieldTags:
		tags := coerceTags(raw, max)
		return Value{Kind: models.FieldTags, Tags: tags}, len(tags) > 0
	case models.FieldKeyValue:
		pairs := coercePairs(raw, max)
		return Value{Kind: models.FieldKeyValue, Pairs: pairs}, len(pairs) > 0
	default:
		text := coerceText(raw)
		return Value{Kind: models.FieldText, Text: text}, text != ""
	}
}

func coerceTags(raw any, max int) []string {
	raw = DecodeLegacy(raw)

	var items []string
	switch v := raw.(type) {
	case []string:
		items = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	case string:
		// A bare string where a list was expected becomes a single tag.
		items = []string{v}
	case nil:
		return nil
	default:
		log.Printf("normalize: dropping tags value of type %T", raw)
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	var tags []string
	for _, item := range items {
		tag := strings.TrimSpace(item)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if max > 0 && len(tags) == max {
			break
		}
	}
	return tags
}

func coercePairs(raw any, max int) map[string]string {
	raw = DecodeLegacy(raw)

	pairs := make(map[string]string)
	put := func(k string, v any) {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(coerceText(v))
		if key == "" || val == "" {
			return
		}
		if max > 0 && len(pairs) >= max {
			if _, exists := pairs[key]; !exists {
				return
			}
		}
		pairs[key] = val
	}

	switch v := raw.(type) {
	case map[string]string:
		for k, item := range v {
			put(k, item)
		}
	case map[string]any:
		for k, item := range v {
			put(k, item)
		}
	case nil:
	default:
		log.Printf("normalize: dropping key-value value of type %T", raw)
	}

	if len(pairs) == 0 {
		return nil
	}
	return pairs
}

func coerceText(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	case bool:
		return fmt.Sprintf("%v", v)
	case nil:
		return ""
	default:
		log.Printf("normalize: dropping text value of type %T", raw)
		return ""
	}
}

// guessKind picks a coercion kind for fields the registry does not know,
// from the shape the client sent.
func guessKind(raw any) models.FieldKind {
	switch DecodeLegacy(raw).(type) {
	case []any, []string:
		return models.FieldTags
	case map[string]any, map[string]string:
		return models.FieldKeyValue
	default:
		return models.FieldText
	}
}

// Sections turns the edited section inputs into the persisted section list.
// Field values are coerced per the registry schema, sections left entirely
// empty are dropped, and input order is preserved. Unknown section types and
// unknown field names are kept with best-effort coercion.
func Sections(inputs []models.SectionInput) []models.Section {
	var out []models.Section
	for _, in := range inputs {
		section := normalizeSection(in)
		if len(section.Data) == 0 {
			continue
		}
		out = append(out, section)
	}
	return out
}

func normalizeSection(in models.SectionInput) models.Section {
	schema, known := registry.Get(in.Type)

	title := schema.Label
	if !known {
		title = capitalize(string(in.Type))
	}

	data := make(map[string]any)

	// Schema fields first, in schema order for known types.
	for _, field := range schema.Fields {
		raw, present := in.Data[field.Name]
		if !present {
			continue
		}
		value, ok := Coerce(raw, field.Kind, field.Max)
		if !ok {
			continue
		}
		data[field.Name] = value.Raw()
	}

	// Field names the schema does not mention are tolerated and kept.
	for name, raw := range in.Data {
		if _, handled := data[name]; handled {
			continue
		}
		if known && schemaHasField(schema, name) {
			continue // schema field that coerced to empty
		}
		value, ok := Coerce(raw, guessKind(raw), 0)
		if !ok {
			continue
		}
		data[name] = value.Raw()
	}

	if len(data) == 0 {
		return models.Section{Type: in.Type, Title: title}
	}
	return models.Section{Type: in.Type, Title: title, Data: data}
}

func schemaHasField(schema registry.SectionSchema, name string) bool {
	for _, f := range schema.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// DecodeLegacy unwraps values that were persisted as JSON-encoded text by
// earlier storage formats. Anything that does not look like encoded JSON is
// returned unchanged.
func DecodeLegacy(raw any) any {
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
		return raw
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		log.Printf("normalize: leaving undecodable legacy value as text: %v", err)
		return raw
	}
	return decoded
}

// Profile repairs a profile read from storage in place: legacy JSON-string
// payloads are decoded and scalar values where lists are expected become
// single-element lists. Display must never fail on odd data.
func Profile(p *models.Profile) {
	for i := range p.Sections {
		section := &p.Sections[i]
		if section.Title == "" {
			if schema, ok := registry.Get(section.Type); ok {
				section.Title = schema.Label
			} else {
				section.Title = capitalize(string(section.Type))
			}
		}
		schema, known := registry.Get(section.Type)
		for name, raw := range section.Data {
			raw = DecodeLegacy(raw)
			if known {
				if kind, ok := fieldKind(schema, name); ok {
					if value, has := Coerce(raw, kind, 0); has {
						section.Data[name] = value.Raw()
						continue
					}
				}
			}
			section.Data[name] = raw
		}
	}
}

func fieldKind(schema registry.SectionSchema, name string) (models.FieldKind, bool) {
	for _, f := range schema.Fields {
		if f.Name == name {
			return f.Kind, true
		}
	}
	return "", false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
