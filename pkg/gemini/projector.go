package gemini

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Projection is the result of projecting a decoded response: a single record
// for a JSON object, or a collection for a JSON array.
type Projection struct {
	list    bool
	records Collection
}

// IsList reports whether the source was a JSON array.
func (p *Projection) IsList() bool {
	return p.list
}

// Record returns the single record of an object projection.
func (p *Projection) Record() (Record, bool) {
	if p.list || len(p.records) != 1 {
		return Record{}, false
	}
	return p.records[0], true
}

// Records returns the records in source order. For an object projection it
// holds exactly one record.
func (p *Projection) Records() Collection {
	out := make(Collection, len(p.records))
	copy(out, p.records)
	return out
}

// Project maps raw onto schema. It does no I/O and never modifies raw;
// projecting the same input twice yields equal records.
func Project(schema *Schema, raw gjson.Result) (*Projection, error) {
	switch {
	case raw.IsArray():
		records, err := projectArray(schema, raw, "")
		if err != nil {
			return nil, err
		}
		return &Projection{list: true, records: records}, nil
	case raw.IsObject():
		rec, err := projectObject(schema, raw, "")
		if err != nil {
			return nil, err
		}
		return &Projection{records: Collection{rec}}, nil
	default:
		return nil, &ProjectionError{
			Schema:   schema.Name,
			Field:    "",
			Expected: "object or array",
			Actual:   describe(raw),
		}
	}
}

// ProjectRecord projects a response that must be a JSON object.
func ProjectRecord(schema *Schema, raw gjson.Result) (Record, error) {
	if !raw.IsObject() {
		return Record{}, &ProjectionError{Schema: schema.Name, Expected: "object", Actual: describe(raw)}
	}
	return projectObject(schema, raw, "")
}

// ProjectCollection projects a response that must be a JSON array.
func ProjectCollection(schema *Schema, raw gjson.Result) (Collection, error) {
	if !raw.IsArray() {
		return nil, &ProjectionError{Schema: schema.Name, Expected: "array", Actual: describe(raw)}
	}
	return projectArray(schema, raw, "")
}

func projectArray(schema *Schema, raw gjson.Result, path string) (Collection, error) {
	elems := raw.Array()
	out := make(Collection, 0, len(elems))
	for i, el := range elems {
		elPath := fmt.Sprintf("%s[%d]", path, i)
		if !el.IsObject() {
			return nil, &ProjectionError{Schema: schema.Name, Field: elPath, Expected: "object", Actual: describe(el)}
		}
		rec, err := projectObject(schema, el, elPath)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func projectObject(schema *Schema, obj gjson.Result, path string) (Record, error) {
	src := obj.Map()
	rec := newRecord(schema.Name)
	for _, f := range schema.Fields {
		raw, ok := src[f.Key]
		if !ok {
			continue
		}
		v, err := decodeField(schema, f, raw, joinPath(path, f.Key))
		if err != nil {
			return Record{}, err
		}
		// a null alias never hides a value set by another alias
		if v.null && rec.Has(f.Name) && !rec.IsNull(f.Name) {
			continue
		}
		rec.set(f.Name, v)
	}
	return rec, nil
}

func decodeField(schema *Schema, f Field, raw gjson.Result, path string) (value, error) {
	if raw.Type == gjson.Null {
		return value{kind: f.Kind, null: true}, nil
	}

	mismatch := func() (value, error) {
		return value{}, &ProjectionError{
			Schema:   schema.Name,
			Field:    path,
			Expected: f.Kind.String(),
			Actual:   describe(raw),
		}
	}

	switch f.Kind {
	case KindString:
		if raw.Type != gjson.String {
			return mismatch()
		}
		return value{kind: f.Kind, v: raw.Str}, nil

	case KindText:
		switch raw.Type {
		case gjson.String:
			return value{kind: f.Kind, v: raw.Str}, nil
		case gjson.Number:
			return value{kind: f.Kind, v: strings.TrimSpace(raw.Raw)}, nil
		}
		return mismatch()

	case KindInt:
		if raw.Type != gjson.Number {
			return mismatch()
		}
		n, err := strconv.ParseInt(strings.TrimSpace(raw.Raw), 10, 64)
		if err != nil {
			return mismatch()
		}
		return value{kind: f.Kind, v: n}, nil

	case KindFloat:
		if raw.Type != gjson.Number {
			return mismatch()
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(raw.Raw), 64)
		if err != nil {
			return mismatch()
		}
		return value{kind: f.Kind, v: n}, nil

	case KindDecimal:
		var text string
		switch raw.Type {
		case gjson.String:
			text = raw.Str
		case gjson.Number:
			text = strings.TrimSpace(raw.Raw)
		default:
			return mismatch()
		}
		d, err := decimal.NewFromString(text)
		if err != nil {
			return mismatch()
		}
		return value{kind: f.Kind, v: d}, nil

	case KindBool:
		if raw.Type != gjson.True && raw.Type != gjson.False {
			return mismatch()
		}
		return value{kind: f.Kind, v: raw.Bool()}, nil

	case KindStringList:
		if !raw.IsArray() {
			return mismatch()
		}
		elems := raw.Array()
		out := make([]string, 0, len(elems))
		for i, el := range elems {
			if el.Type != gjson.String {
				return value{}, &ProjectionError{
					Schema:   schema.Name,
					Field:    fmt.Sprintf("%s[%d]", path, i),
					Expected: "string",
					Actual:   describe(el),
				}
			}
			out = append(out, el.Str)
		}
		return value{kind: f.Kind, v: out}, nil

	case KindFee:
		fee, ok := decodeFee(raw)
		if !ok {
			return mismatch()
		}
		return value{kind: f.Kind, v: fee}, nil

	case KindRecords:
		if !raw.IsArray() || f.Schema == nil {
			return mismatch()
		}
		records, err := projectArray(f.Schema, raw, path)
		if err != nil {
			return value{}, err
		}
		return value{kind: f.Kind, v: records}, nil
	}

	return mismatch()
}

// decodeFee resolves the two fee shapes into one Fee.
func decodeFee(raw gjson.Result) (Fee, bool) {
	switch raw.Type {
	case gjson.String:
		return ScalarFee(raw.Str), true
	case gjson.Number:
		return ScalarFee(strings.TrimSpace(raw.Raw)), true
	}
	if !raw.IsObject() {
		return Fee{}, false
	}

	m := raw.Map()
	v, ok := m["value"]
	if !ok {
		return Fee{}, false
	}
	var text string
	switch v.Type {
	case gjson.String:
		text = v.Str
	case gjson.Number:
		text = strings.TrimSpace(v.Raw)
	default:
		return Fee{}, false
	}

	currency := ""
	if c, ok := m["currency"]; ok && c.Type == gjson.String {
		currency = c.Str
	}
	return KeyedFee(text, currency), true
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// describe names the shape of a JSON value for error messages.
func describe(r gjson.Result) string {
	switch {
	case !r.Exists():
		return "nothing"
	case r.Type == gjson.Null:
		return "null"
	case r.Type == gjson.String:
		s := r.Str
		if utf8.RuneCountInString(s) > 32 {
			s = string([]rune(s)[:32]) + "..."
		}
		return fmt.Sprintf("string %q", s)
	case r.Type == gjson.Number:
		return "number " + strings.TrimSpace(r.Raw)
	case r.Type == gjson.True || r.Type == gjson.False:
		return "boolean"
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	default:
		return "unknown"
	}
}
