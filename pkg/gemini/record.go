package gemini

import (
	"github.com/shopspring/decimal"
)

// Envelope field names shared by most schemas.
const (
	FieldResult  = "result"
	FieldReason  = "reason"
	FieldMessage = "message"
)

const resultError = "error"

type value struct {
	kind Kind
	null bool
	v    any
}

// Record is the typed projection of one JSON object. It holds only the
// fields that were present in the source; a field sent as null is present
// but null. Records are immutable once projected.
type Record struct {
	schema string
	values map[string]value
	order  []string
}

func newRecord(schema string) Record {
	return Record{schema: schema, values: make(map[string]value)}
}

func (r *Record) set(name string, v value) {
	if _, ok := r.values[name]; !ok {
		r.order = append(r.order, name)
	}
	r.values[name] = v
}

// Schema names the schema the record was projected with.
func (r Record) Schema() string {
	return r.schema
}

// Has reports whether name was present in the source, null or not.
func (r Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// IsNull reports whether name was present with an explicit null.
func (r Record) IsNull(name string) bool {
	v, ok := r.values[name]
	return ok && v.null
}

// Fields lists present field names in the order they were first projected.
func (r Record) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r Record) Len() int {
	return len(r.order)
}

func (r Record) lookup(name string, kinds ...Kind) (any, bool) {
	v, ok := r.values[name]
	if !ok || v.null {
		return nil, false
	}
	for _, k := range kinds {
		if v.kind == k {
			return v.v, true
		}
	}
	return nil, false
}

// Str returns a KindString or KindText field.
func (r Record) Str(name string) (string, bool) {
	v, ok := r.lookup(name, KindString, KindText)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (r Record) Int(name string) (int64, bool) {
	v, ok := r.lookup(name, KindInt)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

func (r Record) Float(name string) (float64, bool) {
	v, ok := r.lookup(name, KindFloat)
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

func (r Record) Decimal(name string) (decimal.Decimal, bool) {
	v, ok := r.lookup(name, KindDecimal)
	if !ok {
		return decimal.Decimal{}, false
	}
	return v.(decimal.Decimal), true
}

func (r Record) Bool(name string) (bool, bool) {
	v, ok := r.lookup(name, KindBool)
	if !ok {
		return false, false
	}
	return v.(bool), true
}

func (r Record) Strings(name string) ([]string, bool) {
	v, ok := r.lookup(name, KindStringList)
	if !ok {
		return nil, false
	}
	src := v.([]string)
	out := make([]string, len(src))
	copy(out, src)
	return out, true
}

func (r Record) Fee(name string) (Fee, bool) {
	v, ok := r.lookup(name, KindFee)
	if !ok {
		return Fee{}, false
	}
	return v.(Fee), true
}

func (r Record) Records(name string) (Collection, bool) {
	v, ok := r.lookup(name, KindRecords)
	if !ok {
		return nil, false
	}
	src := v.(Collection)
	out := make(Collection, len(src))
	copy(out, src)
	return out, true
}

// ExchangeError returns the error envelope when the record reports a
// rejected request, nil otherwise.
func (r Record) ExchangeError() *ExchangeError {
	result, _ := r.Str(FieldResult)
	if result != resultError {
		return nil
	}
	reason, _ := r.Str(FieldReason)
	message, _ := r.Str(FieldMessage)
	return &ExchangeError{Result: result, Reason: reason, Message: message}
}

// Map renders the present fields as plain values for display or JSON
// encoding. Decimals and fees become strings, nested records become maps.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.order))
	for _, name := range r.order {
		v := r.values[name]
		if v.null {
			out[name] = nil
			continue
		}
		switch x := v.v.(type) {
		case decimal.Decimal:
			out[name] = x.String()
		case Fee:
			out[name] = x.Value()
		case Collection:
			out[name] = x.Maps()
		case []string:
			cp := make([]string, len(x))
			copy(cp, x)
			out[name] = cp
		default:
			out[name] = x
		}
	}
	return out
}

// Collection is an ordered list of records projected from a JSON array.
type Collection []Record

func (c Collection) Maps() []map[string]any {
	out := make([]map[string]any, len(c))
	for i, r := range c {
		out[i] = r.Map()
	}
	return out
}

// Check returns the record's exchange error as an error, or nil.
func Check(r Record) error {
	if e := r.ExchangeError(); e != nil {
		return e
	}
	return nil
}

// CheckAll returns the first exchange error found in c.
func CheckAll(c Collection) error {
	for _, r := range c {
		if err := Check(r); err != nil {
			return err
		}
	}
	return nil
}
