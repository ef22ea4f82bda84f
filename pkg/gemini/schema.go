package gemini

// Kind is the declared JSON shape of a schema field.
type Kind int

const (
	KindString     Kind = iota + 1 // JSON string
	KindText                       // JSON string, or a number kept as its literal text
	KindInt                        // integral JSON number
	KindFloat                      // any JSON number
	KindDecimal                    // numeric string or JSON number, kept exact
	KindBool                       // true / false
	KindStringList                 // array of strings
	KindFee                        // Fee variant: scalar or {"value": ...}
	KindRecords                    // array of objects, projected with Field.Schema
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindText:
		return "string or number"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "boolean"
	case KindStringList:
		return "array of strings"
	case KindFee:
		return "fee (scalar or object with value)"
	case KindRecords:
		return "array of objects"
	default:
		return "unknown kind"
	}
}

// Field maps one source key onto a target field name.
// Several fields may share a Name to express renames; when more than one of
// their keys is present, the field declared last wins.
type Field struct {
	Key    string
	Name   string
	Kind   Kind
	Schema *Schema // element schema for KindRecords
}

// Schema lists every field an endpoint may return.
type Schema struct {
	Name   string
	Fields []Field
}

func NewSchema(name string, fields ...[]Field) *Schema {
	s := &Schema{Name: name}
	for _, group := range fields {
		s.Fields = append(s.Fields, group...)
	}
	return s
}

// field declares a key that keeps its name.
func field(key string, kind Kind) Field {
	return Field{Key: key, Name: key, Kind: kind}
}

// renamed declares a key whose target name differs from the source key.
func renamed(key, name string, kind Kind) Field {
	return Field{Key: key, Name: name, Kind: kind}
}

func nested(key string, schema *Schema) Field {
	return Field{Key: key, Name: key, Kind: KindRecords, Schema: schema}
}
