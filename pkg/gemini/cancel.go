package gemini

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	cancelDetailsKey   = "details"
	cancelledOrdersKey = "cancelledOrders"
	cancelRejectsKey   = "cancelRejects"
)

// ProjectCancellation expands a bulk cancellation response into one record
// per order id, each carrying the id and whether the cancel succeeded.
//
//	{"details": {"cancelledOrders": ["A"], "cancelRejects": ["B"]}}
//	-> [{order_id: "A", success: true}, {order_id: "B", success: false}]
//
// Ids keep the position of their first appearance; an id listed twice takes
// the outcome of the later list. A response without details (an error
// envelope) yields a single record carrying the envelope fields.
func ProjectCancellation(raw gjson.Result) (Collection, error) {
	schema := CancellationSchema
	if !raw.IsObject() {
		return nil, &ProjectionError{Schema: schema.Name, Expected: "object", Actual: describe(raw)}
	}

	details := raw.Get(cancelDetailsKey)
	if !details.Exists() {
		rec, err := projectObject(schema, raw, "")
		if err != nil {
			return nil, err
		}
		return Collection{rec}, nil
	}
	if !details.IsObject() {
		return nil, &ProjectionError{Schema: schema.Name, Field: cancelDetailsKey, Expected: "object", Actual: describe(details)}
	}

	var (
		ids     []string
		outcome = make(map[string]bool)
		err     error
	)
	details.ForEach(func(key, list gjson.Result) bool {
		var success bool
		switch key.Str {
		case cancelledOrdersKey:
			success = true
		case cancelRejectsKey:
			success = false
		default:
			return true
		}

		path := cancelDetailsKey + "." + key.Str
		if !list.IsArray() {
			err = &ProjectionError{Schema: schema.Name, Field: path, Expected: "array", Actual: describe(list)}
			return false
		}
		for i, el := range list.Array() {
			var id string
			switch el.Type {
			case gjson.String:
				id = el.Str
			case gjson.Number:
				id = strings.TrimSpace(el.Raw)
			default:
				err = &ProjectionError{
					Schema:   schema.Name,
					Field:    fmt.Sprintf("%s[%d]", path, i),
					Expected: KindText.String(),
					Actual:   describe(el),
				}
				return false
			}
			if _, seen := outcome[id]; !seen {
				ids = append(ids, id)
			}
			outcome[id] = success
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	out := make(Collection, 0, len(ids))
	for _, id := range ids {
		rec := newRecord(schema.Name)
		rec.set(FieldOrderID, value{kind: KindText, v: id})
		rec.set(FieldSuccess, value{kind: KindBool, v: outcome[id]})
		out = append(out, rec)
	}
	return out, nil
}
