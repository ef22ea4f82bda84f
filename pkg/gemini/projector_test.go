package gemini

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var testSchema = NewSchema("test", []Field{
	field("id", KindText),
	field("name", KindString),
	field("count", KindInt),
	field("ratio", KindFloat),
	field("price", KindDecimal),
	field("live", KindBool),
	field("tags", KindStringList),
	field("fee", KindFee),
	renamed("feeCurrency", "fee_currency", KindString),
	field("fee_currency", KindString),
})

// go test -v --run TestProjectRoundTrip
func TestProjectRoundTrip(t *testing.T) {
	raw := gjson.Parse(`{
		"id": 12345,
		"name": "alpha",
		"count": 7,
		"ratio": 0.25,
		"price": "6399.02",
		"live": true,
		"tags": ["a", "b"],
		"fee": "0.1",
		"extra": {"ignored": true},
		"another": 1
	}`)

	rec, err := ProjectRecord(testSchema, raw)
	require.NoError(t, err)
	require.Equal(t, "test", rec.Schema())
	require.Equal(t, []string{"id", "name", "count", "ratio", "price", "live", "tags", "fee"}, rec.Fields())
	require.False(t, rec.Has("extra"))
	require.False(t, rec.Has("another"))

	id, ok := rec.Str("id")
	require.True(t, ok)
	require.Equal(t, "12345", id)

	name, _ := rec.Str("name")
	require.Equal(t, "alpha", name)

	count, ok := rec.Int("count")
	require.True(t, ok)
	require.Equal(t, int64(7), count)

	ratio, ok := rec.Float("ratio")
	require.True(t, ok)
	require.Equal(t, 0.25, ratio)

	price, ok := rec.Decimal("price")
	require.True(t, ok)
	require.True(t, decimal.RequireFromString("6399.02").Equal(price))

	live, ok := rec.Bool("live")
	require.True(t, ok)
	require.True(t, live)

	tags, ok := rec.Strings("tags")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, tags)

	// accessors of the wrong kind report not-ok rather than converting
	_, ok = rec.Int("price")
	require.False(t, ok)
	_, ok = rec.Str("count")
	require.False(t, ok)
}

// go test -v --run TestProjectAbsentVersusNull
func TestProjectAbsentVersusNull(t *testing.T) {
	absent, err := ProjectRecord(testSchema, gjson.Parse(`{"name":"a"}`))
	require.NoError(t, err)
	null, err := ProjectRecord(testSchema, gjson.Parse(`{"name":"a","price":null}`))
	require.NoError(t, err)

	require.False(t, absent.Has("price"))
	require.False(t, absent.IsNull("price"))

	require.True(t, null.Has("price"))
	require.True(t, null.IsNull("price"))
	_, ok := null.Decimal("price")
	require.False(t, ok)

	require.NotContains(t, absent.Map(), "price")
	m := null.Map()
	require.Contains(t, m, "price")
	require.Nil(t, m["price"])
}

// go test -v --run TestProjectArrayPreservesOrder
func TestProjectArrayPreservesOrder(t *testing.T) {
	p, err := Project(testSchema, gjson.Parse(`[{"name":"a"},{"name":"b"},{"name":"c"}]`))
	require.NoError(t, err)
	require.True(t, p.IsList())

	records := p.Records()
	require.Len(t, records, 3)
	for i, want := range []string{"a", "b", "c"} {
		got, _ := records[i].Str("name")
		require.Equal(t, want, got)
	}

	_, ok := p.Record()
	require.False(t, ok)
}

// go test -v --run TestProjectEmptyArray
func TestProjectEmptyArray(t *testing.T) {
	p, err := Project(testSchema, gjson.Parse(`[]`))
	require.NoError(t, err)
	require.True(t, p.IsList())
	require.Empty(t, p.Records())

	c, err := ProjectCollection(testSchema, gjson.Parse(`[]`))
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Len(t, c, 0)
}

// go test -v --run TestProjectObject
func TestProjectObject(t *testing.T) {
	p, err := Project(testSchema, gjson.Parse(`{"name":"solo"}`))
	require.NoError(t, err)
	require.False(t, p.IsList())

	rec, ok := p.Record()
	require.True(t, ok)
	name, _ := rec.Str("name")
	require.Equal(t, "solo", name)
}

// go test -v --run TestProjectTypeMismatch
func TestProjectTypeMismatch(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		field    string
		expected string
	}{
		{"int as string", `{"count":"7"}`, "count", KindInt.String()},
		{"int with fraction", `{"count":7.5}`, "count", KindInt.String()},
		{"string as number", `{"name":42}`, "name", KindString.String()},
		{"decimal as bool", `{"price":true}`, "price", KindDecimal.String()},
		{"decimal garbage", `{"price":"abc"}`, "price", KindDecimal.String()},
		{"bool as string", `{"live":"true"}`, "live", KindBool.String()},
		{"list element", `{"tags":["a",1]}`, "tags[1]", "string"},
		{"fee without value", `{"fee":{"currency":"ETH"}}`, "fee", KindFee.String()},
		{"text as object", `{"id":{}}`, "id", KindText.String()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ProjectRecord(testSchema, gjson.Parse(tc.raw))
			var pe *ProjectionError
			require.ErrorAs(t, err, &pe)
			require.Equal(t, "test", pe.Schema)
			require.Equal(t, tc.field, pe.Field)
			require.Equal(t, tc.expected, pe.Expected)
			require.NotEmpty(t, pe.Actual)
		})
	}
}

// go test -v --run TestProjectNoIntegerTruncation
func TestProjectNoIntegerTruncation(t *testing.T) {
	rec, err := ProjectRecord(testSchema, gjson.Parse(`{"count":9007199254740993}`))
	require.NoError(t, err)
	n, ok := rec.Int("count")
	require.True(t, ok)
	require.Equal(t, int64(9007199254740993), n)

	_, err = ProjectRecord(testSchema, gjson.Parse(`{"count":99999999999999999999}`))
	require.Error(t, err)
}

// go test -v --run TestProjectRejectsBadShapes
func TestProjectRejectsBadShapes(t *testing.T) {
	for _, raw := range []string{`"x"`, `12`, `null`, `true`} {
		_, err := Project(testSchema, gjson.Parse(raw))
		var pe *ProjectionError
		require.ErrorAs(t, err, &pe, raw)
	}

	_, err := Project(testSchema, gjson.Parse(`[{"name":"a"}, 3]`))
	var pe *ProjectionError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "[1]", pe.Field)

	_, err = ProjectRecord(testSchema, gjson.Parse(`[]`))
	require.ErrorAs(t, err, &pe)
	_, err = ProjectCollection(testSchema, gjson.Parse(`{}`))
	require.ErrorAs(t, err, &pe)
}

// go test -v --run TestProjectFeeVariants
func TestProjectFeeVariants(t *testing.T) {
	cases := []struct {
		raw      string
		form     FeeForm
		currency string
	}{
		{`{"fee":"0.001"}`, FeeScalar, ""},
		{`{"fee":0.001}`, FeeScalar, ""},
		{`{"fee":{"value":"0.001"}}`, FeeKeyed, ""},
		{`{"fee":{"value":"0.001","currency":"ETH"}}`, FeeKeyed, "ETH"},
		{`{"fee":{"value":0.001,"currency":"ETH"}}`, FeeKeyed, "ETH"},
	}
	for _, tc := range cases {
		rec, err := ProjectRecord(testSchema, gjson.Parse(tc.raw))
		require.NoError(t, err, tc.raw)

		fee, ok := rec.Fee("fee")
		require.True(t, ok)
		require.Equal(t, tc.form, fee.Form(), tc.raw)
		require.Equal(t, "0.001", fee.Value(), tc.raw)

		amount, err := fee.Amount()
		require.NoError(t, err)
		require.Equal(t, "0.001", amount.String())

		cur, ok := fee.Currency()
		require.Equal(t, tc.currency != "", ok)
		require.Equal(t, tc.currency, cur)
	}
}

// go test -v --run TestProjectRenames
func TestProjectRenames(t *testing.T) {
	rec, err := ProjectRecord(testSchema, gjson.Parse(`{"feeCurrency":"USD"}`))
	require.NoError(t, err)
	cur, ok := rec.Str("fee_currency")
	require.True(t, ok)
	require.Equal(t, "USD", cur)
	require.False(t, rec.Has("feeCurrency"))

	// later schema entry wins when both spellings arrive
	rec, err = ProjectRecord(testSchema, gjson.Parse(`{"fee_currency":"EUR","feeCurrency":"USD"}`))
	require.NoError(t, err)
	cur, _ = rec.Str("fee_currency")
	require.Equal(t, "EUR", cur)
	require.Equal(t, 1, rec.Len())

	// a null spelling keeps the value of the other one, in either order
	for _, body := range []string{
		`{"fee_currency":"USD","feeCurrency":null}`,
		`{"fee_currency":null,"feeCurrency":"USD"}`,
	} {
		rec, err = ProjectRecord(OrderSchema, gjson.Parse(body))
		require.NoError(t, err)
		cur, ok = rec.Str(FieldFeeCurrency)
		require.True(t, ok, body)
		require.Equal(t, "USD", cur, body)
		require.False(t, rec.IsNull(FieldFeeCurrency), body)
	}

	rec, err = ProjectRecord(OrderSchema, gjson.Parse(`{"fee_currency":null,"feeCurrency":null}`))
	require.NoError(t, err)
	require.True(t, rec.IsNull(FieldFeeCurrency))
}

// go test -v --run TestProjectIsPure
func TestProjectIsPure(t *testing.T) {
	src := `{"id":"1","price":"2.50","tags":["x"],"fee":{"value":"1","currency":"BTC"}}`
	raw := gjson.Parse(src)

	a, err := ProjectRecord(testSchema, raw)
	require.NoError(t, err)
	b, err := ProjectRecord(testSchema, raw)
	require.NoError(t, err)

	require.Equal(t, a.Map(), b.Map())
	require.Equal(t, src, raw.Raw)

	tags, _ := a.Strings("tags")
	tags[0] = "mutated"
	again, _ := a.Strings("tags")
	require.Equal(t, []string{"x"}, again)
}

// go test -v --run TestOrderSchemaNestedFills
func TestOrderSchemaNestedFills(t *testing.T) {
	raw := gjson.Parse(`{
		"order_id": "44375901",
		"id": "44375901",
		"symbol": "btcusd",
		"exchange": "gemini",
		"avg_execution_price": "400.00",
		"side": "buy",
		"type": "exchange limit",
		"timestamp": "1494870642",
		"timestampms": 1494870642156,
		"is_live": false,
		"is_cancelled": false,
		"is_hidden": false,
		"was_forced": false,
		"executed_amount": "3",
		"remaining_amount": "0",
		"options": ["maker-or-cancel"],
		"price": "400.00",
		"original_amount": "3",
		"trades": [
			{"price":"400.00","amount":"1","timestamp":1494870642,"timestampms":1494870642156,
			 "type":"Buy","aggressor":false,"fee_currency":"USD","fee_amount":"0.60",
			 "tid":44375902,"order_id":"44375901","exchange":"gemini","is_auction_fill":false}
		]
	}`)

	rec, err := ProjectRecord(OrderSchema, raw)
	require.NoError(t, err)
	require.Nil(t, rec.ExchangeError())

	o := Order{rec}
	id, _ := o.OrderID()
	require.Equal(t, "44375901", id)
	live, ok := o.IsLive()
	require.True(t, ok)
	require.False(t, live)
	ts, ok := o.Time()
	require.True(t, ok)
	require.Equal(t, int64(1494870642156), ts.UnixMilli())

	fills, ok := o.Fills()
	require.True(t, ok)
	require.Len(t, fills, 1)
	tid, ok := fills[0].TradeID()
	require.True(t, ok)
	require.Equal(t, int64(44375902), tid)
	fillTs, _ := fills[0].Str(FieldTimestamp)
	require.Equal(t, "1494870642", fillTs)
	require.Equal(t, "fill", fills[0].Schema())
}

// go test -v --run TestNestedProjectionErrorPath
func TestNestedProjectionErrorPath(t *testing.T) {
	_, err := ProjectRecord(OrderSchema, gjson.Parse(`{"trades":[{"tid":1},{"tid":"x"}]}`))
	var pe *ProjectionError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "fill", pe.Schema)
	require.Equal(t, "trades[1].tid", pe.Field)
}

// go test -v --run TestExchangeErrorEnvelope
func TestExchangeErrorEnvelope(t *testing.T) {
	rec, err := ProjectRecord(OrderSchema, gjson.Parse(
		`{"result":"error","reason":"InsufficientFunds","message":"Failed to place buy order"}`))
	require.NoError(t, err)

	e := rec.ExchangeError()
	require.NotNil(t, e)
	require.Equal(t, "InsufficientFunds", e.Reason)
	require.Equal(t, "Failed to place buy order", e.Message)
	require.ErrorAs(t, Check(rec), &e)
	require.False(t, rec.Has(FieldOrderID))

	// a withdrawal description shares the message key without being an error
	ok, err := ProjectRecord(FundSchema, gjson.Parse(`{"address":"0xabc","message":"queued"}`))
	require.NoError(t, err)
	require.Nil(t, ok.ExchangeError())
	msg, _ := Transfer{ok}.Message()
	require.Equal(t, "queued", msg)
	require.NoError(t, CheckAll(Collection{ok}))
}

// go test -v --run TestFundSchemaMonthlyRemainingSpellings
func TestFundSchemaMonthlyRemainingSpellings(t *testing.T) {
	for _, raw := range []string{`{"montlyRemaining":5}`, `{"monthlyRemaining":5}`} {
		rec, err := ProjectRecord(FundSchema, gjson.Parse(raw))
		require.NoError(t, err)
		n, ok := rec.Int(FieldMonthlyRemaining)
		require.True(t, ok, raw)
		require.Equal(t, int64(5), n)
	}
}

// go test -v --run TestProjectCancellationFanOut
func TestProjectCancellationFanOut(t *testing.T) {
	records, err := ProjectCancellation(gjson.Parse(`{"details":{"cancelledOrders":["A"],"cancelRejects":["B"]}}`))
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, []map[string]any{
		{"order_id": "A", "success": true},
		{"order_id": "B", "success": false},
	}, records.Maps())
}

// go test -v --run TestProjectCancellationEdgeCases
func TestProjectCancellationEdgeCases(t *testing.T) {
	records, err := ProjectCancellation(gjson.Parse(
		`{"result":"ok","details":{"cancelRejects":[],"cancelledOrders":[330429345, "330429346", 330429345]}}`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	id, _ := CancelOutcome{records[0]}.OrderID()
	require.Equal(t, "330429345", id)

	records, err = ProjectCancellation(gjson.Parse(`{"details":{"cancelledOrders":[],"cancelRejects":[]}}`))
	require.NoError(t, err)
	require.Empty(t, records)

	// listed in both: later list wins, first position kept
	records, err = ProjectCancellation(gjson.Parse(
		`{"details":{"cancelledOrders":["A","C"],"cancelRejects":["A"]}}`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	first := CancelOutcome{records[0]}
	id, _ = first.OrderID()
	success, _ := first.Success()
	require.Equal(t, "A", id)
	require.False(t, success)

	records, err = ProjectCancellation(gjson.Parse(`{"result":"error","reason":"Unauthorized","message":"bad key"}`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ExchangeError())
	require.Error(t, CheckAll(records))

	var pe *ProjectionError
	_, err = ProjectCancellation(gjson.Parse(`{"details":{"cancelledOrders":"A"}}`))
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "details.cancelledOrders", pe.Field)

	_, err = ProjectCancellation(gjson.Parse(`{"details":{"cancelRejects":[true]}}`))
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "details.cancelRejects[0]", pe.Field)

	_, err = ProjectCancellation(gjson.Parse(`[]`))
	require.ErrorAs(t, err, &pe)
}

// go test -v --run TestDescribeTruncatesByRune
func TestDescribeTruncatesByRune(t *testing.T) {
	long := strings.Repeat("é", 40)
	got := describe(gjson.Parse(fmt.Sprintf("%q", long)))
	require.True(t, utf8.ValidString(got))
	require.Equal(t, fmt.Sprintf("string %q", strings.Repeat("é", 32)+"..."), got)

	short := describe(gjson.Parse(`"abc"`))
	require.Equal(t, `string "abc"`, short)
}
