package gemini

import (
	"github.com/shopspring/decimal"
)

// FeeForm tells which of the two wire shapes a fee arrived in.
type FeeForm int

const (
	FeeScalar FeeForm = iota + 1 // "fee": "0.001" or "fee": 0.001
	FeeKeyed                     // "fee": {"value": "0.001", "currency": "ETH"}
)

// Fee is a fee value normalised from either wire shape.
type Fee struct {
	form     FeeForm
	value    string
	currency string
}

func ScalarFee(value string) Fee {
	return Fee{form: FeeScalar, value: value}
}

func KeyedFee(value, currency string) Fee {
	return Fee{form: FeeKeyed, value: value, currency: currency}
}

func (f Fee) Form() FeeForm {
	return f.form
}

// Value is the fee as sent by the exchange, identical for both forms.
func (f Fee) Value() string {
	return f.value
}

// Currency is only carried by the keyed form.
func (f Fee) Currency() (string, bool) {
	if f.form != FeeKeyed || f.currency == "" {
		return "", false
	}
	return f.currency, true
}

func (f Fee) Amount() (decimal.Decimal, error) {
	return decimal.NewFromString(f.value)
}
