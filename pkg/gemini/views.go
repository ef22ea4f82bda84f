package gemini

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an order, fill or trade record. Every accessor reports whether the
// field was sent.
type Order struct {
	Record
}

func (o Order) OrderID() (string, bool) { return o.Str(FieldOrderID) }
func (o Order) ClientOrderID() (string, bool) { return o.Str(FieldClientOrderID) }
func (o Order) Symbol() (string, bool) { return o.Str(FieldSymbol) }
func (o Order) Side() (string, bool) { return o.Str(FieldSide) }
func (o Order) Type() (string, bool) { return o.Str(FieldType) }
func (o Order) Price() (decimal.Decimal, bool) { return o.Decimal(FieldPrice) }
func (o Order) Amount() (decimal.Decimal, bool) { return o.Decimal(FieldAmount) }
func (o Order) ExecutedAmount() (decimal.Decimal, bool) { return o.Decimal(FieldExecutedAmount) }
func (o Order) RemainingAmount() (decimal.Decimal, bool) {
	return o.Decimal(FieldRemainingAmount)
}
func (o Order) IsLive() (bool, bool) { return o.Bool(FieldIsLive) }
func (o Order) IsCancelled() (bool, bool) { return o.Bool(FieldIsCancelled) }
func (o Order) TradeID() (int64, bool) { return o.Int(FieldTradeID) }
func (o Order) Fee() (Fee, bool) { return o.Record.Fee(FieldFee) }
func (o Order) FeeCurrency() (string, bool) { return o.Str(FieldFeeCurrency) }
func (o Order) FeeAmount() (decimal.Decimal, bool) { return o.Decimal(FieldFeeAmount) }
func (o Order) Aggressor() (bool, bool) { return o.Bool(FieldAggressor) }
func (o Order) Exchange() (string, bool) { return o.Str(FieldExchange) }

// Time returns timestampms as a time.
func (o Order) Time() (time.Time, bool) {
	ms, ok := o.Int(FieldTimestampMs)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// Fills returns the executions embedded by order status with include_trades.
func (o Order) Fills() ([]Order, bool) {
	c, ok := o.Records(FieldTrades)
	if !ok {
		return nil, false
	}
	return ordersOf(c), true
}

func ordersOf(c Collection) []Order {
	out := make([]Order, len(c))
	for i, r := range c {
		out[i] = Order{r}
	}
	return out
}

// CancelOutcome is one order id from a bulk cancellation.
type CancelOutcome struct {
	Record
}

func (c CancelOutcome) OrderID() (string, bool) { return c.Str(FieldOrderID) }
func (c CancelOutcome) Success() (bool, bool) { return c.Bool(FieldSuccess) }

// Balance is one currency balance.
type Balance struct {
	Record
}

func (b Balance) Currency() (string, bool) { return b.Str(FieldCurrency) }
func (b Balance) Amount() (decimal.Decimal, bool) { return b.Decimal(FieldAmount) }
func (b Balance) Available() (decimal.Decimal, bool) { return b.Decimal(FieldAvailable) }
func (b Balance) AvailableForWithdrawal() (decimal.Decimal, bool) {
	return b.Decimal(FieldAvailableForWd)
}

// Transfer is a funding record: transfer, custody fee, deposit address,
// withdrawal, fee estimate or bank addition.
type Transfer struct {
	Record
}

func (t Transfer) Currency() (string, bool) { return t.Str(FieldCurrency) }
func (t Transfer) Amount() (decimal.Decimal, bool) { return t.Decimal(FieldAmount) }
func (t Transfer) Type() (string, bool) { return t.Str(FieldType) }
func (t Transfer) Status() (string, bool) { return t.Str(FieldStatus) }
func (t Transfer) EID() (int64, bool) { return t.Int(FieldEID) }
func (t Transfer) TxHash() (string, bool) { return t.Str(FieldTxHash) }
func (t Transfer) Address() (string, bool) { return t.Str(FieldAddress) }
func (t Transfer) Destination() (string, bool) { return t.Str(FieldDestination) }
func (t Transfer) WithdrawalID() (string, bool) { return t.Str(FieldWithdrawalID) }
func (t Transfer) Fee() (Fee, bool) { return t.Record.Fee(FieldFee) }

// Message is the withdrawal description on success; on failure the same key
// carries the error text, available through ExchangeError.
func (t Transfer) Message() (string, bool) { return t.Str(FieldMessage) }

// PaymentMethods lists balances and linked banks.
type PaymentMethods struct {
	Record
}

func (p PaymentMethods) Balances() ([]Balance, bool) {
	c, ok := p.Records(FieldBalances)
	if !ok {
		return nil, false
	}
	out := make([]Balance, len(c))
	for i, r := range c {
		out[i] = Balance{r}
	}
	return out, true
}

func (p PaymentMethods) Banks() (Collection, bool) { return p.Records(FieldBanks) }

// FeeVolume is a notional volume or per-symbol trade volume record.
type FeeVolume struct {
	Record
}

func (f FeeVolume) Symbol() (string, bool) { return f.Str(FieldSymbol) }
func (f FeeVolume) APIMakerFeeBps() (int64, bool) { return f.Int(FieldAPIMakerFeeBps) }
func (f FeeVolume) APITakerFeeBps() (int64, bool) { return f.Int(FieldAPITakerFeeBps) }
func (f FeeVolume) Notional30d() (decimal.Decimal, bool) { return f.Decimal(FieldNotional30d) }
func (f FeeVolume) TotalVolumeBase() (decimal.Decimal, bool) { return f.Decimal(FieldTotalVolumeBase) }
func (f FeeVolume) DailyVolumes() (Collection, bool) { return f.Records(FieldNotional1d) }

// FXRate is a historical FX reference rate.
type FXRate struct {
	Record
}

func (f FXRate) Pair() (string, bool) { return f.Str(FieldFXPair) }
func (f FXRate) Rate() (decimal.Decimal, bool) { return f.Decimal(FieldRate) }
func (f FXRate) Provider() (string, bool) { return f.Str(FieldProvider) }
func (f FXRate) Benchmark() (string, bool) { return f.Str(FieldBenchmark) }

func (f FXRate) AsOf() (time.Time, bool) {
	ms, ok := f.Int(FieldAsOf)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}
