package gemini

// Target field names referenced by the typed views.
const (
	FieldOrderID          = "order_id"
	FieldID               = "id"
	FieldClientOrderID    = "client_order_id"
	FieldSymbol           = "symbol"
	FieldExchange         = "exchange"
	FieldSide             = "side"
	FieldType             = "type"
	FieldPrice            = "price"
	FieldAmount           = "amount"
	FieldAvgPrice         = "avg_execution_price"
	FieldExecutedAmount   = "executed_amount"
	FieldRemainingAmount  = "remaining_amount"
	FieldOriginalAmount   = "original_amount"
	FieldTimestamp        = "timestamp"
	FieldTimestampMs      = "timestampms"
	FieldIsLive           = "is_live"
	FieldIsCancelled      = "is_cancelled"
	FieldOptions          = "options"
	FieldTrades           = "trades"
	FieldFee              = "fee"
	FieldFeeAmount        = "fee_amount"
	FieldFeeCurrency      = "fee_currency"
	FieldTradeID          = "tid"
	FieldAggressor        = "aggressor"
	FieldSuccess          = "success"
	FieldCurrency         = "currency"
	FieldAvailable        = "available"
	FieldAvailableForWd   = "available_for_withdrawal"
	FieldStatus           = "status"
	FieldEID              = "eid"
	FieldTxHash           = "tx_hash"
	FieldDestination      = "destination"
	FieldAddress          = "address"
	FieldNetwork          = "network"
	FieldWithdrawalID     = "withdrawal_id"
	FieldBalances         = "balances"
	FieldBanks            = "banks"
	FieldNotional30d      = "notional_30d_volume"
	FieldNotional1d       = "notional_1d_volume"
	FieldAPIMakerFeeBps   = "api_maker_fee_bps"
	FieldAPITakerFeeBps   = "api_taker_fee_bps"
	FieldFXPair           = "fx_pair"
	FieldRate             = "rate"
	FieldAsOf             = "as_of"
	FieldProvider         = "provider"
	FieldBenchmark        = "benchmark"
	FieldTotalVolumeBase  = "total_volume_base"
	FieldNotionalVolume   = "notional_volume"
	FieldDate             = "date"
	FieldMonthlyRemaining = "monthly_remaining"
)

var envelopeFields = []Field{
	field(FieldResult, KindString),
	field(FieldReason, KindString),
	field(FieldMessage, KindString),
}

// fillFields are shared by past trades and the fills nested in order status.
var fillFields = []Field{
	field(FieldPrice, KindDecimal),
	field(FieldAmount, KindDecimal),
	field(FieldTimestamp, KindText),
	field(FieldTimestampMs, KindInt),
	field(FieldType, KindString),
	field(FieldAggressor, KindBool),
	field(FieldFeeCurrency, KindString),
	field(FieldFeeAmount, KindDecimal),
	field(FieldTradeID, KindInt),
	field(FieldOrderID, KindText),
	field(FieldClientOrderID, KindString),
	field(FieldExchange, KindString),
	field("is_auction_fill", KindBool),
	field("is_clearing_fill", KindBool),
	field(FieldSymbol, KindString),
	renamed("break", "break_type", KindString),
}

// FillSchema describes one execution inside an order status response.
var FillSchema = NewSchema("fill", fillFields)

// OrderSchema covers order placement, status, active orders, past trades,
// wrap orders and the heartbeat.
var OrderSchema = NewSchema("order",
	fillFields,
	[]Field{
		renamed("orderId", FieldOrderID, KindText),
		field(FieldID, KindText),
		field(FieldSide, KindString),
		field(FieldAvgPrice, KindDecimal),
		field(FieldIsLive, KindBool),
		field(FieldIsCancelled, KindBool),
		field("is_hidden", KindBool),
		field("was_forced", KindBool),
		field(FieldExecutedAmount, KindDecimal),
		field(FieldRemainingAmount, KindDecimal),
		field(FieldOriginalAmount, KindDecimal),
		field("stop_price", KindDecimal),
		field(FieldOptions, KindStringList),
		nested(FieldTrades, FillSchema),
		field("pair", KindString),
		renamed("priceCurrency", "price_currency", KindString),
		field("quantity", KindDecimal),
		renamed("quantityCurrency", "quantity_currency", KindString),
		renamed("totalSpend", "total_spend", KindDecimal),
		renamed("totalSpendCurrency", "total_spend_currency", KindString),
		field(FieldFee, KindFee),
		renamed("feeCurrency", FieldFeeCurrency, KindString),
		renamed("depositFee", "deposit_fee", KindDecimal),
		renamed("depositFeeCurrency", "deposit_fee_currency", KindString),
	},
	envelopeFields,
)

// CancellationSchema describes the records produced by cancellation fan-out.
var CancellationSchema = NewSchema("cancellation",
	[]Field{
		field(FieldOrderID, KindText),
		field(FieldSuccess, KindBool),
	},
	envelopeFields,
)

// BankSchema describes a linked bank inside payment methods.
var BankSchema = NewSchema("bank", []Field{
	field("bank", KindString),
	field(FieldID, KindString),
})

var balanceFields = []Field{
	field(FieldCurrency, KindString),
	field(FieldAmount, KindDecimal),
	field(FieldAvailable, KindDecimal),
	renamed("availableForWithdrawal", FieldAvailableForWd, KindDecimal),
	field(FieldType, KindString),
	renamed("amountNotional", "amount_notional", KindDecimal),
	renamed("availableNotional", "available_notional", KindDecimal),
	renamed("availableForWithdrawalNotional", "available_for_withdrawal_notional", KindDecimal),
}

// BalanceSchema describes one entry of a balances response.
var BalanceSchema = NewSchema("balance", balanceFields, envelopeFields)

// FundSchema covers transfers, custody fees, deposit addresses, withdrawals,
// gas fee estimates, bank additions and payment methods.
var FundSchema = NewSchema("fund",
	balanceFields,
	[]Field{
		field(FieldStatus, KindString),
		field(FieldTimestampMs, KindInt),
		field(FieldEID, KindInt),
		renamed("advanceEid", "advance_eid", KindInt),
		renamed("feeAmount", FieldFeeAmount, KindDecimal),
		renamed("feeCurrency", FieldFeeCurrency, KindString),
		field("method", KindString),
		renamed("txHash", FieldTxHash, KindString),
		renamed("outputIdx", "output_idx", KindInt),
		field(FieldDestination, KindString),
		field("purpose", KindString),
		renamed("txTime", "tx_time", KindText),
		renamed("eventType", "event_type", KindString),
		field(FieldAddress, KindString),
		field("label", KindString),
		field(FieldNetwork, KindString),
		field(FieldTimestamp, KindText),
		field(FieldFee, KindFee),
		renamed("withdrawalID", FieldWithdrawalID, KindString),
		renamed("withdrawalId", FieldWithdrawalID, KindString),
		renamed("clientTransferId", "client_transfer_id", KindString),
		renamed("isOverride", "is_override", KindBool),
		renamed("monthlyLimit", "monthly_limit", KindInt),
		renamed("montlyRemaining", FieldMonthlyRemaining, KindInt),
		renamed("monthlyRemaining", FieldMonthlyRemaining, KindInt),
		renamed("referenceId", "reference_id", KindString),
		nested(FieldBalances, BalanceSchema),
		nested(FieldBanks, BankSchema),
	},
	envelopeFields,
)

// DailyVolumeSchema describes an entry of notional_1d_volume.
var DailyVolumeSchema = NewSchema("daily_volume", []Field{
	field(FieldDate, KindString),
	field(FieldNotionalVolume, KindDecimal),
})

// FeeVolumeSchema covers notional volume and trade volume responses.
var FeeVolumeSchema = NewSchema("fee_volume",
	[]Field{
		field(FieldDate, KindString),
		field("last_updated_ms", KindInt),
		field("account_name", KindString),
		field("web_maker_fee_bps", KindInt),
		field("web_taker_fee_bps", KindInt),
		field("web_auction_fee_bps", KindInt),
		field(FieldAPIMakerFeeBps, KindInt),
		field(FieldAPITakerFeeBps, KindInt),
		field("api_auction_fee_bps", KindInt),
		field("fix_maker_fee_bps", KindInt),
		field("fix_taker_fee_bps", KindInt),
		field("fix_auction_fee_bps", KindInt),
		field("block_maker_fee_bps", KindInt),
		field("block_taker_fee_bps", KindInt),
		field(FieldNotional30d, KindDecimal),
		nested(FieldNotional1d, DailyVolumeSchema),
		field(FieldSymbol, KindString),
		field("base_currency", KindString),
		field("notional_currency", KindString),
		field("data_date", KindString),
		field(FieldTotalVolumeBase, KindDecimal),
		field("maker_buy_sell_ratio", KindDecimal),
		field("buy_maker_base", KindDecimal),
		field("buy_maker_notional", KindDecimal),
		field("buy_maker_count", KindInt),
		field("sell_maker_base", KindDecimal),
		field("sell_maker_notional", KindDecimal),
		field("sell_maker_count", KindInt),
		field("buy_taker_base", KindDecimal),
		field("buy_taker_notional", KindDecimal),
		field("buy_taker_count", KindInt),
		field("sell_taker_base", KindDecimal),
		field("sell_taker_notional", KindDecimal),
		field("sell_taker_count", KindInt),
	},
	envelopeFields,
)

// FXRateSchema covers the historical FX rate response.
var FXRateSchema = NewSchema("fx_rate",
	[]Field{
		renamed("fxPair", FieldFXPair, KindString),
		field(FieldRate, KindDecimal),
		renamed("asOf", FieldAsOf, KindInt),
		field(FieldProvider, KindString),
		field(FieldBenchmark, KindString),
	},
	envelopeFields,
)
