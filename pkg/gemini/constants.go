package gemini

import "fmt"

// Environment selects which Gemini deployment a client talks to.
type Environment string

const (
	Production Environment = "production"
	Sandbox    Environment = "sandbox"
)

const (
	ProductionBaseURL = "https://api.gemini.com"
	SandboxBaseURL    = "https://api.sandbox.gemini.com"

	ProductionMarketDataURL = "wss://api.gemini.com/v2/marketdata"
	SandboxMarketDataURL    = "wss://api.sandbox.gemini.com/v2/marketdata"
)

// Authentication headers.
const (
	HeaderAPIKey    = "X-GEMINI-APIKEY"
	HeaderPayload   = "X-GEMINI-PAYLOAD"
	HeaderSignature = "X-GEMINI-SIGNATURE"
)

// Private endpoints. Paths containing %s are formatted with a path parameter.
const (
	NewOrderEndpoint            = "/v1/order/new"
	CancelOrderEndpoint         = "/v1/order/cancel"
	WrapOrderEndpoint           = "/v1/wrap/%s"
	CancelSessionOrdersEndpoint = "/v1/order/cancel/session"
	CancelAllOrdersEndpoint     = "/v1/order/cancel/all"
	OrderStatusEndpoint         = "/v1/order/status"
	ActiveOrdersEndpoint        = "/v1/orders"
	PastTradesEndpoint          = "/v1/mytrades"
	HeartbeatEndpoint           = "/v1/heartbeat"

	BalancesEndpoint          = "/v1/balances"
	NotionalBalancesEndpoint  = "/v1/notionalbalances/%s"
	TransfersEndpoint         = "/v1/transfers"
	CustodyFeesEndpoint       = "/v1/custodyaccountfees"
	DepositAddressesEndpoint  = "/v1/addresses/%s"
	NewDepositAddressEndpoint = "/v1/deposit/%s/newAddress"
	WithdrawEndpoint          = "/v1/withdraw/%s"
	FeeEstimateEndpoint       = "/v1/withdraw/%s/feeEstimate"
	AddBankEndpoint           = "/v1/payments/addbank"
	AddBankCADEndpoint        = "/v1/payments/addbank/cad"
	PaymentMethodsEndpoint    = "/v1/payments/methods"

	NotionalVolumeEndpoint = "/v1/notionalvolume"
	TradeVolumeEndpoint    = "/v1/tradevolume"
	FXRateEndpoint         = "/v2/fxrate/%s/%d"
)

// Order types accepted by NewOrder.
const (
	OrderTypeExchangeLimit     = "exchange limit"
	OrderTypeExchangeStopLimit = "exchange stop limit"
)

// Order sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// DefaultAccount is sent when a caller does not name a sub-account.
const DefaultAccount = "primary"

// BaseURL returns the REST base URL for the environment.
func (e Environment) BaseURL() (string, error) {
	switch e {
	case Production, "":
		return ProductionBaseURL, nil
	case Sandbox:
		return SandboxBaseURL, nil
	default:
		return "", fmt.Errorf("unknown gemini environment: %q", string(e))
	}
}

// MarketDataURL returns the v2 market data WebSocket URL for the environment.
func (e Environment) MarketDataURL() (string, error) {
	switch e {
	case Production, "":
		return ProductionMarketDataURL, nil
	case Sandbox:
		return SandboxMarketDataURL, nil
	default:
		return "", fmt.Errorf("unknown gemini environment: %q", string(e))
	}
}

// ParseEnvironment parses a configuration value into an Environment.
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(s)
	if _, err := env.BaseURL(); err != nil {
		return "", err
	}
	if env == "" {
		env = Production
	}
	return env, nil
}
