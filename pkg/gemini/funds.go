package gemini

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

func transfersOf(c Collection) []Transfer {
	out := make([]Transfer, len(c))
	for i, r := range c {
		out[i] = Transfer{r}
	}
	return out
}

func balancesOf(c Collection) []Balance {
	out := make([]Balance, len(c))
	for i, r := range c {
		out[i] = Balance{r}
	}
	return out
}

// AvailableBalances lists balances of the given accounts, primary by default.
func (c *Client) AvailableBalances(ctx context.Context, accounts ...string) ([]Balance, error) {
	payload := NewPayload().Set("account", accountList(accounts))
	records, err := c.collection(ctx, BalanceSchema, BalancesEndpoint, payload)
	if err != nil {
		return nil, err
	}
	return balancesOf(records), nil
}

// NotionalBalances lists balances valued in the given fiat currency.
func (c *Client) NotionalBalances(ctx context.Context, currency string, accounts ...string) ([]Balance, error) {
	if currency == "" {
		return nil, errors.New("notional balances: currency is required")
	}
	payload := NewPayload().Set("account", accountList(accounts))
	records, err := c.collection(ctx, BalanceSchema, fmt.Sprintf(NotionalBalancesEndpoint, currency), payload)
	if err != nil {
		return nil, err
	}
	return balancesOf(records), nil
}

// TransfersRequest filters /v1/transfers. Since is a YYYYMMDD date.
type TransfersRequest struct {
	Currency                     string
	Since                        string
	SinceUnix                    int64
	LimitTransfers               int
	ShowCompletedDepositAdvances bool
	Accounts                     []string
}

func (c *Client) Transfers(ctx context.Context, req TransfersRequest) ([]Transfer, error) {
	ts, hasSince, err := sinceTimestamp(req.Since, req.SinceUnix)
	if err != nil {
		return nil, errors.Wrap(err, "transfers")
	}
	payload := NewPayload().
		SetIf(req.Currency != "", "currency", req.Currency).
		SetIf(hasSince, "timestamp", ts).
		SetIf(req.LimitTransfers > 0, "limit_transfers", req.LimitTransfers).
		SetIf(req.ShowCompletedDepositAdvances, "show_completed_deposit_advances", true).
		Set("account", accountList(req.Accounts))

	records, err := c.collection(ctx, FundSchema, TransfersEndpoint, payload)
	if err != nil {
		return nil, err
	}
	return transfersOf(records), nil
}

// CustodyFeesRequest filters /v1/custodyaccountfees.
type CustodyFeesRequest struct {
	Since          string
	SinceUnix      int64
	LimitTransfers int
	Accounts       []string
}

func (c *Client) CustodyFees(ctx context.Context, req CustodyFeesRequest) ([]Transfer, error) {
	ts, hasSince, err := sinceTimestamp(req.Since, req.SinceUnix)
	if err != nil {
		return nil, errors.Wrap(err, "custody fees")
	}
	payload := NewPayload().
		SetIf(hasSince, "timestamp", ts).
		SetIf(req.LimitTransfers > 0, "limit_transfers", req.LimitTransfers).
		Set("account", accountList(req.Accounts))

	records, err := c.collection(ctx, FundSchema, CustodyFeesEndpoint, payload)
	if err != nil {
		return nil, err
	}
	return transfersOf(records), nil
}

// DepositAddresses lists addresses on a network such as "bitcoin" or
// "ethereum", optionally created since a YYYYMMDD date.
func (c *Client) DepositAddresses(ctx context.Context, network, since string, accounts ...string) ([]Transfer, error) {
	if network == "" {
		return nil, errors.New("deposit addresses: network is required")
	}
	ts, hasSince, err := sinceTimestamp(since, 0)
	if err != nil {
		return nil, errors.Wrap(err, "deposit addresses")
	}
	payload := NewPayload().
		SetIf(hasSince, "timestamp", ts).
		Set("account", accountList(accounts))

	records, err := c.collection(ctx, FundSchema, fmt.Sprintf(DepositAddressesEndpoint, network), payload)
	if err != nil {
		return nil, err
	}
	return transfersOf(records), nil
}

// NewDepositAddressRequest creates a deposit address. Legacy applies to
// litecoin only.
type NewDepositAddressRequest struct {
	Network  string
	Label    string
	Legacy   bool
	Accounts []string
}

func (c *Client) NewDepositAddress(ctx context.Context, req NewDepositAddressRequest) (Transfer, error) {
	if req.Network == "" {
		return Transfer{}, errors.New("new deposit address: network is required")
	}
	payload := NewPayload().
		SetIf(req.Label != "", "label", req.Label).
		SetIf(req.Legacy, "legacy", true).
		Set("account", accountList(req.Accounts))

	rec, err := c.record(ctx, FundSchema, fmt.Sprintf(NewDepositAddressEndpoint, req.Network), payload)
	return Transfer{rec}, err
}

// WithdrawRequest withdraws crypto to an allow-listed address.
type WithdrawRequest struct {
	Currency         string
	Address          string
	Amount           string
	ClientTransferID string
	Accounts         []string
}

func (c *Client) WithdrawCrypto(ctx context.Context, req WithdrawRequest) (Transfer, error) {
	if req.Currency == "" {
		return Transfer{}, errors.New("withdraw: currency is required")
	}
	payload := NewPayload().
		Set("address", req.Address).
		Set("amount", req.Amount).
		SetIf(req.ClientTransferID != "", "client_transfer_id", req.ClientTransferID).
		Set("account", accountList(req.Accounts))

	rec, err := c.record(ctx, FundSchema, fmt.Sprintf(WithdrawEndpoint, req.Currency), payload)
	return Transfer{rec}, err
}

// FeeEstimateRequest asks for the network fee of a prospective withdrawal.
type FeeEstimateRequest struct {
	Currency string
	Address  string
	Amount   string
	Accounts []string
}

func (c *Client) GasFeeEstimate(ctx context.Context, req FeeEstimateRequest) (Transfer, error) {
	if req.Currency == "" {
		return Transfer{}, errors.New("fee estimate: currency is required")
	}
	payload := NewPayload().
		Set("address", req.Address).
		Set("amount", req.Amount).
		Set("account", accountList(req.Accounts))

	rec, err := c.record(ctx, FundSchema, fmt.Sprintf(FeeEstimateEndpoint, req.Currency), payload)
	return Transfer{rec}, err
}

// USBankRequest links a US bank account. Type is "checking" or "savings".
type USBankRequest struct {
	AccountNumber string
	Routing       string
	Type          string
	Name          string
	Accounts      []string
}

func (c *Client) AddUSBank(ctx context.Context, req USBankRequest) (Transfer, error) {
	payload := NewPayload().
		Set("accountnumber", req.AccountNumber).
		Set("routing", req.Routing).
		Set("type", req.Type).
		Set("name", req.Name).
		Set("account", accountList(req.Accounts))

	rec, err := c.record(ctx, FundSchema, AddBankEndpoint, payload)
	return Transfer{rec}, err
}

// CADBankRequest links a Canadian bank account.
type CADBankRequest struct {
	SwiftCode         string
	AccountNumber     string
	Type              string
	Name              string
	InstitutionNumber string
	BranchNumber      string
	Accounts          []string
}

func (c *Client) AddCADBank(ctx context.Context, req CADBankRequest) (Transfer, error) {
	payload := NewPayload().
		Set("swiftcode", req.SwiftCode).
		Set("accountnumber", req.AccountNumber).
		Set("type", req.Type).
		Set("name", req.Name).
		SetIf(req.InstitutionNumber != "", "institutionnumber", req.InstitutionNumber).
		SetIf(req.BranchNumber != "", "branchnumber", req.BranchNumber).
		Set("account", accountList(req.Accounts))

	rec, err := c.record(ctx, FundSchema, AddBankCADEndpoint, payload)
	return Transfer{rec}, err
}

// PaymentMethods lists fiat balances and linked banks of one account.
func (c *Client) PaymentMethods(ctx context.Context, account string) (PaymentMethods, error) {
	if account == "" {
		account = DefaultAccount
	}
	payload := NewPayload().Set("account", account)
	rec, err := c.record(ctx, FundSchema, PaymentMethodsEndpoint, payload)
	return PaymentMethods{rec}, err
}
