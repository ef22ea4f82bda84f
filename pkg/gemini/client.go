package gemini

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Client exposes the private REST endpoints. Each method builds a payload,
// sends it through the Signer and projects the response with the endpoint's
// schema. An exchange-side rejection is not an error: it comes back as a
// record whose ExchangeError is set.
type Client struct {
	signer *Signer
	logger *zap.Logger
}

func NewClient(signer *Signer, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		signer: signer,
		logger: logger,
	}
}

// New builds a Client and its Signer from credentials.
func New(creds Credentials, logger *zap.Logger, opts ...SignerOption) *Client {
	if logger != nil {
		opts = append([]SignerOption{WithLogger(logger)}, opts...)
	}
	return NewClient(NewSigner(creds, opts...), logger)
}

func (c *Client) Signer() *Signer {
	return c.signer
}

// NewClientOrderID returns a random uuid4 for client_order_id.
func NewClientOrderID() string {
	return uuid.NewString()
}

// NewClientTransferID returns a random uuid4 for client_transfer_id, which
// makes a withdrawal idempotent on retry.
func NewClientTransferID() string {
	return uuid.NewString()
}

func (c *Client) send(ctx context.Context, endpoint string, payload *Payload) (gjson.Result, error) {
	raw, err := c.signer.AuthenticateAndSend(ctx, endpoint, payload)
	if err != nil {
		return gjson.Result{}, errors.Wrapf(err, "call %s", endpoint)
	}
	return raw, nil
}

func (c *Client) record(ctx context.Context, schema *Schema, endpoint string, payload *Payload) (Record, error) {
	raw, err := c.send(ctx, endpoint, payload)
	if err != nil {
		return Record{}, err
	}
	rec, err := ProjectRecord(schema, raw)
	if err != nil {
		return Record{}, errors.Wrapf(err, "project %s", endpoint)
	}
	c.logEnvelope(endpoint, rec)
	return rec, nil
}

// collection accepts either an array or, when the exchange rejects the call,
// a single envelope object.
func (c *Client) collection(ctx context.Context, schema *Schema, endpoint string, payload *Payload) (Collection, error) {
	raw, err := c.send(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}
	p, err := Project(schema, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "project %s", endpoint)
	}
	records := p.Records()
	if !p.IsList() {
		c.logEnvelope(endpoint, records[0])
	}
	return records, nil
}

func (c *Client) logEnvelope(endpoint string, rec Record) {
	if e := rec.ExchangeError(); e != nil {
		c.logger.Info("exchange rejected request",
			zap.String("endpoint", endpoint),
			zap.String("reason", e.Reason),
			zap.String("message", e.Message),
		)
	}
}

// accountList defaults to the primary account.
func accountList(accounts []string) []string {
	if len(accounts) == 0 {
		return []string{DefaultAccount}
	}
	out := make([]string, len(accounts))
	copy(out, accounts)
	return out
}

// sinceTimestamp resolves a since filter given as a YYYYMMDD date or as unix
// seconds; the explicit seconds value wins.
func sinceTimestamp(date string, unix int64) (int64, bool, error) {
	if unix > 0 {
		return unix, true, nil
	}
	if date == "" {
		return 0, false, nil
	}
	ts, err := DateToUnix(date)
	if err != nil {
		return 0, false, err
	}
	return ts, true, nil
}
