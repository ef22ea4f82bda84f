package gemini

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// NewOrderRequest places a limit order, or a stop-limit order when StopPrice
// is set.
type NewOrderRequest struct {
	Symbol        string
	Amount        string
	Price         string
	Side          string
	Options       []string
	StopPrice     string
	ClientOrderID string
}

func (c *Client) NewOrder(ctx context.Context, req NewOrderRequest) (Order, error) {
	options := req.Options
	if options == nil {
		options = []string{}
	}
	orderType := OrderTypeExchangeLimit
	if req.StopPrice != "" {
		orderType = OrderTypeExchangeStopLimit
	}

	payload := NewPayload().
		Set("symbol", req.Symbol).
		Set("amount", req.Amount).
		Set("price", req.Price).
		Set("side", req.Side).
		Set("options", options).
		Set("type", orderType).
		SetIf(req.StopPrice != "", "stop_price", req.StopPrice).
		SetIf(req.ClientOrderID != "", "client_order_id", req.ClientOrderID)

	rec, err := c.record(ctx, OrderSchema, NewOrderEndpoint, payload)
	return Order{rec}, err
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) (Order, error) {
	payload := NewPayload().Set("order_id", orderID)
	rec, err := c.record(ctx, OrderSchema, CancelOrderEndpoint, payload)
	return Order{rec}, err
}

// WrapOrderRequest wraps or unwraps a Gemini-issued asset.
type WrapOrderRequest struct {
	Symbol        string
	Amount        string
	Side          string
	ClientOrderID string
}

func (c *Client) WrapOrder(ctx context.Context, req WrapOrderRequest) (Order, error) {
	if req.Symbol == "" {
		return Order{}, errors.New("wrap order: symbol is required")
	}
	payload := NewPayload().
		Set("amount", req.Amount).
		Set("side", req.Side).
		SetIf(req.ClientOrderID != "", "client_order_id", req.ClientOrderID)

	rec, err := c.record(ctx, OrderSchema, fmt.Sprintf(WrapOrderEndpoint, req.Symbol), payload)
	return Order{rec}, err
}

// CancelSessionOrders cancels every order placed in this API session.
func (c *Client) CancelSessionOrders(ctx context.Context) ([]CancelOutcome, error) {
	return c.cancelMany(ctx, CancelSessionOrdersEndpoint)
}

// CancelActiveOrders cancels every open order of the account.
func (c *Client) CancelActiveOrders(ctx context.Context) ([]CancelOutcome, error) {
	return c.cancelMany(ctx, CancelAllOrdersEndpoint)
}

func (c *Client) cancelMany(ctx context.Context, endpoint string) ([]CancelOutcome, error) {
	raw, err := c.send(ctx, endpoint, NewPayload())
	if err != nil {
		return nil, err
	}
	records, err := ProjectCancellation(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "project %s", endpoint)
	}
	out := make([]CancelOutcome, len(records))
	for i, r := range records {
		out[i] = CancelOutcome{r}
	}
	return out, nil
}

// OrderStatusRequest identifies an order by exchange id or, when OrderID is
// empty, by client order id.
type OrderStatusRequest struct {
	OrderID       string
	ClientOrderID string
	IncludeTrades bool
}

func (c *Client) OrderStatus(ctx context.Context, req OrderStatusRequest) (Order, error) {
	if req.OrderID == "" && req.ClientOrderID == "" {
		return Order{}, errors.New("order status: order id or client order id is required")
	}
	payload := NewPayload().
		SetIf(req.OrderID != "", "order_id", req.OrderID).
		SetIf(req.OrderID == "", "client_order_id", req.ClientOrderID).
		Set("include_trades", req.IncludeTrades)

	rec, err := c.record(ctx, OrderSchema, OrderStatusEndpoint, payload)
	return Order{rec}, err
}

func (c *Client) ActiveOrders(ctx context.Context) ([]Order, error) {
	records, err := c.collection(ctx, OrderSchema, ActiveOrdersEndpoint, NewPayload())
	if err != nil {
		return nil, err
	}
	return ordersOf(records), nil
}

// PastTradesRequest filters /v1/mytrades. Since is a YYYYMMDD date; SinceUnix,
// in seconds, takes precedence when set.
type PastTradesRequest struct {
	Symbol      string
	Since       string
	SinceUnix   int64
	LimitTrades int
}

func (c *Client) PastTrades(ctx context.Context, req PastTradesRequest) ([]Order, error) {
	ts, hasSince, err := sinceTimestamp(req.Since, req.SinceUnix)
	if err != nil {
		return nil, errors.Wrap(err, "past trades")
	}
	payload := NewPayload().
		Set("symbol", req.Symbol).
		SetIf(hasSince, "timestamp", ts).
		SetIf(req.LimitTrades > 0, "limit_trades", req.LimitTrades)

	records, err := c.collection(ctx, OrderSchema, PastTradesEndpoint, payload)
	if err != nil {
		return nil, err
	}
	return ordersOf(records), nil
}

// Heartbeat keeps a session alive when the key requires heartbeats.
func (c *Client) Heartbeat(ctx context.Context) (Order, error) {
	rec, err := c.record(ctx, OrderSchema, HeartbeatEndpoint, NewPayload())
	return Order{rec}, err
}
