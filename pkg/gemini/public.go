package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// PublicClient fetches unauthenticated market data. Responses are returned
// as decoded JSON without projection.
type PublicClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewPublicClient(baseURL string, timeout time.Duration, logger *zap.Logger) *PublicClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *PublicClient) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *PublicClient) get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, &NetworkError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, &NetworkError{Endpoint: path, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("public request rejected", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return gjson.Result{}, &HTTPError{StatusCode: resp.StatusCode, URL: endpoint, Body: snippet(body)}
	}
	return decodeBody(path, resp.StatusCode, body)
}

func sinceQuery(since string) (url.Values, error) {
	if since == "" {
		return nil, nil
	}
	ts, err := DateToUnix(since)
	if err != nil {
		return nil, err
	}
	return url.Values{"since": {strconv.FormatInt(ts, 10)}}, nil
}

// Symbols lists all trading pairs, e.g. "btcusd".
func (c *PublicClient) Symbols(ctx context.Context) ([]string, error) {
	raw, err := c.get(ctx, "/v1/symbols", nil)
	if err != nil {
		return nil, err
	}
	if !raw.IsArray() {
		return nil, fmt.Errorf("symbols: expected array, got %s", describe(raw))
	}
	var out []string
	for _, s := range raw.Array() {
		if s.Type == gjson.String {
			out = append(out, s.Str)
		}
	}
	return out, nil
}

func (c *PublicClient) SymbolDetails(ctx context.Context, symbol string) (gjson.Result, error) {
	return c.get(ctx, "/v1/symbols/details/"+url.PathEscape(symbol), nil)
}

func (c *PublicClient) Ticker(ctx context.Context, symbol string) (gjson.Result, error) {
	return c.get(ctx, "/v1/pubticker/"+url.PathEscape(symbol), nil)
}

// TickerV2 includes the last 24 hourly prices and the best bid and ask.
func (c *PublicClient) TickerV2(ctx context.Context, symbol string) (gjson.Result, error) {
	return c.get(ctx, "/v2/ticker/"+url.PathEscape(symbol), nil)
}

// Candles returns bars for a symbol, most recent first.
func (c *PublicClient) Candles(ctx context.Context, symbol, timeframe string) ([]Candle, error) {
	if _, err := TimeframeDuration(timeframe); err != nil {
		return nil, err
	}
	raw, err := c.get(ctx, "/v2/candles/"+url.PathEscape(symbol)+"/"+timeframe, nil)
	if err != nil {
		return nil, err
	}
	return ParseCandles(symbol, timeframe, raw)
}

func (c *PublicClient) OrderBook(ctx context.Context, symbol string) (gjson.Result, error) {
	return c.get(ctx, "/v1/book/"+url.PathEscape(symbol), nil)
}

// Trades returns public trades, since a YYYYMMDD date when given.
func (c *PublicClient) Trades(ctx context.Context, symbol, since string) (gjson.Result, error) {
	q, err := sinceQuery(since)
	if err != nil {
		return gjson.Result{}, err
	}
	return c.get(ctx, "/v1/trades/"+url.PathEscape(symbol), q)
}

func (c *PublicClient) CurrentAuction(ctx context.Context, symbol string) (gjson.Result, error) {
	return c.get(ctx, "/v1/auction/"+url.PathEscape(symbol), nil)
}

// AuctionHistory returns auction events, since a YYYYMMDD date when given.
func (c *PublicClient) AuctionHistory(ctx context.Context, symbol, since string) (gjson.Result, error) {
	q, err := sinceQuery(since)
	if err != nil {
		return gjson.Result{}, err
	}
	return c.get(ctx, "/v1/auction/"+url.PathEscape(symbol)+"/history", q)
}

// PriceFeed lists the last price and 24h change of every pair.
func (c *PublicClient) PriceFeed(ctx context.Context) (gjson.Result, error) {
	return c.get(ctx, "/v1/pricefeed", nil)
}
