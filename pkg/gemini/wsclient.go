package gemini

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Subscription is one v2 market data channel request.
type Subscription struct {
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

type subscribeMessage struct {
	Type          string         `json:"type"`
	Subscriptions []Subscription `json:"subscriptions"`
}

// CandleChannel returns the stream channel name for a timeframe, e.g. candles_1m.
func CandleChannel(timeframe string) string {
	return "candles_" + timeframe
}

// WSClient handles the v2 market data WebSocket and message routing.
type WSClient struct {
	url            string
	subscriptions  func() []Subscription
	reconnectDelay time.Duration
	dialer         *websocket.Dialer
	handler        func([]byte)
	logger         *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSClient creates a client for url. subscriptions is re-evaluated on
// every (re)connect, so symbols added in between are picked up.
func NewWSClient(url string, subscriptions func() []Subscription, logger *zap.Logger) *WSClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSClient{
		url:            url,
		subscriptions:  subscriptions,
		reconnectDelay: 3 * time.Second,
		dialer:         websocket.DefaultDialer,
		logger:         logger,
	}
}

// SetMessageHandler sets the function to handle incoming messages.
func (c *WSClient) SetMessageHandler(h func([]byte)) {
	c.handler = h
}

// SetReconnectDelay changes the pause between reconnect attempts.
func (c *WSClient) SetReconnectDelay(d time.Duration) {
	c.reconnectDelay = d
}

// Connect dials and subscribes. It does not start the listener.
func (c *WSClient) Connect(ctx context.Context) error {
	if err := c.dialAndSubscribe(ctx); err != nil {
		c.logger.Error("Failed to connect to WebSocket", zap.String("url", c.url), zap.Error(err))
		return err
	}
	c.logger.Info("WebSocket connected", zap.String("url", c.url))
	return nil
}

// Listen reads messages until ctx is cancelled, reconnecting and
// resubscribing after read errors.
func (c *WSClient) Listen(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("WebSocket read error", zap.Error(err))
			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		if c.handler != nil {
			c.handler(msg)
		}
	}
}

// reconnect retries until a connection is established or ctx ends.
func (c *WSClient) reconnect(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.reconnectDelay):
		}
		if err := c.dialAndSubscribe(ctx); err != nil {
			c.logger.Warn("Retrying reconnect...", zap.Error(err))
			continue
		}
		c.logger.Info("Reconnected successfully")
		return true
	}
}

func (c *WSClient) dialAndSubscribe(ctx context.Context) error {
	newConn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	msg := subscribeMessage{Type: "subscribe", Subscriptions: c.subscriptions()}
	if err := newConn.WriteJSON(msg); err != nil {
		_ = newConn.Close()
		return fmt.Errorf("websocket subscribe failed: %w", err)
	}

	c.mu.Lock()
	old := c.conn
	c.conn = newConn
	c.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Close closes the current connection, if any.
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
