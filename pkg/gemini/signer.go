package gemini

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// SignedEnvelope is the authentication material for a single private call.
type SignedEnvelope struct {
	APIKey    string
	Payload   string // base64 of the JSON payload
	Signature string // lowercase hex HMAC-SHA384 of Payload
}

// Headers returns the header set the exchange expects on a private call.
func (e *SignedEnvelope) Headers() http.Header {
	h := make(http.Header, 6)
	h.Set("Content-Type", "text/plain")
	h.Set("Content-Length", "0")
	h.Set(HeaderAPIKey, e.APIKey)
	h.Set(HeaderPayload, e.Payload)
	h.Set(HeaderSignature, e.Signature)
	h.Set("Cache-Control", "no-cache")
	return h
}

// Signer authenticates and dispatches private API calls for one set of
// credentials. It is safe for concurrent use.
type Signer struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
	nonces     *NonceSource
	logger     *zap.Logger
}

// SignerOption customises a Signer.
type SignerOption func(*Signer)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) SignerOption {
	return func(s *Signer) {
		s.httpClient = c
	}
}

// WithBaseURL overrides the environment's base URL (tests, proxies).
func WithBaseURL(u string) SignerOption {
	return func(s *Signer) {
		s.baseURL = u
	}
}

// WithLogger attaches a logger. Only endpoint, nonce and timings are logged.
func WithLogger(l *zap.Logger) SignerOption {
	return func(s *Signer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNonceSource shares a nonce source, e.g. between a Signer and a
// replacement built for the same key.
func WithNonceSource(n *NonceSource) SignerOption {
	return func(s *Signer) {
		if n != nil {
			s.nonces = n
		}
	}
}

func NewSigner(creds Credentials, opts ...SignerOption) *Signer {
	s := &Signer{
		creds:      creds,
		baseURL:    creds.BaseURL(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		nonces:     NewNonceSource(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Signer) Credentials() Credentials {
	return s.creds
}

// Sign builds the envelope for endpoint with an explicit nonce. The caller's
// payload is left untouched; request and nonce are appended to a copy.
func (s *Signer) Sign(endpoint string, payload *Payload, nonce string) (*SignedEnvelope, error) {
	if endpoint == "" {
		return nil, errors.New("gemini: endpoint is empty")
	}

	p := payload.Clone()
	p.Set(payloadRequestKey, endpoint)
	p.Set(payloadNonceKey, nonce)

	raw, err := p.Encode()
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	mac := hmac.New(sha512.New384, s.creds.privateKey)
	mac.Write([]byte(encoded))

	return &SignedEnvelope{
		APIKey:    s.creds.publicKey,
		Payload:   encoded,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}, nil
}

// AuthenticateAndSend signs payload for endpoint, POSTs it and returns the
// decoded JSON body as-is. HTTP status codes and the exchange's error
// envelope are not inspected here.
func (s *Signer) AuthenticateAndSend(ctx context.Context, endpoint string, payload *Payload) (gjson.Result, error) {
	nonce := s.nonces.Next()
	env, err := s.Sign(endpoint, payload, nonce)
	if err != nil {
		return gjson.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, http.NoBody)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = env.Headers()

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("private request failed",
			zap.String("endpoint", endpoint),
			zap.String("nonce", nonce),
			zap.Error(err),
		)
		return gjson.Result{}, &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, &NetworkError{Endpoint: endpoint, Err: fmt.Errorf("reading body: %w", err)}
	}

	s.logger.Debug("private request completed",
		zap.String("endpoint", endpoint),
		zap.String("nonce", nonce),
		zap.String("api_key", maskKey(s.creds.publicKey)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	return decodeBody(endpoint, resp.StatusCode, body)
}

// decodeBody validates body as JSON and parses it.
func decodeBody(endpoint string, status int, body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &DecodeError{
			Endpoint:   endpoint,
			StatusCode: status,
			Snippet:    snippet(body),
			Err:        errors.New("body is not valid JSON"),
		}
	}
	return gjson.ParseBytes(body), nil
}
