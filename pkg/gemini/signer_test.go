package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testPrivateKey = "x"

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0) }
}

func newTestSigner(t *testing.T, privateKey string, opts ...SignerOption) *Signer {
	t.Helper()
	creds, err := NewCredentials("account-abcdef123456", privateKey, Sandbox)
	require.NoError(t, err)
	return NewSigner(creds, opts...)
}

func orderPayload(price string) *Payload {
	return NewPayload().
		Set("symbol", "btcusd").
		Set("amount", "1").
		Set("price", price).
		Set("side", "buy")
}

// go test -v --run TestSignPinnedFixture
func TestSignPinnedFixture(t *testing.T) {
	s := newTestSigner(t, testPrivateKey)

	env, err := s.Sign(NewOrderEndpoint, orderPayload("100"), "1700000000000")
	require.NoError(t, err)

	require.Equal(t, "account-abcdef123456", env.APIKey)
	require.Equal(t,
		"eyJzeW1ib2wiOiJidGN1c2QiLCJhbW91bnQiOiIxIiwicHJpY2UiOiIxMDAiLCJzaWRlIjoiYnV5IiwicmVxdWVzdCI6Ii92MS9vcmRlci9uZXciLCJub25jZSI6IjE3MDAwMDAwMDAwMDAifQ==",
		env.Payload)
	require.Equal(t,
		"f29e79e375776b94e6525ac8add778767a98200cab111dea944427ef41d1abad6a69ac978f878c35cbc0c7492322f2c7",
		env.Signature)

	decoded, err := base64.StdEncoding.DecodeString(env.Payload)
	require.NoError(t, err)
	require.Equal(t,
		`{"symbol":"btcusd","amount":"1","price":"100","side":"buy","request":"/v1/order/new","nonce":"1700000000000"}`,
		string(decoded))
}

// go test -v --run TestSignEmptyPayload
func TestSignEmptyPayload(t *testing.T) {
	s := newTestSigner(t, "secret")

	env, err := s.Sign(HeartbeatEndpoint, NewPayload(), "1700000000000")
	require.NoError(t, err)
	require.Equal(t, "eyJyZXF1ZXN0IjoiL3YxL2hlYXJ0YmVhdCIsIm5vbmNlIjoiMTcwMDAwMDAwMDAwMCJ9", env.Payload)
	require.Equal(t,
		"92f9d98ccaf43e5cfb090b8abc47ddd8c0204ac7bb72eff2e0e3e9da0c6ffe77c83ebebd03bb9851be679b2140f02feb",
		env.Signature)

	// a nil payload signs like an empty one
	envNil, err := s.Sign(HeartbeatEndpoint, nil, "1700000000000")
	require.NoError(t, err)
	require.Equal(t, env.Signature, envNil.Signature)
}

// go test -v --run TestSignSensitivity
func TestSignSensitivity(t *testing.T) {
	s := newTestSigner(t, testPrivateKey)
	base, err := s.Sign(NewOrderEndpoint, orderPayload("100"), "1700000000000")
	require.NoError(t, err)

	price, err := s.Sign(NewOrderEndpoint, orderPayload("101"), "1700000000000")
	require.NoError(t, err)
	require.Equal(t,
		"91e998cad76843ede22ed5b639e6952963b30d71d10e7f6e47641cc559074f52c40a3cceeba2de1f5583015d58fbf13b",
		price.Signature)

	nonce, err := s.Sign(NewOrderEndpoint, orderPayload("100"), "1700000000001")
	require.NoError(t, err)
	endpoint, err := s.Sign(CancelOrderEndpoint, orderPayload("100"), "1700000000000")
	require.NoError(t, err)
	key, err := newTestSigner(t, "y").Sign(NewOrderEndpoint, orderPayload("100"), "1700000000000")
	require.NoError(t, err)

	seen := map[string]bool{base.Signature: true}
	for _, env := range []*SignedEnvelope{price, nonce, endpoint, key} {
		require.False(t, seen[env.Signature], "signature collision")
		seen[env.Signature] = true
	}

	again, err := s.Sign(NewOrderEndpoint, orderPayload("100"), "1700000000000")
	require.NoError(t, err)
	require.Equal(t, base, again)
}

// go test -v --run TestSignOverwritesInjectedFields
func TestSignOverwritesInjectedFields(t *testing.T) {
	s := newTestSigner(t, testPrivateKey)

	p := NewPayload().
		Set("nonce", "1").
		Set("symbol", "btcusd").
		Set("request", "/v1/other")
	env, err := s.Sign(NewOrderEndpoint, p, "1700000000000")
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(env.Payload)
	require.NoError(t, err)
	parsed := gjson.ParseBytes(decoded)
	require.Equal(t, NewOrderEndpoint, parsed.Get("request").Str)
	require.Equal(t, "1700000000000", parsed.Get("nonce").Str)

	// caller's payload is untouched
	require.Equal(t, []string{"nonce", "symbol", "request"}, p.Keys())
	v, _ := p.Get("nonce")
	require.Equal(t, "1", v)
}

// go test -v --run TestSignRejectsEmptyEndpoint
func TestSignRejectsEmptyEndpoint(t *testing.T) {
	s := newTestSigner(t, testPrivateKey)
	_, err := s.Sign("", NewPayload(), "1")
	require.Error(t, err)
}

// go test -v --run TestEnvelopeHeaders
func TestEnvelopeHeaders(t *testing.T) {
	env := &SignedEnvelope{APIKey: "k", Payload: "p", Signature: "s"}
	h := env.Headers()

	require.Len(t, h, 6)
	require.Equal(t, "text/plain", h.Get("Content-Type"))
	require.Equal(t, "0", h.Get("Content-Length"))
	require.Equal(t, "k", h.Get("X-GEMINI-APIKEY"))
	require.Equal(t, "p", h.Get("X-GEMINI-PAYLOAD"))
	require.Equal(t, "s", h.Get("X-GEMINI-SIGNATURE"))
	require.Equal(t, "no-cache", h.Get("Cache-Control"))
}

// go test -v --run TestAuthenticateAndSend
func TestAuthenticateAndSend(t *testing.T) {
	var got *http.Request
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"currency":"BTC","amount":"1.5"}]`)
	}))
	defer srv.Close()

	s := newTestSigner(t, testPrivateKey,
		WithBaseURL(srv.URL),
		WithNonceSource(newNonceSourceWithClock(fixedClock(1700000000))),
	)

	raw, err := s.AuthenticateAndSend(context.Background(), BalancesEndpoint, NewPayload().Set("account", []string{"primary"}))
	require.NoError(t, err)
	require.True(t, raw.IsArray())
	require.Equal(t, "1.5", raw.Get("0.amount").Str)

	require.Equal(t, http.MethodPost, got.Method)
	require.Equal(t, BalancesEndpoint, got.URL.Path)
	require.Empty(t, body)
	require.Equal(t, int64(0), got.ContentLength)
	require.Equal(t, "text/plain", got.Header.Get("Content-Type"))
	require.Equal(t, "no-cache", got.Header.Get("Cache-Control"))
	require.Equal(t, "account-abcdef123456", got.Header.Get(HeaderAPIKey))

	decoded, err := base64.StdEncoding.DecodeString(got.Header.Get(HeaderPayload))
	require.NoError(t, err)
	require.Equal(t,
		`{"account":["primary"],"request":"/v1/balances","nonce":"1700000000000"}`,
		string(decoded))

	want, err := s.Sign(BalancesEndpoint, NewPayload().Set("account", []string{"primary"}), "1700000000000")
	require.NoError(t, err)
	require.Equal(t, want.Signature, got.Header.Get(HeaderSignature))
}

// go test -v --run TestAuthenticateAndSendReturnsErrorEnvelope
func TestAuthenticateAndSendReturnsErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"result":"error","reason":"InvalidNonce","message":"Nonce must be increasing"}`)
	}))
	defer srv.Close()

	s := newTestSigner(t, testPrivateKey, WithBaseURL(srv.URL))
	raw, err := s.AuthenticateAndSend(context.Background(), NewOrderEndpoint, orderPayload("100"))
	require.NoError(t, err)
	require.Equal(t, "InvalidNonce", raw.Get("reason").Str)
}

// go test -v --run TestAuthenticateAndSendDecodeError
func TestAuthenticateAndSendDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	s := newTestSigner(t, testPrivateKey, WithBaseURL(srv.URL))
	_, err := s.AuthenticateAndSend(context.Background(), HeartbeatEndpoint, nil)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, http.StatusBadGateway, decodeErr.StatusCode)
	require.Equal(t, HeartbeatEndpoint, decodeErr.Endpoint)
	require.Contains(t, decodeErr.Snippet, "bad gateway")
}

// go test -v --run TestAuthenticateAndSendNetworkError
func TestAuthenticateAndSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := newTestSigner(t, testPrivateKey, WithBaseURL(url))
	_, err := s.AuthenticateAndSend(context.Background(), HeartbeatEndpoint, nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, HeartbeatEndpoint, netErr.Endpoint)
}

// go test -v --run TestAuthenticateAndSendContextDeadline
func TestAuthenticateAndSendContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	s := newTestSigner(t, testPrivateKey, WithBaseURL(srv.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.AuthenticateAndSend(ctx, HeartbeatEndpoint, nil)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// go test -v --run TestPrivateKeyNeverLeaks
func TestPrivateKeyNeverLeaks(t *testing.T) {
	const secret = "super-secret-private-key-value"

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent = append(sent, fmt.Sprint(r.Header))
		fmt.Fprint(w, `{"result":"ok"}`)
	}))
	okURL := srv.URL
	defer srv.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	creds, err := NewCredentials("account-abcdef123456", secret, Production)
	require.NoError(t, err)
	require.NotContains(t, creds.String(), secret)
	require.NotContains(t, fmt.Sprintf("%#v", creds), secret)
	require.NotContains(t, fmt.Sprintf("%v", creds), secret)

	_, err = NewSigner(creds, WithBaseURL(okURL), WithLogger(logger)).
		AuthenticateAndSend(context.Background(), HeartbeatEndpoint, nil)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.NotContains(t, sent[0], secret)

	_, err = NewSigner(creds, WithBaseURL(deadURL), WithLogger(logger)).
		AuthenticateAndSend(context.Background(), HeartbeatEndpoint, nil)
	require.Error(t, err)
	require.NotContains(t, err.Error(), secret)

	env, err := NewSigner(creds).Sign(HeartbeatEndpoint, nil, "1")
	require.NoError(t, err)
	require.NotContains(t, fmt.Sprintf("%+v", env), secret)

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		require.NotContains(t, entry.Message, secret)
		for k, v := range entry.ContextMap() {
			require.NotContains(t, fmt.Sprint(v), secret, "field %s", k)
		}
	}
}

// go test -v --run TestNonceSourceStrictlyIncreasing
func TestNonceSourceStrictlyIncreasing(t *testing.T) {
	now := int64(1700000000)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return time.Unix(now, 0)
	}
	n := newNonceSourceWithClock(clock)

	require.Equal(t, "1700000000000", n.Next())
	require.Equal(t, "1700000000001", n.Next())

	mu.Lock()
	now = 1600000000 // clock stepped back
	mu.Unlock()
	require.Equal(t, "1700000000002", n.Next())

	mu.Lock()
	now = 1700000005
	mu.Unlock()
	require.Equal(t, "1700000005000", n.Next())
}

// go test -v --run TestNonceSourceConcurrent
func TestNonceSourceConcurrent(t *testing.T) {
	n := newNonceSourceWithClock(fixedClock(1700000000))

	const workers, perWorker = 16, 50
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		all []int64
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var prev int64
			for i := 0; i < perWorker; i++ {
				v, err := strconv.ParseInt(n.Next(), 10, 64)
				assert.NoError(t, err)
				assert.Greater(t, v, prev)
				prev = v
				mu.Lock()
				all = append(all, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	require.Len(t, all, workers*perWorker)
	for i := 1; i < len(all); i++ {
		require.Equal(t, all[i-1]+1, all[i])
	}
}

// go test -v --run TestConcurrentSendsUseDistinctNonces
func TestConcurrentSendsUseDistinctNonces(t *testing.T) {
	var (
		mu     sync.Mutex
		nonces = map[string]int{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decoded, _ := base64.StdEncoding.DecodeString(r.Header.Get(HeaderPayload))
		mu.Lock()
		nonces[gjson.GetBytes(decoded, "nonce").Str]++
		mu.Unlock()
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	s := newTestSigner(t, testPrivateKey, WithBaseURL(srv.URL))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AuthenticateAndSend(context.Background(), HeartbeatEndpoint, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, nonces, 20)
	for nonce, count := range nonces {
		require.Equal(t, 1, count, nonce)
		require.False(t, strings.HasPrefix(nonce, "-"))
	}
}
