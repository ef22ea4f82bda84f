package gemini

import (
	"strconv"
	"sync"
	"time"
)

// NonceSource hands out request nonces for one set of credentials.
//
// A nonce is the wall clock in whole seconds multiplied by 1000. Calls that
// land in the same second, or after the clock stepped backwards, get the
// previous nonce plus one, so the sequence is strictly increasing across
// goroutines.
type NonceSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewNonceSource() *NonceSource {
	return &NonceSource{now: time.Now}
}

// newNonceSourceWithClock is used by tests to pin the clock.
func newNonceSourceWithClock(now func() time.Time) *NonceSource {
	return &NonceSource{now: now}
}

// Next returns the next nonce as a decimal string.
func (n *NonceSource) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	candidate := n.now().Unix() * 1000
	if candidate <= n.last {
		candidate = n.last + 1
	}
	n.last = candidate
	return strconv.FormatInt(candidate, 10)
}
