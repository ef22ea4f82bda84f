package gemini

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// Payload keys injected by the Signer.
const (
	payloadRequestKey = "request"
	payloadNonceKey   = "nonce"
)

type payloadField struct {
	key   string
	value any
}

// Payload is an insertion-ordered set of request parameters. Values may be
// strings, numbers, booleans, slices or maps; they are encoded with their
// JSON representation.
type Payload struct {
	fields []payloadField
}

func NewPayload() *Payload {
	return &Payload{}
}

// Set adds key or replaces its value in place. On a nil payload it starts a
// new one and returns it.
func (p *Payload) Set(key string, value any) *Payload {
	if p == nil {
		p = NewPayload()
	}
	for i := range p.fields {
		if p.fields[i].key == key {
			p.fields[i].value = value
			return p
		}
	}
	p.fields = append(p.fields, payloadField{key: key, value: value})
	return p
}

// SetIf sets key only when cond holds; used for optional parameters.
func (p *Payload) SetIf(cond bool, key string, value any) *Payload {
	if cond {
		p = p.Set(key, value)
	}
	return p
}

func (p *Payload) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	for _, f := range p.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (p *Payload) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.fields))
	for i, f := range p.fields {
		keys[i] = f.key
	}
	return keys
}

func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.fields)
}

// Clone returns a shallow copy; values themselves are shared.
func (p *Payload) Clone() *Payload {
	out := NewPayload()
	if p == nil {
		return out
	}
	out.fields = make([]payloadField, len(p.fields))
	copy(out.fields, p.fields)
	return out
}

// Encode renders the payload as compact JSON with keys in insertion order.
// The same logical payload always yields the same bytes.
func (p *Payload) Encode() ([]byte, error) {
	out := []byte("{}")
	if p == nil {
		return out, nil
	}
	var err error
	for _, f := range p.fields {
		out, err = sjson.SetBytes(out, sjsonKey(f.key), f.value)
		if err != nil {
			return nil, fmt.Errorf("encode payload field %q: %w", f.key, err)
		}
	}
	return out, nil
}

// sjsonKey turns a literal object key into an sjson path addressing it.
func sjsonKey(key string) string {
	var b strings.Builder
	numeric := key != ""
	for _, r := range key {
		if r < '0' || r > '9' {
			numeric = false
		}
		isPlain := r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isPlain {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	if numeric {
		// a bare number would address an array index
		return ":" + b.String()
	}
	return b.String()
}
