package gemini

import (
	"errors"
	"fmt"
)

// Credentials identifies an API key pair and the deployment it belongs to.
// The private key never leaves this value except as an HMAC key.
type Credentials struct {
	publicKey  string
	privateKey []byte
	env        Environment
	baseURL    string
}

// NewCredentials builds immutable credentials for env.
func NewCredentials(publicKey, privateKey string, env Environment) (Credentials, error) {
	if publicKey == "" {
		return Credentials{}, errors.New("gemini: public key is empty")
	}
	if privateKey == "" {
		return Credentials{}, errors.New("gemini: private key is empty")
	}
	baseURL, err := env.BaseURL()
	if err != nil {
		return Credentials{}, err
	}
	if env == "" {
		env = Production
	}
	return Credentials{
		publicKey:  publicKey,
		privateKey: []byte(privateKey),
		env:        env,
		baseURL:    baseURL,
	}, nil
}

func (c Credentials) PublicKey() string {
	return c.publicKey
}

func (c Credentials) Environment() Environment {
	return c.env
}

func (c Credentials) BaseURL() string {
	return c.baseURL
}

// String masks everything but a short prefix of the public key.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{key: %s, env: %s}", maskKey(c.publicKey), c.env)
}

func (c Credentials) GoString() string {
	return c.String()
}

func maskKey(key string) string {
	const visible = 6
	if len(key) <= visible {
		return "***"
	}
	return key[:visible] + "***"
}
