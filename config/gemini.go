package config

import (
	"context"
	"fmt"

	"geminirest/pkg/gemini"
)

// GeminiConfig selects the deployment and the API key. The key pair is
// taken from APIKey/APISecret, or from Parameter Store when only the
// *_param names are set.
type GeminiConfig struct {
	Environment    string     `mapstructure:"environment"` // "production" or "sandbox"
	APIKey         string     `mapstructure:"api_key"`
	APISecret      string     `mapstructure:"api_secret"`
	APIKeyParam    string     `mapstructure:"api_key_param"`
	APISecretParam string     `mapstructure:"api_secret_param"`
	REST           RESTConfig `mapstructure:"rest"`
	WS             WSConfig   `mapstructure:"ws"`
}

// Env parses Environment.
func (g GeminiConfig) Env() (gemini.Environment, error) {
	return gemini.ParseEnvironment(g.Environment)
}

// RESTBaseURL returns the configured override or the environment's URL.
func (g GeminiConfig) RESTBaseURL() (string, error) {
	if g.REST.BaseURL != "" {
		return g.REST.BaseURL, nil
	}
	env, err := g.Env()
	if err != nil {
		return "", err
	}
	return env.BaseURL()
}

// WSURL returns the configured override or the environment's market data URL.
func (g GeminiConfig) WSURL() (string, error) {
	if g.WS.URL != "" {
		return g.WS.URL, nil
	}
	env, err := g.Env()
	if err != nil {
		return "", err
	}
	return env.MarketDataURL()
}

// Credentials resolves the key pair. Secrets are never included in errors.
func (g GeminiConfig) Credentials(ctx context.Context, fetch ParameterFetcher) (gemini.Credentials, error) {
	env, err := g.Env()
	if err != nil {
		return gemini.Credentials{}, err
	}
	if fetch == nil {
		fetch = SSMParameter
	}

	key, secret := g.APIKey, g.APISecret
	if key == "" && g.APIKeyParam != "" {
		if key, err = fetch(ctx, g.APIKeyParam, true); err != nil {
			return gemini.Credentials{}, fmt.Errorf("resolve api key: %w", err)
		}
	}
	if secret == "" && g.APISecretParam != "" {
		if secret, err = fetch(ctx, g.APISecretParam, true); err != nil {
			return gemini.Credentials{}, fmt.Errorf("resolve api secret: %w", err)
		}
	}
	if key == "" || secret == "" {
		return gemini.Credentials{}, fmt.Errorf("gemini credentials missing: set GEMINI_API_KEY and GEMINI_API_SECRET or the *_param names")
	}
	return gemini.NewCredentials(key, secret, env)
}
