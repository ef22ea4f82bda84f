package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// go test -v --run TestLoadFromFileAndEnv
func TestLoadFromFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
gemini:
  environment: production
  rest:
    timeout: 5s
  ws:
    symbols: [BTCUSD, ETHUSD]
archive:
  storage: postgres
  symbols: [btcusd]
postgres:
  host: db
  dbname: gemini
`)
	t.Setenv("GEMINI_API_KEY", "account-key")
	t.Setenv("POSTGRES_USER", "archiver")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Gemini.Environment)
	require.Equal(t, "account-key", cfg.Gemini.APIKey)
	require.Equal(t, 5*time.Second, cfg.Gemini.REST.Timeout)
	require.Equal(t, "1m", cfg.Gemini.WS.Timeframe)
	require.Equal(t, []string{"BTCUSD", "ETHUSD"}, cfg.Gemini.WS.Symbols)
	require.Equal(t, "postgres", cfg.Archive.Storage)
	require.Equal(t, 5, cfg.Archive.Concurrency)
	require.Equal(t, "archiver", cfg.Postgres.User)
	require.Equal(t, 5432, cfg.Postgres.Port)
}

// go test -v --run TestLoadFromDefaults
func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)
	require.Equal(t, "sandbox", cfg.Gemini.Environment)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "memory", cfg.Archive.Storage)

	url, err := cfg.Gemini.RESTBaseURL()
	require.NoError(t, err)
	require.Equal(t, "https://api.sandbox.gemini.com", url)
}

// go test -v --run TestLoadFromInvalid
func TestLoadFromInvalid(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, "gemini:\n  environment: staging\n"))
	require.Error(t, err)

	_, err = LoadFrom(writeConfig(t, "archive:\n  storage: s3\n"))
	require.Error(t, err)

	_, err = LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// go test -v --run TestGeminiCredentials
func TestGeminiCredentials(t *testing.T) {
	fetched := map[string]string{}
	fetch := func(_ context.Context, name string, decrypt bool) (string, error) {
		require.True(t, decrypt)
		fetched[name] = name
		switch name {
		case "/gemini/key":
			return "param-key", nil
		case "/gemini/secret":
			return "param-secret", nil
		}
		return "", errors.New("parameter not found")
	}

	g := GeminiConfig{Environment: "sandbox", APIKey: "inline-key", APISecretParam: "/gemini/secret"}
	creds, err := g.Credentials(context.Background(), fetch)
	require.NoError(t, err)
	require.Equal(t, "inline-key", creds.PublicKey())
	require.NotContains(t, creds.String(), "param-secret")
	require.NotContains(t, fetched, "/gemini/key")

	g = GeminiConfig{Environment: "sandbox", APIKeyParam: "/gemini/missing", APISecret: "s"}
	_, err = g.Credentials(context.Background(), fetch)
	require.ErrorContains(t, err, "resolve api key")

	g = GeminiConfig{Environment: "sandbox"}
	_, err = g.Credentials(context.Background(), fetch)
	require.ErrorContains(t, err, "credentials missing")
}

// go test -v --run TestPostgresResolveDSN
func TestPostgresResolveDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "gemini",
		SSLMode: "disable", TimeZone: "UTC",
		HostParam: "/db/host", UserParam: "/db/user", PasswordParam: "/db/password",
	}
	require.Equal(t, "host=localhost port=5432 user=u password=p dbname=gemini sslmode=disable TimeZone=UTC", cfg.DSN())
	require.Contains(t, cfg.WithDBName("postgres").DSN(), "dbname=postgres")

	dsn, err := cfg.ResolveDSN(context.Background(), "dev", nil)
	require.NoError(t, err)
	require.Equal(t, cfg.DSN(), dsn)

	values := map[string]string{"/db/host": "rds", "/db/user": "admin", "/db/password": "hunter2"}
	dsn, err = cfg.ResolveDSN(context.Background(), "prod", func(_ context.Context, name string, _ bool) (string, error) {
		return values[name], nil
	})
	require.NoError(t, err)
	require.Equal(t, "host=rds port=5432 user=admin password=hunter2 dbname=gemini sslmode=disable TimeZone=UTC", dsn)

	cfg.HostParam = ""
	_, err = cfg.ResolveDSN(context.Background(), "prod", nil)
	require.Error(t, err)
}
