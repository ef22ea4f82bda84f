package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// PostgresConfig defines the configuration for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`

	// Parameter Store names read instead of Host/User/Password in prod.
	HostParam     string `mapstructure:"host_param"`
	UserParam     string `mapstructure:"user_param"`
	PasswordParam string `mapstructure:"password_param"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN builds a lib/pq connection string from the static values.
func (cfg PostgresConfig) DSN() string {
	return buildDSN(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.TimeZone)
}

// WithDBName returns a copy pointing at another database, e.g. the
// maintenance database used to create the target one.
func (cfg PostgresConfig) WithDBName(name string) PostgresConfig {
	cfg.DBName = name
	return cfg
}

// ResolveDSN returns DSN(), except in prod where host and credentials come
// from Parameter Store.
func (cfg PostgresConfig) ResolveDSN(ctx context.Context, env string, fetch ParameterFetcher) (string, error) {
	if env != "prod" {
		return cfg.DSN(), nil
	}
	if fetch == nil {
		fetch = SSMParameter
	}
	if cfg.HostParam == "" || cfg.UserParam == "" || cfg.PasswordParam == "" {
		return "", errors.New("postgres: host_param, user_param and password_param are required in prod")
	}

	host, err := fetch(ctx, cfg.HostParam, true)
	if err != nil {
		return "", err
	}
	user, err := fetch(ctx, cfg.UserParam, true)
	if err != nil {
		return "", err
	}
	password, err := fetch(ctx, cfg.PasswordParam, true)
	if err != nil {
		return "", err
	}
	return buildDSN(host, cfg.Port, user, password, cfg.DBName, cfg.SSLMode, cfg.TimeZone), nil
}

func buildDSN(host string, port int, user, password, dbname, sslmode, tz string) string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)
	if tz != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", tz)
	}
	return dsn
}

// ParameterFetcher reads one named secret.
type ParameterFetcher func(ctx context.Context, name string, decrypt bool) (string, error)

// SSMParameter reads a parameter from AWS Systems Manager Parameter Store
// using the default credential chain.
func SSMParameter(ctx context.Context, name string, decrypt bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)
	result, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: &decrypt,
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}
	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s has no value", name)
	}
	return *result.Parameter.Value, nil
}
