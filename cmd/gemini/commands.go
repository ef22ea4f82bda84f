package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"geminirest/config"
	"geminirest/internal/archive"
	"geminirest/internal/marketdata"
	"geminirest/logger"
	"geminirest/pkg/gemini"
	"geminirest/pkg/storage"
	"geminirest/pkg/storage/memory"
	"geminirest/pkg/storage/postgres"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	metaConfig = "config"
	metaLogger = "logger"
)

func setup(c *cli.Context) error {
	path := c.String("config")
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg = config.Load()
	} else if cfg, err = config.LoadFrom(path); err != nil {
		return err
	}

	name := "gemini"
	if args := c.Args(); args.Present() {
		name = args.First()
	}
	log, err := logger.New(name, cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	c.App.Metadata = map[string]any{metaConfig: cfg, metaLogger: log}
	return nil
}

func teardown(c *cli.Context) error {
	if log, ok := c.App.Metadata[metaLogger].(*zap.Logger); ok {
		_ = log.Sync()
	}
	return nil
}

func appConfig(c *cli.Context) *config.Config {
	return c.App.Metadata[metaConfig].(*config.Config)
}

func appLogger(c *cli.Context) *zap.Logger {
	return c.App.Metadata[metaLogger].(*zap.Logger)
}

func privateClient(c *cli.Context) (*gemini.Client, error) {
	cfg := appConfig(c)
	creds, err := cfg.Gemini.Credentials(c.Context, nil)
	if err != nil {
		return nil, err
	}
	baseURL, err := cfg.Gemini.RESTBaseURL()
	if err != nil {
		return nil, err
	}
	return gemini.New(creds, appLogger(c), gemini.WithBaseURL(baseURL)), nil
}

func publicClient(c *cli.Context) (*gemini.PublicClient, error) {
	cfg := appConfig(c)
	baseURL, err := cfg.Gemini.RESTBaseURL()
	if err != nil {
		return nil, err
	}
	return gemini.NewPublicClient(baseURL, cfg.Gemini.REST.Timeout, appLogger(c)), nil
}

// openStore returns the configured archive store and its release func.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	if cfg.Archive.Storage != "postgres" {
		return memory.NewMemoryStore(), func() {}, nil
	}
	dsn, err := cfg.Postgres.ResolveDSN(ctx, cfg.Log.Environment, nil)
	if err != nil {
		return nil, nil, err
	}
	client, err := postgres.Open(ctx, cfg.Postgres, dsn, cfg.Log.Environment != "prod")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

type mapper interface {
	Map() map[string]any
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecord(r mapper) error {
	return printJSON(r.Map())
}

func printRecords[T mapper](rs []T) error {
	out := make([]map[string]any, len(rs))
	for i, r := range rs {
		out[i] = r.Map()
	}
	return printJSON(out)
}

func balancesCommand(c *cli.Context) error {
	client, err := privateClient(c)
	if err != nil {
		return err
	}
	balances, err := client.AvailableBalances(c.Context, c.StringSlice("account")...)
	if err != nil {
		return err
	}
	return printRecords(balances)
}

func activeOrdersCommand(c *cli.Context) error {
	client, err := privateClient(c)
	if err != nil {
		return err
	}
	orders, err := client.ActiveOrders(c.Context)
	if err != nil {
		return err
	}
	return printRecords(orders)
}

func orderStatusCommand(c *cli.Context) error {
	client, err := privateClient(c)
	if err != nil {
		return err
	}
	o, err := client.OrderStatus(c.Context, gemini.OrderStatusRequest{
		OrderID:       c.String("order-id"),
		ClientOrderID: c.String("client-order-id"),
		IncludeTrades: c.Bool("include-trades"),
	})
	if err != nil {
		return err
	}
	return printRecord(o)
}

func newOrderCommand(c *cli.Context) error {
	side := strings.ToLower(c.String("side"))
	if side != gemini.SideBuy && side != gemini.SideSell {
		return fmt.Errorf("side must be buy or sell, got %q", side)
	}
	clientOrderID := c.String("client-order-id")
	if clientOrderID == "" {
		clientOrderID = gemini.NewClientOrderID()
	}

	client, err := privateClient(c)
	if err != nil {
		return err
	}
	o, err := client.NewOrder(c.Context, gemini.NewOrderRequest{
		Symbol:        c.String("symbol"),
		Amount:        c.String("amount"),
		Price:         c.String("price"),
		Side:          side,
		Options:       c.StringSlice("option"),
		StopPrice:     c.String("stop-price"),
		ClientOrderID: clientOrderID,
	})
	if err != nil {
		return err
	}
	if err := printRecord(o); err != nil {
		return err
	}
	return gemini.Check(o.Record)
}

func cancelCommand(c *cli.Context) error {
	client, err := privateClient(c)
	if err != nil {
		return err
	}
	o, err := client.CancelOrder(c.Context, c.String("order-id"))
	if err != nil {
		return err
	}
	if err := printRecord(o); err != nil {
		return err
	}
	return gemini.Check(o.Record)
}

func cancelAllCommand(c *cli.Context) error {
	client, err := privateClient(c)
	if err != nil {
		return err
	}
	cancel := client.CancelActiveOrders
	if c.Bool("session") {
		cancel = client.CancelSessionOrders
	}
	outcomes, err := cancel(c.Context)
	if err != nil {
		return err
	}
	return printRecords(outcomes)
}

func tradesCommand(c *cli.Context) error {
	client, err := privateClient(c)
	if err != nil {
		return err
	}
	trades, err := client.PastTrades(c.Context, gemini.PastTradesRequest{
		Symbol:      c.String("symbol"),
		Since:       c.String("since"),
		LimitTrades: c.Int("limit"),
	})
	if err != nil {
		return err
	}
	return printRecords(trades)
}

func transfersCommand(c *cli.Context) error {
	client, err := privateClient(c)
	if err != nil {
		return err
	}
	transfers, err := client.Transfers(c.Context, gemini.TransfersRequest{
		Currency:       c.String("currency"),
		Since:          c.String("since"),
		LimitTransfers: c.Int("limit"),
		Accounts:       c.StringSlice("account"),
	})
	if err != nil {
		return err
	}
	return printRecords(transfers)
}

func volumeCommand(c *cli.Context) error {
	client, err := privateClient(c)
	if err != nil {
		return err
	}
	v, err := client.NotionalVolume(c.Context)
	if err != nil {
		return err
	}
	return printRecord(v)
}

func heartbeatCommand(c *cli.Context) error {
	client, err := privateClient(c)
	if err != nil {
		return err
	}
	o, err := client.Heartbeat(c.Context)
	if err != nil {
		return err
	}
	return printRecord(o)
}

func symbolsCommand(c *cli.Context) error {
	client, err := publicClient(c)
	if err != nil {
		return err
	}
	symbols, err := client.Symbols(c.Context)
	if err != nil {
		return err
	}
	return printJSON(symbols)
}

func candlesCommand(c *cli.Context) error {
	client, err := publicClient(c)
	if err != nil {
		return err
	}
	candles, err := client.Candles(c.Context, c.String("symbol"), c.String("timeframe"))
	if err != nil {
		return err
	}
	return printJSON(candles)
}

func archiveCommand(c *cli.Context) error {
	cfg := appConfig(c)
	log := appLogger(c)

	symbols := c.StringSlice("symbol")
	if len(symbols) == 0 {
		symbols = cfg.Archive.Symbols
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to archive: set archive.symbols or --symbol")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := privateClient(c)
	if err != nil {
		return err
	}
	store, release, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	archiver := archive.NewArchiver(client, store, archive.Options{
		Concurrency: cfg.Archive.Concurrency,
		LimitTrades: cfg.Archive.LimitTrades,
		Timeout:     cfg.Gemini.REST.Timeout,
	}, log)

	run := func(ctx context.Context) {
		failed := 0
		for _, res := range archiver.Run(ctx, symbols) {
			if res.Err != nil {
				failed++
			}
		}
		log.Info("archive run finished", zap.Int("symbols", len(symbols)), zap.Int("failed", failed))
	}

	if !c.Bool("daily") {
		run(ctx)
		return nil
	}
	(&archive.DailyScheduler{Job: run, Logger: log}).Start(ctx)
	return nil
}

func streamCommand(c *cli.Context) error {
	cfg := appConfig(c)
	log := appLogger(c)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsURL, err := cfg.Gemini.WSURL()
	if err != nil {
		return err
	}
	public, err := publicClient(c)
	if err != nil {
		return err
	}

	var sink storage.CandleStore
	if cfg.Archive.Storage == "postgres" {
		store, release, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer release()
		sink = store
	}

	collector, err := marketdata.NewCollector(marketdata.Options{
		WSURL:       wsURL,
		Timeframe:   cfg.Gemini.WS.Timeframe,
		Symbols:     cfg.Gemini.WS.Symbols,
		LoadTimeout: cfg.Gemini.REST.Timeout,
	}, public, sink, log)
	if err != nil {
		return err
	}

	// relist pairs daily; new ones join on the next reconnect
	go (&archive.DailyScheduler{Logger: log, SkipInitial: true, Job: func(ctx context.Context) {
		if err := collector.Refresh(ctx); err != nil {
			log.Warn("symbol refresh failed", zap.Error(err))
		}
	}}).Start(ctx)

	return collector.Run(ctx)
}
