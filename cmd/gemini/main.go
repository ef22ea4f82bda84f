package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "gemini",
		Usage: "Gemini exchange REST client, trade archiver and candle collector",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.yaml (defaults to ../config next to the binary)",
				EnvVars: []string{"GEMINI_CONFIG"},
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			{
				Name:   "balances",
				Usage:  "List available balances",
				Flags:  []cli.Flag{accountFlag},
				Action: balancesCommand,
			},
			{
				Name:   "orders",
				Usage:  "List active orders",
				Action: activeOrdersCommand,
			},
			{
				Name:  "order-status",
				Usage: "Show one order by exchange or client order id",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "order-id"},
					&cli.StringFlag{Name: "client-order-id"},
					&cli.BoolFlag{Name: "include-trades"},
				},
				Action: orderStatusCommand,
			},
			{
				Name:  "new-order",
				Usage: "Place an exchange limit order, or a stop-limit order with --stop-price",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "symbol", Required: true},
					&cli.StringFlag{Name: "amount", Required: true},
					&cli.StringFlag{Name: "price", Required: true},
					&cli.StringFlag{Name: "side", Required: true, Usage: "buy or sell"},
					&cli.StringFlag{Name: "stop-price"},
					&cli.StringSliceFlag{Name: "option", Usage: "order execution option, e.g. maker-or-cancel"},
					&cli.StringFlag{Name: "client-order-id", Usage: "defaults to a random uuid"},
				},
				Action: newOrderCommand,
			},
			{
				Name:   "cancel",
				Usage:  "Cancel one order",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "order-id", Required: true}},
				Action: cancelCommand,
			},
			{
				Name:  "cancel-all",
				Usage: "Cancel every active order of the account",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "session", Usage: "only orders placed by this session"},
				},
				Action: cancelAllCommand,
			},
			{
				Name:  "trades",
				Usage: "List the account's past trades",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "symbol", Required: true},
					&cli.StringFlag{Name: "since", Usage: "YYYYMMDD"},
					&cli.IntFlag{Name: "limit", Value: 50},
				},
				Action: tradesCommand,
			},
			{
				Name:  "transfers",
				Usage: "List deposits and withdrawals",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "currency"},
					&cli.StringFlag{Name: "since", Usage: "YYYYMMDD"},
					&cli.IntFlag{Name: "limit", Value: 50},
					accountFlag,
				},
				Action: transfersCommand,
			},
			{
				Name:   "volume",
				Usage:  "Show notional volume and fee tier",
				Action: volumeCommand,
			},
			{
				Name:   "heartbeat",
				Usage:  "Keep the session alive",
				Action: heartbeatCommand,
			},
			{
				Name:   "symbols",
				Usage:  "List tradable pairs",
				Action: symbolsCommand,
			},
			{
				Name:  "candles",
				Usage: "Fetch candles for a pair",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "symbol", Required: true},
					&cli.StringFlag{Name: "timeframe", Value: "1m"},
				},
				Action: candlesCommand,
			},
			{
				Name:  "archive",
				Usage: "Copy past trades into the configured store",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "symbol", Usage: "overrides archive.symbols"},
					&cli.BoolFlag{Name: "daily", Usage: "keep running and repeat at every UTC midnight"},
				},
				Action: archiveCommand,
			},
			{
				Name:   "stream",
				Usage:  "Collect candles from the market data stream",
				Action: streamCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var accountFlag = &cli.StringSliceFlag{
	Name:  "account",
	Usage: "sub-account name (defaults to primary)",
}
