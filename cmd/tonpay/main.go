package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/konnektoren/tonpay"
	"github.com/konnektoren/tonpay/balance"
	"github.com/konnektoren/tonpay/checkout"
	"github.com/konnektoren/tonpay/clients"
	"github.com/konnektoren/tonpay/logger"
	"github.com/konnektoren/tonpay/types"
	"github.com/konnektoren/tonpay/utils"
)

func main() {
	app := &cli.App{
		Name:  "tonpay",
		Usage: "Check TON balances and create wallet payment links",
		Description: `A command line front end for the tonpay adapter.

Configuration is read from a JSON file (--config) or from TONPAY_* environment
variables. Flags override both.`,
		Version: tonpay.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a JSON config file",
			},
			&cli.StringFlag{
				Name:  "network",
				Usage: "mainnet or testnet",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "balance",
				Usage: "Print the balance of an address",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Usage:    "TON address, user friendly or raw",
						Required: true,
					},
				},
				Action: balanceCommand,
			},
			{
				Name:  "pay",
				Usage: "Create ton://transfer links for a payment",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Address of the paying wallet",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Destination address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "amount",
						Usage:    "Amount in TON, e.g. 0.1",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "comment",
						Usage: "Text comment attached to the transfer",
					},
					&cli.StringFlag{
						Name:  "manifest-url",
						Usage: "Wallet-connect manifest URL",
					},
				},
				Action: payCommand,
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration with secrets masked",
				Action: configCommand,
			},
			{
				Name:  "catalog",
				Usage: "List the products of a YAML product catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the catalog",
						Required: true,
					},
				},
				Action: catalogCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig merges the config file or environment with global flags
func loadConfig(c *cli.Context) (*types.Config, error) {
	var (
		cfg *types.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = utils.LoadConfigFile(path)
	} else {
		cfg, err = utils.ConfigFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if n := c.String("network"); n != "" {
		network, err := types.ParseNetwork(n)
		if err != nil {
			return nil, err
		}
		cfg.Network = network
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	return cfg, utils.ValidateConfig(cfg)
}

func balanceCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	addr, err := utils.ParseAddress(c.String("address"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, cfg.Timeout)
	defer cancel()

	provider, err := balance.FromConfig(ctx, cfg.Balance, cfg.Network)
	if err != nil {
		return fmt.Errorf("failed to create balance provider: %w", err)
	}
	defer balance.Close(provider)

	coins, err := provider.Balance(ctx, addr)
	if err != nil {
		return err
	}

	fmt.Printf("Address: %s\n", addr.String())
	fmt.Printf("Balance: %s TON (%s nanoton)\n", utils.FormatTON(coins), coins.Nano().String())
	return nil
}

func payCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if u := c.String("manifest-url"); u != "" {
		cfg.Client.ManifestURL = u
	}

	amount, err := utils.ParseTONAmount(c.String("amount"))
	if err != nil {
		return err
	}

	zl, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer zl.Sync()

	printLinks := func(_ context.Context, links []string) error {
		for _, l := range links {
			fmt.Println(l)
		}
		return nil
	}

	adapter, err := tonpay.New(cfg,
		tonpay.WithLogger(zl),
		tonpay.WithClientFactory(clients.LinkFactory(printLinks)),
	)
	if err != nil {
		return err
	}
	defer adapter.Close()

	client, err := adapter.Initialize(c.Context, cfg.Client.ManifestURL,
		func(address, bal string) {
			fmt.Printf("Connected %s, balance %s nanoton\n", address, bal)
		},
		func(reason string) {
			fmt.Println(reason)
		},
	)
	if err != nil {
		return err
	}

	link, ok := client.(*clients.LinkClient)
	if !ok {
		return fmt.Errorf("unexpected wallet client %T", client)
	}
	if err := link.Connect(types.Account{Address: c.String("from"), Chain: cfg.Network}); err != nil {
		return err
	}

	_, err = adapter.SubmitPaymentRequest(c.Context, &types.PaymentRequest{
		DestinationAddress: c.String("to"),
		Amount:             amount,
		Comment:            c.String("comment"),
	})
	return err
}

func configCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	data, err := utils.SerializeConfig(cfg)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func catalogCommand(c *cli.Context) error {
	catalog, err := checkout.LoadProductCatalog(c.String("file"))
	if err != nil {
		return err
	}

	fmt.Printf("Catalog %s, %d products\n", catalog.ID, len(catalog.Products))
	cart := checkout.NewCart()
	for _, p := range catalog.Products {
		fmt.Printf("  %-36s  %-24s  %s TON\n", p.ID, p.Name, p.PriceOrZero().String())
		cart.AddProduct(p)
	}
	fmt.Printf("Total: %s TON\n", cart.TotalPrice().String())
	return nil
}
