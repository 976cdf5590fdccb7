package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"LocalBoard/internal"
	"LocalBoard/internal/config"
	lbnet "LocalBoard/internal/net"
)

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadFile(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(desktop bool) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if port := cmd.Int("port"); port != 0 {
			cfg.App.HTTP.Port = int(port)
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithConfigPath(cmd.String("config")),
			internal.WithDesktop(desktop),
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func discover(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))

	found := 0
	err = lbnet.Browse(ctx, cfg.Discovery.Service, cmd.Duration("timeout"), logger, func(h lbnet.Host) {
		found++
		fmt.Printf("%s\tws://%s/ws\n", h.Name, h.Addr)
	})
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	if found == 0 {
		fmt.Println("no boards found")
	}
	return nil
}

func main() {
	portFlag := &cli.IntFlag{
		Name:  "port",
		Usage: "Override the HTTP port from the config file",
	}

	cmd := &cli.Command{
		Name:  "localboard",
		Usage: "Whiteboard canvas engine with alignment guides and a LAN render feed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Action: run(true),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the headless engine with its websocket feed",
				Flags:  []cli.Flag{portFlag},
				Action: run(false),
			},
			{
				Name:   "desktop",
				Usage:  "Open the board window and serve its feed",
				Flags:  []cli.Flag{portFlag},
				Action: run(true),
			},
			{
				Name:  "discover",
				Usage: "List boards advertised on the local network",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for answers",
						Value: 2 * time.Second,
					},
				},
				Action: discover,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
