package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/genproxy/cmd/app/commands"
	authService "github.com/allisson/genproxy/internal/auth/service"
	"github.com/allisson/genproxy/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the proxy server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "sign",
			Usage: "Print signature headers for a request (x-sign, x-time, x-nonce)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "secret",
					Aliases: []string{"s"},
					Usage:   "Shared auth secret (defaults to AUTH_SECRET)",
				},
				&cli.Int64Flag{
					Name:    "timestamp",
					Aliases: []string{"t"},
					Usage:   "Unix timestamp in seconds (defaults to now)",
				},
				&cli.StringFlag{
					Name:    "nonce",
					Aliases: []string{"n"},
					Usage:   "Nonce (defaults to a random UUID)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()

				verifier, err := authService.NewSignatureVerifier(cfg.SignatureAlgorithm, cfg.SignatureWindow)
				if err != nil {
					return err
				}

				secret := cmd.String("secret")
				if secret == "" {
					secret = cfg.AuthSecret
				}

				var timestamp time.Time
				if ts := cmd.Int64("timestamp"); ts != 0 {
					timestamp = time.Unix(ts, 0)
				}

				return commands.RunSign(
					verifier,
					commands.DefaultIO().Writer,
					secret,
					timestamp,
					cmd.String("nonce"),
					cmd.String("format"),
				)
			},
		},
	}
}
