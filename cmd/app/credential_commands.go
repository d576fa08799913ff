package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/genproxy/cmd/app/commands"
	"github.com/allisson/genproxy/internal/app"
	"github.com/allisson/genproxy/internal/config"
)

func getCredentialCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "hash-admin-password",
			Usage: "Hash the admin password with Argon2id for ADMIN_PASSWORD_HASH",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Admin password (omit to read it from stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunHashAdminPassword(cmd.String("password"), commands.DefaultIO())
			},
		},
		{
			Name:  "seal-credential",
			Usage: "Encrypt upstream API keys with a KMS key for UPSTREAM_API_KEYS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "KMS key URI (defaults to KMS_KEY_URI; e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
				&cli.StringSliceFlag{
					Name:     "credential",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Upstream API key to seal (repeatable, order is preserved)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyURI := cmd.String("kms-key-uri")
				if keyURI == "" {
					keyURI = cfg.KMSKeyURI
				}

				return commands.RunSealCredential(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					keyURI,
					cmd.StringSlice("credential"),
				)
			},
		},
	}
}
