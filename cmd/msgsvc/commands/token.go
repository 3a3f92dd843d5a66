package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrled/suns/msgsvc/internal/auth"
	"github.com/mrled/suns/msgsvc/internal/config"
)

func newTokenCmd() *cobra.Command {
	var opts struct {
		Subject string
		TTL     time.Duration
	}

	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Issue a bearer token for the message API",
		GroupID: "server",
		Long: `Sign a token with AUTH_JWT_SECRET.

When the server runs with AUTH_JWT_SECRET set, every /messages request
must carry "Authorization: Bearer <token>".

Examples:
  AUTH_JWT_SECRET=s3cret msgsvc token --subject alice
  AUTH_JWT_SECRET=s3cret msgsvc token --subject ci --ttl 15m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return ExitWithCode(ExitUsage, err)
			}

			signer, err := auth.NewSigner(cfg.AuthJWTSecret)
			if err != nil {
				return &UsageError{fmt.Errorf("set AUTH_JWT_SECRET: %w", err)}
			}

			ttl := cfg.AuthTokenDuration
			if cmd.Flags().Changed("ttl") {
				ttl = opts.TTL
			}
			if ttl <= 0 {
				return &UsageError{errNonPositiveTTL}
			}

			token, err := signer.GenerateToken(opts.Subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Subject, "subject", "s", "cli", "Subject stored in the token")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 0, "Token lifetime such as 30m or 24h (default AUTH_TOKEN_DURATION)")
	return cmd
}

var errNonPositiveTTL = errors.New("ttl must be positive")
