// Command staff-token signs a bearer token for the admin API.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"subtitle-widget/infrastructure/configuration"
	"subtitle-widget/infrastructure/utils"

	"github.com/spf13/cobra"
)

func newStaffTokenCommand(defaultSecret string) *cobra.Command {
	var (
		userName string
		ttl      time.Duration
		secret   string
	)

	cmd := &cobra.Command{
		Use:           "staff-token",
		Short:         "Sign an admin API token",
		Long:          `Sign a staff JWT with the application secret key. Pass it as "Authorization: Bearer <token>" to the /api routes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = defaultSecret
			}
			if secret == "" {
				return errors.New("no secret key: set SECRET_KEY or pass --secret")
			}
			if ttl <= 0 {
				return fmt.Errorf("ttl must be positive, got %s", ttl)
			}
			token, err := utils.GenerateStaffToken(userName, ttl, secret)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userName, "user", "u", "", "Staff username carried by the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "Override the configured secret key")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func main() {
	if err := newStaffTokenCommand(configuration.C.App.SecretKey).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
