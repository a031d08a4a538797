// Package main provides lookupctl, a CLI for querying the remote lookup endpoints
// the sign-up form depends on. Output is JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"signup/internal/lookup"
	"signup/internal/platform/config"
	"signup/internal/platform/logger"
	"signup/pkg/platform/validation"
)

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	baseURL  string
	timeout  time.Duration
	logLevel string
}

func rootCmd(out io.Writer) *cobra.Command {
	defaults := config.Default().Lookup
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "lookupctl",
		Short:         "Query the sign-up lookup services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", envOr("LOOKUP_BASE_URL", defaults.BaseURL), "Lookup service base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaults.Timeout, "Per-request timeout")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "states",
			Short: "List all states",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return query(cmd.Context(), opts, out, func(ctx context.Context, c *lookup.Client) (any, error) {
					return c.States(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "city <zip>",
			Short: "Resolve a zip code to city and coordinates",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return query(cmd.Context(), opts, out, func(ctx context.Context, c *lookup.Client) (any, error) {
					return c.CityByZip(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "counties <state>",
			Short: "List the counties of a state",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return query(cmd.Context(), opts, out, func(ctx context.Context, c *lookup.Client) (any, error) {
					return c.CountiesByState(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "username <name>",
			Short: "Check whether a username is available",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return query(cmd.Context(), opts, out, func(ctx context.Context, c *lookup.Client) (any, error) {
					return c.UsernameAvailable(ctx, args[0])
				})
			},
		},
		passwordCmd(opts, out),
	)
	return cmd
}

func passwordCmd(opts *options, out io.Writer) *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Fetch a suggested password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.CheckRange("length", length,
				validation.MinSuggestedPasswordLength, validation.MaxSuggestedPasswordLength); err != nil {
				return err
			}
			return query(cmd.Context(), opts, out, func(ctx context.Context, c *lookup.Client) (any, error) {
				return c.SuggestPassword(ctx, length)
			})
		},
	}
	cmd.Flags().IntVar(&length, "length", config.Default().Form.SuggestedPasswordLength, "Password length")
	return cmd
}

func query(ctx context.Context, opts *options, out io.Writer, call func(context.Context, *lookup.Client) (any, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	adapter, err := lookup.NewHTTPAdapter(lookup.HTTPAdapterConfig{
		BaseURL: opts.baseURL,
		Timeout: opts.timeout,
		Logger:  logger.NewWithWriter(os.Stderr, opts.logLevel),
	})
	if err != nil {
		return err
	}
	result, err := call(ctx, lookup.NewClient(adapter, lookup.Paths{}))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
