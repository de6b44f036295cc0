package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/wanreader/internal/config"
	"github.com/Adda-Baaj/wanreader/pkg/wanandroid"
)

type rootOptions struct {
	baseURL string
	timeout time.Duration
	cfg     *config.Config
	client  *wanandroid.Client
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "wanctl",
		Short:         "Command line client for the WanAndroid article API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.cfg = cfg
			if opts.baseURL == "" {
				opts.baseURL = cfg.APIBaseURL
			}
			if opts.timeout <= 0 {
				opts.timeout = cfg.HTTPTimeout
			}

			opts.client, err = wanandroid.New(opts.baseURL,
				wanandroid.WithTimeout(opts.timeout),
				wanandroid.WithUserAgent(cfg.UserAgent),
			)
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "API base URL (default from API_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout (default from HTTP_TIMEOUT_SECONDS)")

	rootCmd.AddCommand(
		newPublishersCmd(opts),
		newPublisherArticlesCmd(opts),
		newArticlesCmd(opts),
		newTopCmd(opts),
		newSearchCmd(opts),
		newBannersCmd(opts),
		newHotkeysCmd(opts),
		newTreeCmd(opts),
		newHarvestCmd(opts),
	)
	return rootCmd
}

// printEnvelope writes env as indented JSON and turns a non-zero errorCode into an
// error so the process exits non-zero.
func printEnvelope[T any](w io.Writer, env wanandroid.Envelope[T], err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return env.Err()
}
