package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/msf-counter-service/internal/client"
)

const envServerURL = "COUNTERS_SERVER_URL"

type rootOptions struct {
	server  string
	timeout time.Duration
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.server, client.WithHTTPClient(&http.Client{Timeout: o.timeout}))
}

func (o *rootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "counters",
		Short: "Find Marvel Strike Force counter teams",
		Long: `counters submits an enemy team to the counter service and prints
the recommended counter teams with their strategy and risks.`,
		SilenceUsage: true,
	}

	defaultServer := client.DefaultBaseURL
	if v := os.Getenv(envServerURL); v != "" {
		defaultServer = v
	}
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "counter service base URL (env "+envServerURL+")")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(newFindCmd(opts))
	rootCmd.AddCommand(newCharactersCmd(opts))
	return rootCmd
}
