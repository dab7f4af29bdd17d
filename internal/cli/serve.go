package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldraw/pkg/cache"
	"github.com/matzehuels/ldraw/pkg/observability"
	"github.com/matzehuels/ldraw/pkg/pipeline"
	"github.com/matzehuels/ldraw/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		maxBody int64
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scene pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			if c.verbose {
				observability.SetServerHooks(observability.NewLogHooks(c.Logger))
			}

			ch, err := c.newCache(noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, "server:"), c.Logger)
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.WithMaxBody(maxBody), server.WithTimeout(timeout))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "request body limit in bytes")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "per-request timeout")
	return cmd
}
