package commands

import (
	"context"
	"net"

	"github.com/spf13/cobra"
	"go.trai.ch/warren/internal/adapters/mcp"
	"go.trai.ch/warren/internal/build"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the environment tools over the Model Context Protocol on stdio",
		Long: "Serve the environment tools over the Model Context Protocol on stdio.\n" +
			"Logs are written to stderr; stdout carries the protocol.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listen, _ := cmd.Flags().GetString("metrics-listen")
			if listen == "" && c.components.Config != nil {
				listen = c.components.Config.MetricsListen
			}
			return c.serve(cmd, listen)
		},
	}
	cmd.Flags().String("metrics-listen", "", "Address to expose Prometheus metrics on (e.g. 127.0.0.1:9464)")
	return cmd
}

func (c *CLI) serve(cmd *cobra.Command, metricsAddr string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if metricsAddr != "" && c.components.Metrics != nil {
		var lc net.ListenConfig
		ln, err := lc.Listen(ctx, "tcp", metricsAddr)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to listen for metrics"), "address", metricsAddr)
		}
		c.components.Logger.Info("serving metrics", "address", ln.Addr().String())
		g.Go(func() error {
			return c.components.Metrics.Serve(gctx, ln)
		})
	}

	srv := mcp.NewServer(c.components.App, c.components.Logger, build.Version)
	g.Go(func() error {
		// The metrics endpoint lives only as long as the tool session.
		defer cancel()
		return srv.Serve(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
	})

	return g.Wait()
}
