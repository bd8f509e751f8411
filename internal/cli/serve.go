package cli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/server"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command, which runs the HTTP render
// service until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

Routes:
  GET  /healthz
  POST /api/v1/render?format=svg&width=800&height=400&select=1,3
  POST /api/v1/latex

The cache backend, timeouts and body limit come from the [cache] and
[server] sections of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	sc := c.Config.Server
	srv := server.New(runner, logger, server.Options{
		Defaults:       c.Config.Options(),
		ReadTimeout:    sc.ReadTimeout,
		WriteTimeout:   sc.WriteTimeout,
		RequestTimeout: sc.RequestTimeout,
		MaxBodyBytes:   sc.MaxBodyBytes,
	})

	l, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", sc.Addr, err)
	}
	logger.Info("serving", "addr", l.Addr().String(), "cache", c.Config.Cache.Backend)
	return srv.Serve(ctx, l, shutdownTimeout)
}
