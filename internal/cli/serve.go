package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glitchid/internal/server"
	"github.com/matzehuels/glitchid/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Long: `Serve renders over HTTP.

  POST /v1/renders?name=neo&seed=42&format=png   render the request body
  GET  /v1/renders/{id}                         fetch an archived render
  GET  /healthz                                 liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return err
	}
	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		runner.Close()
		return err
	}

	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
	}

	srv := server.New(server.Config{
		Runner:          runner,
		Store:           st,
		Logger:          c.Logger,
		DefaultIdentity: cfg.Render.Identity,
		DefaultFormat:   cfg.Render.Format,
		Size:            cfg.Render.Size,
		Workers:         cfg.Render.Workers,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	defer srv.Close()

	printInfo("Serving on %s", StyleHighlight.Render(addr))
	printKeyValue("cache", cfg.Cache.Backend)
	printKeyValue("store", cfg.Store.Backend)
	return srv.ListenAndServe(ctx, addr)
}
