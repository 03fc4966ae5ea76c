package cli

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/observability"
	"github.com/matzehuels/waypoint/pkg/observability/prom"
	"github.com/matzehuels/waypoint/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API until the
// process is interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP search API",
		Long: `Serve exposes searches over HTTP:

  POST /v1/search   search a graph sent in the request body
  POST /v1/render   draw a graph, optionally with a route highlighted
  GET  /healthz     liveness probe
  GET  /metrics     Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			metrics := promhttpHandler(noMetrics)
			defer observability.Reset()

			runner := c.newRunner(cmd, false)
			runner.MaxDepthLimit = cfg.MaxDepthLimit
			runner.MaxVisits = cfg.MaxVisits
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Config{
				Addr:          cfg.Addr,
				MaxBodyBytes:  cfg.MaxBodyBytes,
				SearchTimeout: cfg.SearchTimeout,
				ReadTimeout:   cfg.ReadTimeout,
				WriteTimeout:  cfg.WriteTimeout,
			}, metrics)

			printInfo(cmd.ErrOrStderr(), "Listening on %s", StyleHighlight.Render(cfg.Addr))
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not collect or expose Prometheus metrics")

	return cmd
}

// promhttpHandler installs Prometheus hooks on a fresh registry and returns
// its scrape handler, or nil when metrics are disabled.
func promhttpHandler(disabled bool) http.Handler {
	if disabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom.New(reg).Register()
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
