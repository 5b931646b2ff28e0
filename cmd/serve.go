package cmd

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/juststeveking/spacecount/internal/api"
	"github.com/juststeveking/spacecount/internal/logging"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the aggregation endpoints:

  GET /api/space-people   astronaut roster (cached 5m)
  GET /api/iss-location   ISS position (cached 5s)
  GET /api/health         upstream health, 200/207/503
  GET /healthz            process liveness
  GET /metrics            Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(logging.FormatJSON)
		if err != nil {
			return err
		}
		defer a.Close()

		if listenAddr != "" {
			a.cfg.Listen = listenAddr
		}
		if a.logger.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		router := api.NewRouter(&api.Handlers{
			People:   a.people,
			ISS:      a.iss,
			Health:   a.monitor,
			Observer: a.metrics,
		}, a.metrics, a.logger)

		return api.Start(context.Background(), api.DefaultServerConfig(a.cfg.Listen), router, a.logger)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "listen address (default :8080 or $PORT)")
	rootCmd.AddCommand(serveCmd)
}
