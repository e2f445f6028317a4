// ABOUTME: Serve command running the HTTP API.
// ABOUTME: Shuts down gracefully on SIGINT or SIGTERM.

package main

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/harper/catalog/internal/httpapi"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Start the HTTP API",
	Long:        `Serve the article and section API over HTTP.`,
	Annotations: map[string]string{longRunning: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = appCfg.HTTPAddr
		}
		if appCfg.Log.Mode == "prod" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := httpapi.NewServer(httpapi.RouterConfig{
			Log:            appLog,
			AllowedOrigins: appCfg.AllowedOrigins,
			ArticleHandler: httpapi.NewArticleHandler(appLog, articles),
			SectionHandler: httpapi.NewSectionHandler(appLog, sections),
			HealthHandler:  httpapi.NewHealthHandler(),
		})
		return server.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
