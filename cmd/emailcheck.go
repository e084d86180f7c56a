package cmd

import (
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bodhini/internal/delivery/http/middleware"
	"bodhini/internal/emailcheck"

	"github.com/spf13/cobra"
)

var emailcheckCmd = &cobra.Command{
	Use:   "emailcheck",
	Short: "Start the email syntax checker (POST /validate-email)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		router := emailcheck.NewRouter(emailcheck.NewHandler(logger))
		srv := &http.Server{
			Addr:              ":" + cfg.EmailCheck.Port,
			Handler:           middleware.LoggingMiddleware(logger, router),
			ReadHeaderTimeout: 5 * time.Second,
		}
		return serveUntilDone(ctx, srv, "emailcheck")
	},
}

func init() {
	rootCmd.AddCommand(emailcheckCmd)
}
