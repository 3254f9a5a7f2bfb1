package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/worklens/worklens/internal/adapters/driven/statecache"
	"github.com/worklens/worklens/internal/adapters/driving/httpapi"
	"github.com/worklens/worklens/internal/core/services"
	"github.com/worklens/worklens/internal/logger"
)

var (
	serveAddr        string
	serveNoScheduler bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the HTTP API and, unless disabled, a background scheduler
that periodically syncs every connected account.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "disable the background sync loop")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Watch(ctx); err != nil {
		logger.Warn("config watch unavailable: %v", err)
	}

	var oauthHandler *httpapi.OAuthHandler
	if credentials := oauthCredentials(); len(credentials) > 0 {
		redirectURI := config.GetString("oauth.redirect_uri")
		if redirectURI == "" {
			redirectURI = fmt.Sprintf("http://localhost%s/api/oauth/callback", serveAddr)
		}
		oauthHandler = httpapi.NewOAuthHandler(credentials, redirectURI, statecache.New(), integrationService)
	}

	server := httpapi.NewServer(serveAddr, syncService, searchService, statsService, integrationService, oauthHandler)

	if !serveNoScheduler {
		interval := time.Duration(config.GetInt("sync.interval_minutes")) * time.Minute
		scheduler := services.NewScheduler(interval, integrationStore, credentialService, syncService)
		go func() {
			if err := scheduler.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("scheduler stopped: %v", err)
			}
		}()
		defer scheduler.Stop()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
