package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the learner API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := api.DefaultConfig()
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			cfg.Addr = a
		}

		e, err := openEnv(cmd, reviewerOptional, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if v, _ := cmd.Flags().GetBool("verbose"); !v {
			gin.SetMode(gin.ReleaseMode)
		}
		if cfg.AdminToken == "" {
			e.logger.Warn("SKILLPILOT_ADMIN_TOKEN not set, preview endpoints disabled")
		}

		router, err := api.SetupRouter(e.svc, cfg, e.logger)
		if err != nil {
			return fmt.Errorf("build router: %w", err)
		}
		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			cat := e.svc.Catalog()
			e.logger.Info("listening", "addr", cfg.Addr, "content", cat.Version(), "content_hash", cat.Fingerprint())
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		e.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var serveTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the admin preview endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		secret := api.DefaultConfig().AdminToken
		if secret == "" {
			return errors.New("SKILLPILOT_ADMIN_TOKEN is not set")
		}
		tok, err := api.IssueAdminToken(secret, subject, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides SKILLPILOT_ADDR, default :8080)")

	serveTokenCmd.Flags().String("subject", "admin", "Operator name recorded in request logs")
	serveTokenCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	serveCmd.AddCommand(serveTokenCmd)
}
