package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cataloro/cataloro-probe/internal/config"
	"github.com/cataloro/cataloro-probe/internal/mockserver"
)

func (a *app) newMockCommand(defaults *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory fake backend for offline runs",
		Long: `Serve a fake Cataloro backend that answers every route the suites call.
Data is kept in memory and lost on exit. Point a run at it with
--backend-url http://localhost:8001.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.cfg.Mock
			srv, err := mockserver.NewServer(mockserver.Options{
				Addr:          m.Addr,
				JWTSecret:     m.JWTSecret,
				AdminEmail:    m.AdminEmail,
				AdminPassword: m.AdminPassword,
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			zap.S().Named("mock").Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Stop(ctx)
		},
	}

	cmd.Flags().String("mock-addr", defaults.Mock.Addr, "listen address")
	cmd.Flags().String("jwt-secret", defaults.Mock.JWTSecret, "secret used to sign tokens")
	return cmd
}
