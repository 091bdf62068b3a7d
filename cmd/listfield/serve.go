package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-listfield/components/messagetypes"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		addr        string
		basePath    string
		catalogPath string
		maxLimit    int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the message type suggestion endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := loadPool(catalogPath)
			if err != nil {
				return err
			}
			router, pattern, err := newRouter(basePath, messagetypes.WithPool(pool), messagetypes.WithMaxLimit(maxLimit))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			a.log.Info("serving suggestions", "addr", addr, "route", pattern, "types", pool.Len())
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base", "/", "base path for the suggestion route")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog to use instead of the bundled message types")
	cmd.Flags().IntVar(&maxLimit, "max-limit", 200, "upper bound for the limit query parameter")
	return cmd
}

func newRouter(basePath string, opts ...messagetypes.Option) (http.Handler, string, error) {
	router := chi.NewRouter()
	component := messagetypes.New(opts...)
	pattern, err := component.RegisterRoutes(router, basePath)
	if err != nil {
		return nil, "", err
	}
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return router, pattern, nil
}
