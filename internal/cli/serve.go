package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apphttp "github.com/plastinin/renderclient/internal/adapter/http"
	"github.com/plastinin/renderclient/internal/adapter/http/handler"
	"github.com/plastinin/renderclient/internal/adapter/metrics"
	"github.com/plastinin/renderclient/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func (a *app) cmdServe() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the local HTTP UI",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := a.cfg
			log := a.logger

			log.Info("Starting renderclient server",
				zap.String("addr", cfg.Server.Addr()),
				zap.String("render_service", cfg.Render.BaseURL),
			)

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			recorder, err := metrics.NewPrometheusRecorder(reg)
			if err != nil {
				return fmt.Errorf("failed to register metrics: %w", err)
			}
			httpMetrics, err := metrics.NewHTTPMetrics(reg)
			if err != nil {
				return fmt.Errorf("failed to register http metrics: %w", err)
			}

			api := a.renderAPI()
			client := usecase.NewRenderClient(api, recorder, a.clientOptions(), log)
			defer client.Close()

			resultUC, err := a.resultUseCase(ctx, api, recorder)
			if err != nil {
				return err
			}

			clientHandler := handler.NewClientHandler(client, resultUC, cfg.Server.MaxUploadMB<<20, log)
			healthHandler := handler.NewHealthHandler(cfg.Render.BaseURL, log)
			router := apphttp.NewRouter(
				clientHandler,
				healthHandler,
				httpMetrics,
				promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				log,
			)

			server := &http.Server{
				Addr:         cfg.Server.Addr(),
				Handler:      router,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Info("HTTP server starting", zap.String("addr", cfg.Server.Addr()))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case <-ctx.Done():
				log.Info("Shutting down server...")
			case err := <-serveErr:
				if err != nil {
					return fmt.Errorf("http server failed: %w", err)
				}
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("Server forced to shutdown", zap.Error(err))
			}

			log.Info("Server stopped")
			return nil
		},
	}
}
