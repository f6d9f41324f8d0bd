package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/plastinin/renderclient/internal/adapter/renderapi"
	"github.com/plastinin/renderclient/internal/adapter/storage"
	"github.com/plastinin/renderclient/internal/config"
	"github.com/plastinin/renderclient/internal/usecase"
	"github.com/plastinin/renderclient/pkg/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// app общее состояние команд: конфигурация и логгер, заполняются в Before
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	baseURL   string
	logLevel  string
	logFormat string
}

// Run запускает CLI
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	a := &app{}

	cmd := &cli.Command{
		Name:   "renderclient",
		Usage:  "Upload files to a render service and collect the results",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "Render service base URL (overrides RENDER_BASE_URL)",
				Destination: &a.baseURL,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Destination: &a.logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format (json, console)",
				Destination: &a.logFormat,
			},
		},
		Before: a.before,
		After: func(ctx context.Context, c *cli.Command) error {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			a.cmdRender(),
			a.cmdStatus(),
			a.cmdFetch(),
			a.cmdServe(),
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		if a.logger != nil {
			a.logger.Error("CLI execution failed", zap.Error(err))
		}
		return err
	}

	return nil
}

func (a *app) before(ctx context.Context, c *cli.Command) (context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, err
	}

	if a.baseURL != "" {
		cfg.Render.BaseURL = a.baseURL
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	if err := cfg.Render.Validate(); err != nil {
		return ctx, fmt.Errorf("invalid render config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return ctx, fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = log
	return ctx, nil
}

func (a *app) renderAPI() *renderapi.Client {
	return renderapi.NewClient(a.cfg.Render, a.logger)
}

func (a *app) clientOptions() usecase.ClientOptions {
	return usecase.ClientOptions{
		PollInterval:   a.cfg.Render.PollInterval,
		StopOnTerminal: a.cfg.Render.StopOnTerminal,
	}
}

// resultStore создаёт хранилище результатов согласно OUTPUT_BACKEND
func (a *app) resultStore(ctx context.Context) (usecase.ResultStore, error) {
	switch a.cfg.Output.Backend {
	case config.OutputBackendS3:
		store, err := storage.NewS3Store(ctx, a.cfg.S3)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Connected to S3",
			zap.String("endpoint", a.cfg.S3.Endpoint),
			zap.String("bucket", a.cfg.S3.Bucket),
		)
		return store, nil
	default:
		return storage.NewLocalStore(a.cfg.Output.Dir)
	}
}

func (a *app) resultUseCase(ctx context.Context, api *renderapi.Client, recorder usecase.Recorder) (*usecase.ResultUseCase, error) {
	store, err := a.resultStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create result store: %w", err)
	}
	return usecase.NewResultUseCase(api, store, recorder, a.cfg.Output.Concurrency, a.logger), nil
}
