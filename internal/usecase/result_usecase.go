package usecase

import (
	"context"
	"fmt"

	"github.com/plastinin/renderclient/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ResultUseCase сохраняет готовые результаты рендеринга в хранилище
type ResultUseCase struct {
	downloader  ResultDownloader
	store       ResultStore
	recorder    Recorder
	concurrency int
	logger      *zap.Logger
}

// NewResultUseCase создаёт новый экземпляр ResultUseCase
func NewResultUseCase(
	downloader ResultDownloader,
	store ResultStore,
	recorder Recorder,
	concurrency int,
	logger *zap.Logger,
) *ResultUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if concurrency < 1 {
		concurrency = 1
	}

	return &ResultUseCase{
		downloader:  downloader,
		store:       store,
		recorder:    recorder,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Fetch скачивает результаты и сохраняет их в хранилище.
// Порядок результата совпадает с порядком urls, первая ошибка отменяет остальные загрузки.
func (uc *ResultUseCase) Fetch(ctx context.Context, urls []string) ([]FetchedResult, error) {
	if len(urls) == 0 {
		return nil, domain.ErrNoResults
	}

	results := make([]FetchedResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			location, err := uc.fetchOne(gctx, u)
			if err != nil {
				return err
			}
			results[i] = FetchedResult{URL: u, Location: location}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	uc.recorder.ResultsFetched(len(results))
	uc.logger.Info("Results fetched", zap.Int("count", len(results)))

	return results, nil
}

func (uc *ResultUseCase) fetchOne(ctx context.Context, rawURL string) (string, error) {
	file, err := uc.downloader.Download(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer file.Content.Close()

	location, err := uc.store.Save(ctx, file.Name, file.ContentType, file.Content, file.Size)
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", file.Name, err)
	}

	uc.logger.Debug("Result saved",
		zap.String("url", rawURL),
		zap.String("location", location),
	)

	return location, nil
}
