package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plastinin/renderclient/internal/domain"
	"github.com/plastinin/renderclient/internal/usecase"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func (a *app) cmdRender() *cli.Command {
	var (
		fetch   bool
		timeout time.Duration
	)

	return &cli.Command{
		Name:      "render",
		Usage:     "Upload a file, wait for rendering and print result links",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "fetch",
				Usage:       "Save results to the configured output store",
				Destination: &fetch,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "Maximum time to wait for the job",
				Value:       30 * time.Minute,
				Destination: &timeout,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one file argument, got %d", c.Args().Len())
			}
			out := c.Root().Writer

			file, err := domain.SelectedFileFromPath(c.Args().First())
			if err != nil {
				return err
			}

			api := a.renderAPI()
			client := usecase.NewRenderClient(api, nil, a.clientOptions(), a.logger)
			defer client.Close()

			// Печатаем только смену текста статуса
			var last string
			client.SetUpdateCallback(func(s domain.UIState) {
				if s.StatusText != "" && s.StatusText != last {
					last = s.StatusText
					fmt.Fprintln(out, s.StatusText)
				}
			})

			client.SelectFile(file)
			if err := client.Upload(ctx); err != nil {
				return err
			}

			waitCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			state, err := client.Wait(waitCtx)
			if err != nil {
				return fmt.Errorf("failed to wait for job %s: %w", state.JobID, err)
			}
			if state.Phase == domain.PhaseFailed {
				return fmt.Errorf("%w: %s", domain.ErrJobFailed, state.StatusText)
			}

			for _, u := range state.DownloadURLs {
				fmt.Fprintln(out, u)
			}

			if !fetch {
				return nil
			}
			if len(state.DownloadURLs) == 0 {
				a.logger.Warn("Job completed without results", zap.String("job_id", state.JobID))
				return nil
			}

			resultUC, err := a.resultUseCase(ctx, api, nil)
			if err != nil {
				return err
			}
			results, err := resultUC.Fetch(ctx, state.DownloadURLs)
			if err != nil && !errors.Is(err, domain.ErrNoResults) {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(out, "saved %s\n", r.Location)
			}
			return nil
		},
	}
}
