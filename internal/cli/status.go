package cli

import (
	"context"
	"fmt"

	"github.com/plastinin/renderclient/internal/domain"
	"github.com/urfave/cli/v3"
)

func (a *app) cmdStatus() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Query the status of a job once",
		ArgsUsage: "<job-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			jobID := c.Args().First()
			if jobID == "" {
				return domain.ErrEmptyJobID
			}
			out := c.Root().Writer

			api := a.renderAPI()
			report, err := api.Status(ctx, jobID)
			if err != nil {
				return fmt.Errorf("failed to get status of job %s: %w", jobID, err)
			}

			fmt.Fprintln(out, report.Status)
			switch report.Status {
			case domain.JobStatusCompleted:
				for _, p := range report.FilePaths {
					fmt.Fprintln(out, api.ResultURL(p))
				}
			case domain.JobStatusFailed:
				fmt.Fprintln(out, report.Error)
				return fmt.Errorf("%w: %s", domain.ErrJobFailed, report.Error)
			}
			return nil
		},
	}
}
