package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func (a *app) cmdFetch() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Download result URLs into the configured output store",
		ArgsUsage: "<url>...",
		Action: func(ctx context.Context, c *cli.Command) error {
			resultUC, err := a.resultUseCase(ctx, a.renderAPI(), nil)
			if err != nil {
				return err
			}

			results, err := resultUC.Fetch(ctx, c.Args().Slice())
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(c.Root().Writer, "saved %s\n", r.Location)
			}
			return nil
		},
	}
}
