package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"skillbox/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Report availability of external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries([]deps.Requirement{
				deps.PngquantRequirement(cfg.Images.PngquantBinary),
			})

			rows := make([][]string, 0, len(statuses))
			missingRequired := 0
			for _, status := range statuses {
				state := "available"
				detail := status.Path
				if !status.Available {
					state = "missing"
					detail = status.Detail
					if !status.Optional {
						missingRequired++
					}
				}
				rows = append(rows, []string{status.Name, state, yesNo(status.Optional), detail, status.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Binary", "Status", "Optional", "Detail", "Used for"},
				rows,
				nil,
			))
			if missingRequired > 0 {
				return fmt.Errorf("%d required binaries missing", missingRequired)
			}
			return nil
		},
	}
}
