package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geofig/pkg/figure"
)

// validateCommand creates the validate command, which parses and checks
// blocks without solving or rendering them.
func (c *CLI) validateCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate FILE|DIR...",
		Short: "Check figure blocks for schema errors",
		Long: `Parse every figure block and check it against the figure schema: known
element kinds, point references that resolve, and values in range. Nothing
is rendered. The command fails when any block is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandInputs(args)
			if err != nil {
				return err
			}
			jobs, err := loadJobs(files)
			if err != nil {
				return err
			}

			invalid := 0
			for _, job := range jobs {
				spec, errs := figure.ParseAndValidate(job.Block)
				if len(errs) == 0 {
					if !quiet {
						printSuccess("%s %s", job.Source, StyleDim.Render(string(spec.Type)))
					}
					continue
				}
				invalid++
				printError("%s", job.Source)
				for _, e := range errs {
					printDetail("%s", e.Error())
				}
			}

			c.Logger.Debug("validated", "files", len(files), "blocks", len(jobs), "invalid", invalid)
			if invalid > 0 {
				return fmt.Errorf("%d of %d blocks are invalid", invalid, len(jobs))
			}
			if quiet {
				printSuccess("%d blocks valid", len(jobs))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only list invalid blocks")

	return cmd
}
