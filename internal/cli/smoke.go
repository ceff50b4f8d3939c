package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/smoke"
)

// smokeCommand creates the smoke command: one canonical figure per type.
func (c *CLI) smokeCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "smoke [DIR]",
		Short: "Render one canonical figure of every type",
		Long: `Render a built-in figure for each supported figure type into DIR (default
"smoke") and report which types pass. Use it after changing styles or
canvas settings to see every figure family at once.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "smoke"
			if len(args) == 1 {
				dir = args[0]
			}
			_, opts, err := c.resolve(cmd, &flags)
			if err != nil {
				return err
			}

			runner, runID := c.newRunner(false)
			defer runner.Close()
			c.Logger.Debug("smoke", "run", runID, "dir", dir)

			spinner := newSpinner(cmd.Context(), "Rendering canonical figures")
			if isTerminal(os.Stderr) {
				spinner.Start()
			}
			report, err := smoke.Run(cmd.Context(), runner, dir, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, smokeTable(report))
			printKeyValue("output", dir)
			printKeyValue("formats", formatList(opts.Formats))
			if !report.OK() {
				return fmt.Errorf("%d of %d figure types failed", len(report.Entries)-report.Passed(), len(report.Entries))
			}
			printSuccess("all %d figure types rendered into %s", len(report.Entries), dir)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().Lookup("out").Hidden = true

	return cmd
}

// smokeTable renders a report as one row per figure type.
func smokeTable(r smoke.Report) string {
	rows := make([][]string, len(r.Entries))
	for i, e := range r.Entries {
		status := iconSuccess
		switch {
		case !e.Pass:
			status = iconError
		case e.Degraded:
			status = iconWarning
		}
		detail := ""
		if e.Err != nil {
			detail = truncate(e.Err.Error(), 50)
		}
		rows[i] = []string{status, string(e.Type), e.State.String(), fmt.Sprint(len(e.Paths)), detail}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "State", "Files", "Error").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col != 0 {
				if col == 4 {
					return lipgloss.NewStyle().Foreground(colorDim)
				}
				return lipgloss.NewStyle()
			}
			switch rows[row][0] {
			case iconError:
				return lipgloss.NewStyle().Foreground(colorRed)
			case iconWarning:
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle().Foreground(colorGreen)
		})

	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Smoke test: %d/%d passed", r.Passed(), len(r.Entries))))
	b.WriteString("\n")
	b.WriteString(t.Render())
	return b.String()
}

func formatList(formats []render.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
