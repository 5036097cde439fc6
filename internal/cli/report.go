package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"rentab/internal/report"
	"rentab/internal/sweep"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write an evaluation report as Markdown or HTML",
		Example: `  rentab report --out flat.md
  rentab report --html --out flat.html --rates 3:4:0.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			s, notary, err := resolveScenario(cmd, app)
			if err != nil {
				return err
			}

			result, err := s.Evaluate(notary)
			if err != nil {
				return err
			}

			doc := report.New(result)
			if title, _ := cmd.Flags().GetString("title"); title != "" {
				doc.Title = title
			}

			if cmd.Flags().Changed("rates") {
				grid, err := sweepGrid(cmd, s.Duration)
				if err != nil {
					return err
				}
				workers, _ := cmd.Flags().GetInt("workers")
				cells, err := sweep.NewRunner(workers, notary, app.Logger).Run(cmd.Context(), s, grid)
				if err != nil {
					return err
				}
				doc.WithSweep(cells)
			}

			var content []byte
			if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
				if content, err = doc.HTML(); err != nil {
					return err
				}
			} else {
				content = []byte(doc.Markdown())
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				_, err = output.Write(content)
				return err
			}

			if err := os.WriteFile(out, content, 0644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			app.Logger.Debug().Str("path", out).Int("bytes", len(content)).Msg("Report written")

			if output.IsJSON() {
				return output.JSON(map[string]string{"path": out, "size": strconv.Itoa(len(content))})
			}
			output.Success("✓ Report written to %s", out)
			return nil
		},
	}

	addScenarioFlags(cmd, app)
	addSweepFlags(cmd, app, "")
	cmd.Flags().Bool("html", false, "render HTML instead of Markdown")
	cmd.Flags().String("out", "", "output file (default: stdout)")
	cmd.Flags().String("title", report.DefaultTitle, "report title")
	return cmd
}
