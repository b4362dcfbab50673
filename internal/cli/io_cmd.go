package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/callsheet/internal/cli/formatter"
	"github.com/alexanderramin/callsheet/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a schedule from a JSON or YAML call sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s %s: %d track(s), %d entries\n",
				formatter.Bold(res.Schedule.Name), formatter.TruncID(res.Schedule.ID),
				res.TrackCount, res.EntryCount)
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a schedule as a JSON or YAML call sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := importer.FormatJSON
			switch {
			case cmd.Flags().Changed("format"):
				var err error
				if f, err = importer.ParseFormat(format); err != nil {
					return err
				}
			case output != "":
				f = importer.FormatForPath(output)
			}

			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			doc, err := app.Import.ExportSchedule(ctx, id)
			if err != nil {
				return err
			}
			data, err := importer.Marshal(doc, f)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", f, err)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", formatter.Bold(doc.Name), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(importer.FormatJSON), "Document format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout (format follows the extension)")

	return cmd
}
