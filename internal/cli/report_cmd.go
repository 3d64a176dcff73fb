package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/breakdesk/internal/app"
	"github.com/alexanderramin/breakdesk/internal/cli/formatter"
	"github.com/alexanderramin/breakdesk/internal/export"
	"github.com/spf13/cobra"
)

func newReportCmd(a *App) *cobra.Command {
	var req app.ReportRequest
	var pdfPath, title string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize breaks between two dates",
		Long: "Summarize breaks whose start falls between --from and --to. Both\n" +
			"dates are inclusive and either may be omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.History.Report(cmd.Context(), req)
			if err != nil {
				return err
			}

			if pdfPath != "" {
				if err := writeReportFile(pdfPath, title, resp, a); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s report written to %s\n", formatter.StyleGreen.Render("✔"), pdfPath)
				return nil
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(&resp.HistoryResponse, a.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.StartDate, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "to", "", "Last day, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&req.UserID, "user", "u", "", "Only sessions of this agent ID")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Write the report as a PDF to this file")
	cmd.Flags().StringVar(&title, "title", "Break report", "Title used in the PDF")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.MarkFlagsMutuallyExclusive("pdf", "json")

	return cmd
}

func writeReportFile(path, title string, resp *app.ReportResponse, a *App) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := export.WriteReportPDF(f, title, resp, a.now()); err != nil {
		return fmt.Errorf("writing report pdf: %w", err)
	}
	return nil
}
