// Package export renders break reports to files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/breakdesk/internal/app"
	"github.com/go-pdf/fpdf"
)

const timeLayout = "2006-01-02 15:04"

// WriteReportPDF renders a report as an A4 PDF: headline summary, per-agent
// and per-type tables, then every session. generatedAt is stamped in the
// header and document metadata.
func WriteReportPDF(w io.Writer, title string, r *app.ReportResponse, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s  |  Generated %s", periodLabel(r), generatedAt.Format(timeLayout)))
	pdf.Ln(10)

	s := r.Summary
	section(pdf, "Summary")
	table(pdf, tr, []float64{60, 30},
		[]string{"Metric", "Value"},
		[][]string{
			{"Total sessions", fmt.Sprint(s.TotalCount)},
			{"Completed", fmt.Sprint(s.EndedCount)},
			{"Ongoing", fmt.Sprint(s.OngoingCount)},
			{"Total break time (min)", fmt.Sprint(s.TotalElapsedMin)},
			{"Average break (min)", fmt.Sprint(s.AverageMin)},
			{"Violations", fmt.Sprint(s.ViolationCount)},
			{"Violation time (min)", fmt.Sprint(s.TotalViolationMin)},
		})

	section(pdf, "By agent")
	agentRows := make([][]string, 0, len(r.ByAgent))
	for _, a := range r.ByAgent {
		agentRows = append(agentRows, []string{a.Name, fmt.Sprint(a.Count), fmt.Sprint(a.ViolationCount), fmt.Sprint(a.TotalViolationSec / 60)})
	}
	table(pdf, tr, []float64{60, 25, 30, 40}, []string{"Agent", "Breaks", "Violations", "Over (min)"}, agentRows)

	section(pdf, "By break type")
	typeRows := make([][]string, 0, len(r.ByBreakType))
	for _, b := range r.ByBreakType {
		typeRows = append(typeRows, []string{b.Name, fmt.Sprint(b.Count), fmt.Sprint(b.TotalDurationMin)})
	}
	table(pdf, tr, []float64{60, 25, 40}, []string{"Break type", "Breaks", "Total (min)"}, typeRows)

	section(pdf, "Sessions")
	sessionRows := make([][]string, 0, len(r.Sessions))
	for _, v := range r.Sessions {
		end := "ongoing"
		if v.EndTime != nil {
			end = v.EndTime.Local().Format(timeLayout)
		}
		sessionRows = append(sessionRows, []string{
			v.AgentName,
			v.BreakTypeName,
			v.StartTime.Local().Format(timeLayout),
			end,
			fmt.Sprintf("%d:%02d", v.ElapsedSec/60, v.ElapsedSec%60),
			fmt.Sprint(v.ViolationSec),
		})
	}
	table(pdf, tr, []float64{35, 30, 35, 35, 25, 25},
		[]string{"Agent", "Type", "Start", "End", "Elapsed", "Over (s)"}, sessionRows)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering report pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing report pdf: %w", err)
	}
	return nil
}

func periodLabel(r *app.ReportResponse) string {
	from, to := "beginning", "now"
	if r.Start != nil {
		from = r.Start.Format(app.DateLayout)
	}
	if r.End != nil {
		// End is exclusive; show the last included day.
		to = r.End.AddDate(0, 0, -1).Format(app.DateLayout)
	}
	return from + " to " + to
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func table(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, header []string, rows [][]string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 240)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if len(rows) == 0 {
		total := 0.0
		for _, w := range widths {
			total += w
		}
		pdf.CellFormat(total, 7, "No data", "1", 1, "C", false, 0, "")
		return
	}
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
