package export

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/dynamics"
	"github.com/san-kum/rigload/internal/loadshare"
	"github.com/san-kum/rigload/internal/storage"
)

// maxReportRows keeps the load table on a couple of pages.
const maxReportRows = 40

type Report struct {
	Title       string
	Meta        *storage.RunMetadata
	Points      []loadshare.Distribution
	Performance *dynamics.PerformanceSummary
}

// WriteReport renders the run summary, special points and a sampled load
// table as a PDF.
func WriteReport(w io.Writer, r Report) error {
	if r.Title == "" {
		r.Title = "Axle Load Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(format string, args ...interface{}) {
		pdf.Cell(0, 6, fmt.Sprintf(format, args...))
		pdf.Ln(6)
	}
	if m := r.Meta; m != nil {
		line("Run: %s", m.ID)
		line("Vehicle: %s", m.Vehicle)
		line("Model: %s", m.Model)
		line("Weight: %.1f kN", chassis.KN(m.Weight))
		line("Axles: %.2f / %.2f / %.2f / %.2f m", m.Axles[0], m.Axles[1], m.Axles[2], m.Axles[3])
		line("CG sweep: %.2f to %.2f m, step %.3f m", m.Sweep.From, m.Sweep.To, m.Sweep.Step)
		if len(m.Skipped) > 0 {
			line("Skipped positions: %v", m.Skipped)
		}
	}
	line("Date: %s", time.Now().Format("2006-01-02"))
	pdf.Ln(4)

	if sp, ok := loadshare.FindSpecialPoints(r.Points); ok {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Special points")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		line("Balance:   cg %.2f m, front %.1f kN, rear %.1f kN", sp.Balance.CG, chassis.KN(sp.Balance.Front()), chassis.KN(sp.Balance.Rear()))
		line("Max front: cg %.2f m, front %.1f kN", sp.MaxFront.CG, chassis.KN(sp.MaxFront.Front()))
		line("Max rear:  cg %.2f m, rear %.1f kN", sp.MaxRear.CG, chassis.KN(sp.MaxRear.Rear()))
		pdf.Ln(4)
	}

	if p := r.Performance; p != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Performance")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		if p.CanMove {
			line("Top speed: %.1f km/h in gear %s", chassis.MsToKmh(p.TopSpeed.Speed), p.TopSpeed.Gear)
		} else {
			line("Top speed: vehicle cannot move on level road")
		}
		line("Max grade: %.1f%% (%.1f deg) in gear %s at %.1f km/h",
			p.MaxGradePct, chassis.Degrees(p.MaxGrade), p.ClimbGear, chassis.MsToKmh(p.ClimbSpeed))
		pdf.Ln(4)
	}

	if len(r.Points) > 0 {
		loadTable(pdf, r.Points)
	}

	return pdf.Output(w)
}

func loadTable(pdf *gofpdf.Fpdf, points []loadshare.Distribution) {
	headers := []string{"CG (m)", "Axle 1", "Axle 2", "Axle 3", "Axle 4", "Front", "Rear"}
	const colW, rowH = 25.0, 6.0

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	for _, h := range headers {
		pdf.CellFormat(colW, rowH, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	step := 1
	if len(points) > maxReportRows {
		step = (len(points) + maxReportRows - 1) / maxReportRows
	}
	for i := 0; i < len(points); i += step {
		p := points[i]
		pdf.CellFormat(colW, rowH, fmt.Sprintf("%.2f", p.CG), "1", 0, "R", false, 0, "")
		for _, a := range p.Axles {
			pdf.CellFormat(colW, rowH, fmt.Sprintf("%.1f", chassis.KN(a)), "1", 0, "R", false, 0, "")
		}
		pdf.CellFormat(colW, rowH, fmt.Sprintf("%.1f", chassis.KN(p.Front())), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW, rowH, fmt.Sprintf("%.1f", chassis.KN(p.Rear())), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Loads in kN.")
}
