package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/loadshare"
	"github.com/san-kum/rigload/internal/storage"
)

const (
	loadsSheet = "Loads"
	runSheet   = "Run"
)

var ErrEmptySheet = errors.New("export: sheet has no data rows")

// WriteWorkbook writes a run as an xlsx workbook: a Loads sheet with one row
// per CG position plus a line chart, and a Run sheet with the metadata.
func WriteWorkbook(w io.Writer, meta *storage.RunMetadata, points []loadshare.Distribution) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", loadsSheet); err != nil {
		return err
	}
	header := []interface{}{"cg_m", "axle1_kn", "axle2_kn", "axle3_kn", "axle4_kn", "front_kn", "rear_kn", "front_share"}
	if err := f.SetSheetRow(loadsSheet, "A1", &header); err != nil {
		return err
	}
	for i, p := range points {
		row := []interface{}{p.CG}
		for _, a := range p.Axles {
			row = append(row, chassis.KN(a))
		}
		row = append(row, chassis.KN(p.Front()), chassis.KN(p.Rear()), p.FrontShare())
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(loadsSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(loadsSheet, "A", "H", 12); err != nil {
		return err
	}

	if len(points) > 1 {
		last := len(points) + 1
		var series []excelize.ChartSeries
		for col := 'B'; col <= 'E'; col++ {
			series = append(series, excelize.ChartSeries{
				Name:       fmt.Sprintf("%s!$%c$1", loadsSheet, col),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", loadsSheet, last),
				Values:     fmt.Sprintf("%s!$%c$2:$%c$%d", loadsSheet, col, col, last),
			})
		}
		if err := f.AddChart(loadsSheet, "J2", &excelize.Chart{
			Type:   excelize.Line,
			Series: series,
			Title:  []excelize.RichTextRun{{Text: "Axle load (kN) vs CG (m)"}},
		}); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(runSheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"id", meta.ID},
		{"model", meta.Model},
		{"vehicle", meta.Vehicle},
		{"weight_kn", chassis.KN(meta.Weight)},
		{"axles_m", fmt.Sprint(meta.Axles)},
		{"sweep_m", fmt.Sprintf("%g..%g step %g", meta.Sweep.From, meta.Sweep.To, meta.Sweep.Step)},
		{"points", meta.Points},
		{"skipped", len(meta.Skipped)},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(runSheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// ReadComponents reads a mass breakdown from the first sheet of an xlsx
// workbook. Columns: name, mass_kg, x_m. The first row is a header.
func ReadComponents(r io.Reader) (chassis.Components, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	var comps chassis.Components
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("export: %s row %d: want name, mass_kg, x_m", sheet, i+1)
		}
		mass, err := toFloat(row[1])
		if err != nil {
			return nil, fmt.Errorf("export: %s row %d mass: %w", sheet, i+1, err)
		}
		x, err := toFloat(row[2])
		if err != nil {
			return nil, fmt.Errorf("export: %s row %d position: %w", sheet, i+1, err)
		}
		comps = append(comps, chassis.Component{Name: strings.TrimSpace(row[0]), MassKg: mass, X: x})
	}
	if len(comps) == 0 {
		return nil, ErrEmptySheet
	}
	return comps, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
}
