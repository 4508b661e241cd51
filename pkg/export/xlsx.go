package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Ranking"

// XLSXExporter lays the CSV rows out in a single worksheet with number
// cells and a bold header per tier.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) Format() string { return "xlsx" }
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (e *XLSXExporter) Extension() string { return "xlsx" }

func (e *XLSXExporter) Encode(w io.Writer, view View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	sw := &sheetWriter{file: f, row: 1}
	sw.line(bold, ReportTitle)
	if view.FilterUser != "" {
		sw.line(0, "Filtered by User: "+view.FilterUser)
	}
	sw.line(0, "Generated: "+view.GeneratedAt.Format("1/2/2006"))
	sw.row++

	years, secs := sections(view)
	header := headers(years)
	for _, s := range secs {
		sw.line(bold, "Rank "+s.Label)
		cells := make([]any, len(header))
		for i, h := range header {
			cells[i] = h
		}
		sw.line(bold, cells...)
		for _, r := range s.Rows {
			style := 0
			if r.Summary {
				style = bold
			}
			sw.line(style, xlsxRow(r)...)
		}
		sw.row++
	}
	if sw.err != nil {
		return sw.err
	}

	if err := f.SetColWidth(sheetName, "A", "A", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func xlsxRow(r row) []any {
	cells := []any{r.Name}
	for _, y := range append(r.Years, r.Total) {
		cells = append(cells, y.TotalSales, y.TotalMargin, y.Count)
	}
	return cells
}

// sheetWriter writes consecutive rows and keeps the first error.
type sheetWriter struct {
	file *excelize.File
	row  int
	err  error
}

func (sw *sheetWriter) line(style int, values ...any) {
	if sw.err != nil {
		return
	}
	start, err := excelize.CoordinatesToCellName(1, sw.row)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.file.SetSheetRow(sheetName, start, &values); err != nil {
		sw.err = fmt.Errorf("write row %d: %w", sw.row, err)
		return
	}
	if style != 0 {
		end, _ := excelize.CoordinatesToCellName(len(values), sw.row)
		if err := sw.file.SetCellStyle(sheetName, start, end, style); err != nil {
			sw.err = fmt.Errorf("style row %d: %w", sw.row, err)
			return
		}
	}
	sw.row++
}
