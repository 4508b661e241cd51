package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin  = 12.7
	nameWidth   = 52.0
	rowHeight   = 5.0
	headerColor = 230
)

// PDFExporter renders the report as a landscape A4 table.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) Format() string      { return "pdf" }
func (e *PDFExporter) ContentType() string { return "application/pdf" }
func (e *PDFExporter) Extension() string   { return "pdf" }

func (e *PDFExporter) Encode(w io.Writer, view View) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(ReportTitle, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	title := ReportTitle
	if view.FilterUser != "" {
		title += " (Filtered by: " + view.FilterUser + ")"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	subtitle := "Generated: " + view.GeneratedAt.Format("1/2/2006")
	if sorted := SortDescription(view.Sort); sorted != "" {
		subtitle += "   Sorted by: " + sorted
	}
	pdf.CellFormat(0, 5, tr(subtitle), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	if view.Report.Empty {
		pdf.CellFormat(0, 6, "No sales records match the current filter.", "", 1, "L", false, 0, "")
		return output(pdf, w)
	}

	years, secs := sections(view)
	pageWidth, _ := pdf.GetPageSize()
	numWidth := (pageWidth - 2*pageMargin - nameWidth) / float64(3*(len(years)+1))

	for _, s := range secs {
		pdf.SetFont("Helvetica", "B", 10)
		heading := fmt.Sprintf("Rank %s   %d accounts | %s total sales | %s total margin",
			s.Label, len(s.Bucket.Accounts),
			FormatCurrency(s.Bucket.TotalSales), FormatCurrency(s.Bucket.TotalMargin))
		pdf.CellFormat(0, 7, tr(heading), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 7)
		pdf.SetFillColor(headerColor, headerColor, headerColor)
		pdf.CellFormat(nameWidth, rowHeight, "", "LTR", 0, "L", true, 0, "")
		for _, year := range years {
			pdf.CellFormat(3*numWidth, rowHeight, strconv.Itoa(year), "1", 0, "C", true, 0, "")
		}
		pdf.CellFormat(3*numWidth, rowHeight, "3-Year Total", "1", 1, "C", true, 0, "")

		pdf.CellFormat(nameWidth, rowHeight, "Account Name", "LBR", 0, "L", true, 0, "")
		for i := 0; i <= len(years); i++ {
			pdf.CellFormat(numWidth, rowHeight, "Total Sales", "1", 0, "C", true, 0, "")
			pdf.CellFormat(numWidth, rowHeight, "Total Margin", "1", 0, "C", true, 0, "")
			pdf.CellFormat(numWidth, rowHeight, "# Sales", "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		for _, r := range s.Rows {
			style := ""
			if r.Summary {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 7)
			pdf.CellFormat(nameWidth, rowHeight, tr(r.Name), "1", 0, "L", r.Summary, 0, "")
			for _, y := range append(r.Years, r.Total) {
				pdf.CellFormat(numWidth, rowHeight, FormatCurrency(y.TotalSales), "1", 0, "R", r.Summary, 0, "")
				pdf.CellFormat(numWidth, rowHeight, FormatCurrency(y.TotalMargin), "1", 0, "R", r.Summary, 0, "")
				pdf.CellFormat(numWidth, rowHeight, strconv.Itoa(y.Count), "1", 0, "R", r.Summary, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	return output(pdf, w)
}

func output(pdf *fpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
