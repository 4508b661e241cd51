package export

import (
	"bufio"
	"io"
	"strings"
)

// CSVExporter writes the plain-text report the host application imports.
// Account names are always quoted; numbers never are.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Format() string      { return "csv" }
func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }
func (e *CSVExporter) Extension() string   { return "csv" }

func (e *CSVExporter) Encode(w io.Writer, view View) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(ReportTitle + "\n")
	if view.FilterUser != "" {
		bw.WriteString("Filtered by User: " + view.FilterUser + "\n")
	}
	bw.WriteString("Generated: " + view.GeneratedAt.Format("1/2/2006") + "\n\n")

	years, secs := sections(view)
	header := strings.Join(headers(years), ",")
	for _, s := range secs {
		bw.WriteString("Rank " + s.Label + "\n")
		bw.WriteString(header + "\n")
		for _, r := range s.Rows {
			bw.WriteString(csvRow(r))
			if r.Summary {
				bw.WriteString("\n")
			}
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

func csvRow(r row) string {
	var b strings.Builder
	b.WriteString(quote(r.Name))
	for _, y := range append(r.Years, r.Total) {
		b.WriteString(",")
		b.WriteString(formatNumber(y.TotalSales))
		b.WriteString(",")
		b.WriteString(formatNumber(y.TotalMargin))
		b.WriteString(",")
		b.WriteString(formatNumber(float64(y.Count)))
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
