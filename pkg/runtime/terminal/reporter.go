package terminal

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/de-tools/account-ranking/pkg/services/ranking"
)

type TableConfig struct {
	NameWidth  int
	MoneyWidth int
	CountWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  32,
		MoneyWidth: 12,
		CountWidth: 5,
	}
}

// Reporter outputs ranking reports to the console as text tables
type Reporter struct {
	writer io.Writer
	config TableConfig
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type tierView struct {
	Label       string
	Accounts    int
	TotalSales  float64
	TotalMargin float64
	Rows        []rowView
}

type rowView struct {
	Name   string
	Cells  []domain.YearBucket
	Totals bool
}

type reportView struct {
	Title      string
	FilterUser string
	Sort       string
	Empty      bool
	Years      []int
	Tiers      []tierView
}

const reportTemplate = `
{{.Title}}{{if .FilterUser}} (Filtered by: {{.FilterUser}}){{end}}
{{if .Sort}}Sorted by: {{.Sort}}
{{end}}{{if .Empty}}
No sales records match the current filter.
{{end}}{{range .Tiers}}
=== Rank {{.Label}} ===
Accounts: {{.Accounts}}  Sales: {{currency .TotalSales}}  Margin: {{currency .TotalMargin}}
{{separator}}
{{header}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
{{end}}`

func (c *Reporter) Handle(snapshot ranking.Snapshot, labels export.Labels) error {
	view := c.view(snapshot, labels)
	columns := len(view.Years) + 1

	funcMap := template.FuncMap{
		"currency": export.FormatCurrency,
		"separator": func() string {
			group := strings.Repeat("-", 2*c.config.MoneyWidth+c.config.CountWidth+6)
			return "+" + strings.Repeat("-", c.config.NameWidth+2) + strings.Repeat("+"+group, columns) + "+"
		},
		"header": func() string {
			var b strings.Builder
			fmt.Fprintf(&b, "| %-*s ", c.config.NameWidth, "Account Name")
			for _, year := range view.Years {
				c.writeGroupHeader(&b, strconv.Itoa(year))
			}
			c.writeGroupHeader(&b, "3-Year")
			b.WriteString("|")
			return b.String()
		},
		"formatRow": func(r rowView) string {
			var b strings.Builder
			fmt.Fprintf(&b, "| %-*s ", c.config.NameWidth, truncate(r.Name, c.config.NameWidth))
			for _, cell := range r.Cells {
				fmt.Fprintf(&b, "| %*s %*s %*d ",
					c.config.MoneyWidth, export.FormatCurrency(cell.TotalSales),
					c.config.MoneyWidth, export.FormatCurrency(cell.TotalMargin),
					c.config.CountWidth, cell.Count)
			}
			b.WriteString("|")
			return b.String()
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, view)
}

func (c *Reporter) writeGroupHeader(b *strings.Builder, title string) {
	fmt.Fprintf(b, "| %*s %*s %*s ",
		c.config.MoneyWidth, title+" Sales",
		c.config.MoneyWidth, "Margin",
		c.config.CountWidth, "#")
}

func (c *Reporter) view(snapshot ranking.Snapshot, labels export.Labels) reportView {
	report := snapshot.Report
	view := reportView{
		Title:      export.ReportTitle,
		FilterUser: snapshot.FilterUser,
		Sort:       export.SortDescription(snapshot.Sort),
		Empty:      report.Empty,
		Years:      report.Years(),
	}

	for i := range report.Buckets {
		bucket := &report.Buckets[i]
		if bucket.IsEmpty() {
			continue
		}

		tier := tierView{
			Label:       labels.For(bucket.Ranking),
			Accounts:    len(bucket.Accounts),
			TotalSales:  bucket.TotalSales,
			TotalMargin: bucket.TotalMargin,
		}
		for _, account := range bucket.Accounts {
			r := rowView{Name: account.Name}
			for _, year := range view.Years {
				r.Cells = append(r.Cells, account.Year(year))
			}
			r.Cells = append(r.Cells, domain.YearBucket{
				TotalSales:  account.TotalSales,
				TotalMargin: account.TotalMargin,
				Count:       account.TotalCount,
			})
			tier.Rows = append(tier.Rows, r)
		}

		total := rowView{Name: "RANK TOTAL", Totals: true}
		for _, year := range view.Years {
			total.Cells = append(total.Cells, bucket.YearTotals(year))
		}
		total.Cells = append(total.Cells, domain.YearBucket{
			TotalSales:  bucket.TotalSales,
			TotalMargin: bucket.TotalMargin,
			Count:       bucket.TotalCount,
		})
		tier.Rows = append(tier.Rows, total)
		view.Tiers = append(view.Tiers, tier)
	}
	return view
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
