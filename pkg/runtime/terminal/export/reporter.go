package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

type TableConfig struct {
	MinWidth int
	MaxWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MinWidth: 6,
		MaxWidth: 40,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// view is a report table flattened to text cells. The first labelCols columns
// hold dimension labels, the rest hold values.
type view struct {
	Title     string
	Anchor    string
	Baseline  string
	Stats     domain.ReportStats
	Outer     []string
	Inner     []string
	Rows      [][]string
	labelCols int
	widths    []int
}

func newView(table *domain.ReportTable, cfg TableConfig) *view {
	v := &view{
		Title:     table.Title,
		Baseline:  table.Baseline,
		Stats:     table.Stats,
		labelCols: len(table.DimensionLabels),
	}
	if p, ok := table.Period(table.Current); ok {
		v.Anchor = p.Date.Format(adapters.DateLayout)
	}

	for _, l := range table.DimensionLabels {
		v.Outer = append(v.Outer, "")
		v.Inner = append(v.Inner, l)
	}
	prev := ""
	for _, c := range table.Header {
		label := adapters.HeaderLabel(c)
		if label == prev {
			v.Outer = append(v.Outer, "")
		} else {
			v.Outer = append(v.Outer, label)
		}
		prev = label
		v.Inner = append(v.Inner, c.Inner)
	}

	for _, r := range table.Rows {
		cells := make([]string, 0, len(v.Inner))
		for i := 0; i < v.labelCols; i++ {
			if i < len(r.Labels) {
				cells = append(cells, r.Labels[i])
			} else {
				cells = append(cells, "")
			}
		}
		for _, val := range r.Values {
			cells = append(cells, val.StringFixed(adapters.ValuePlaces))
		}
		v.Rows = append(v.Rows, cells)
	}

	v.widths = make([]int, len(v.Inner))
	for i := range v.widths {
		w := max(cfg.MinWidth, width(v.Outer[i]), width(v.Inner[i]))
		for _, row := range v.Rows {
			if i < len(row) {
				w = max(w, width(row[i]))
			}
		}
		v.widths[i] = min(w, cfg.MaxWidth)
	}
	return v
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, n int) string {
	if width(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "~"
}

func (v *view) formatRow(cells []string) string {
	var b strings.Builder
	b.WriteString("|")
	for i, w := range v.widths {
		cell := ""
		if i < len(cells) {
			cell = truncate(cells[i], w)
		}
		if i < v.labelCols {
			fmt.Fprintf(&b, " %-*s |", w, cell)
		} else {
			fmt.Fprintf(&b, " %*s |", w, cell)
		}
	}
	return b.String()
}

func (v *view) separator() string {
	var b strings.Builder
	b.WriteString("+")
	for _, w := range v.widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("+")
	}
	return b.String()
}

const reportTemplate = `
{{.Title}}
Current: {{.Anchor}}  Baseline: {{.Baseline}}
Rows: {{.Stats.Normalized}} of {{.Stats.Input}} (invalid date: {{.Stats.InvalidDate}}, outside periods: {{.Stats.OutsidePeriods}})

{{separator}}
{{formatRow .Outer}}
{{formatRow .Inner}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
`

// Handle prints table with a two line header: period dates or column groups
// on the first line, metric names on the second.
func (c *Reporter) Handle(table *domain.ReportTable) error {
	v := newView(table, c.config)

	funcMap := template.FuncMap{
		"formatRow": v.formatRow,
		"separator": v.separator,
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, v)
}
