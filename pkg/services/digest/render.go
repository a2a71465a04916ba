package digest

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

const htmlBody = `<html><body>
<h2>{{.Title}}</h2>
<p>Snapshot for {{.Date}}</p>
<table border="1" cellpadding="4" cellspacing="0">
<thead><tr><th>{{.Dimension}}</th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{if .Total}}<td><b>{{.Label}}</b></td>{{else}}<td>{{.Label}}</td>{{end}}{{range .Values}}<td align="right">{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body></html>
`

const textBody = `{{.Title}}
Snapshot for {{.Date}}
{{range .Rows}}
{{.Label}}
{{range $i, $v := .Values}}  {{index $.Columns $i}}: {{$v}}
{{end}}{{end}}`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("digest").Parse(htmlBody))
	textTmpl = template.Must(template.New("digest").Parse(textBody))
)

type snapshot struct {
	Title     string
	Date      string
	Dimension string
	Columns   []string
	Rows      []snapshotRow
}

type snapshotRow struct {
	Label  string
	Total  bool
	Values []string
}

// newSnapshot keeps the top level of the table: subtotal rows and the grand
// total, or the leaves of a single level report.
func newSnapshot(table *domain.ReportTable) snapshot {
	s := snapshot{
		Title: table.Title,
	}
	if p, ok := table.Period(table.Current); ok {
		s.Date = p.Date.Format(adapters.DateLayout)
	}
	if len(table.DimensionLabels) > 0 {
		s.Dimension = table.DimensionLabels[0]
	}
	for _, c := range table.Header {
		s.Columns = append(s.Columns, fmt.Sprintf("%s %s", adapters.HeaderLabel(c), c.Inner))
	}

	level := domain.RowKindLeaf
	for _, r := range table.Rows {
		if r.Kind == domain.RowKindSubtotal {
			level = domain.RowKindSubtotal
			break
		}
	}
	for _, r := range table.Rows {
		if r.Kind != level && r.Kind != domain.RowKindGrandTotal {
			continue
		}
		row := snapshotRow{
			Label: firstLabel(r.Labels),
			Total: r.Kind == domain.RowKindGrandTotal,
		}
		for _, v := range r.Values {
			row.Values = append(row.Values, v.StringFixed(adapters.ValuePlaces))
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

func firstLabel(labels []string) string {
	for _, l := range labels {
		if l != "" {
			return l
		}
	}
	return ""
}

// Render turns a report table into the text and HTML bodies of a digest.
func Render(table *domain.ReportTable) (text, html string, err error) {
	s := newSnapshot(table)

	var tb, hb bytes.Buffer
	if err := textTmpl.Execute(&tb, s); err != nil {
		return "", "", fmt.Errorf("render digest text: %w", err)
	}
	if err := htmlTmpl.Execute(&hb, s); err != nil {
		return "", "", fmt.Errorf("render digest html: %w", err)
	}
	return tb.String(), hb.String(), nil
}
