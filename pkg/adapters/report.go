package adapters

import (
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/report"
)

const (
	DateLayout  = "2006-01-02"
	LabelLayout = "Mon 02 Jan"
)

// ValuePlaces is the number of decimals rendered for every table value.
const ValuePlaces = 2

func MapDefinitionToApi(d report.Definition) api.ReportSummary {
	title := d.Title
	if title == "" {
		title = d.Name
	}
	return api.ReportSummary{
		Name:    d.Name,
		Title:   title,
		Sources: append([]string{}, d.Sources...),
	}
}

func MapDefinitionsToApi(defs []report.Definition) []api.ReportSummary {
	res := make([]api.ReportSummary, 0, len(defs))
	for _, d := range defs {
		res = append(res, MapDefinitionToApi(d))
	}
	return res
}

// HeaderLabel is the outer label of a column: the period date for metric and
// ratio columns, the group name otherwise.
func HeaderLabel(c domain.HeaderCell) string {
	if c.Period != "" && !c.Date.IsZero() {
		return c.Date.Format(LabelLayout)
	}
	return c.Outer
}

func MapHeaderCellDomainToApi(c domain.HeaderCell) api.HeaderCell {
	return api.HeaderCell{
		Outer:  c.Outer,
		Label:  HeaderLabel(c),
		Inner:  c.Inner,
		Kind:   string(c.Kind),
		Metric: c.Metric,
		Period: c.Period,
	}
}

func MapRowDomainToApi(r domain.ComparisonRow) api.Row {
	values := make([]string, 0, len(r.Values))
	for _, v := range r.Values {
		values = append(values, v.StringFixed(ValuePlaces))
	}
	return api.Row{
		Kind:   r.Kind.String(),
		Key:    append([]string{}, r.Key...),
		Labels: append([]string{}, r.Labels...),
		Values: values,
	}
}

func MapReportTableDomainToApi(t domain.ReportTable) api.ReportTable {
	res := api.ReportTable{
		Title:           t.Title,
		Dimensions:      append([]string{}, t.Dimensions...),
		DimensionLabels: append([]string{}, t.DimensionLabels...),
		Periods:         make([]api.Period, 0, len(t.Periods)),
		Current:         t.Current,
		Baseline:        t.Baseline,
		RankingMetric:   t.RankingMetric,
		Header:          make([]api.HeaderCell, 0, len(t.Header)),
		Rows:            make([]api.Row, 0, len(t.Rows)),
		Stats: api.Stats{
			Input:          t.Stats.Input,
			Normalized:     t.Stats.Normalized,
			InvalidDate:    t.Stats.InvalidDate,
			OutsidePeriods: t.Stats.OutsidePeriods,
		},
	}
	for _, p := range t.Periods {
		res.Periods = append(res.Periods, api.Period{Name: p.Name, Date: p.Date.Format(DateLayout)})
	}
	for _, c := range t.Header {
		res.Header = append(res.Header, MapHeaderCellDomainToApi(c))
	}
	for _, r := range t.Rows {
		res.Rows = append(res.Rows, MapRowDomainToApi(r))
	}
	return res
}
