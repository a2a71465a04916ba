package api

type ReportSummary struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Sources []string `json:"sources"`
}

type Period struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// HeaderCell is one table column. Label is what a renderer prints on the outer
// header line; for period columns it is the formatted date.
type HeaderCell struct {
	Outer  string `json:"outer"`
	Label  string `json:"label"`
	Inner  string `json:"inner"`
	Kind   string `json:"kind"`
	Metric string `json:"metric"`
	Period string `json:"period,omitempty"`
}

type Row struct {
	Kind   string   `json:"kind"`
	Key    []string `json:"key"`
	Labels []string `json:"labels"`
	Values []string `json:"values"`
}

type Stats struct {
	Input          int `json:"input"`
	Normalized     int `json:"normalized"`
	InvalidDate    int `json:"invalid_date"`
	OutsidePeriods int `json:"outside_periods"`
}

type ReportTable struct {
	Title           string       `json:"title"`
	Dimensions      []string     `json:"dimensions"`
	DimensionLabels []string     `json:"dimension_labels"`
	Periods         []Period     `json:"periods"`
	Current         string       `json:"current"`
	Baseline        string       `json:"baseline"`
	RankingMetric   string       `json:"ranking_metric"`
	Header          []HeaderCell `json:"header"`
	Rows            []Row        `json:"rows"`
	Stats           Stats        `json:"stats"`
}

type Error struct {
	Error string `json:"error"`
}
