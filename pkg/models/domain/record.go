package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChannelRole is the synthetic dimension every normalized record carries.
const ChannelRole = "channel"

// RawRecord is one transaction line as delivered by a row source, keyed by the
// source's own column names.
type RawRecord map[string]any

// Grid is a sheet of cells before a header row has been identified.
type Grid [][]string

// MetricSet maps a metric role to its value.
type MetricSet map[string]decimal.Decimal

// Clone returns an independent copy of the set.
func (m MetricSet) Clone() MetricSet {
	out := make(MetricSet, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Get returns the value for metric, zero when absent.
func (m MetricSet) Get(metric string) decimal.Decimal {
	if v, ok := m[metric]; ok {
		return v
	}
	return decimal.Zero
}

// NormalizedRecord is a RawRecord rewritten into canonical roles.
type NormalizedRecord struct {
	SourceType  string
	SourceIndex int // position of the source in the report inputs; lower wins label coalescing
	Channel     string
	Date        time.Time // UTC midnight
	Dimensions  map[string]string
	Metrics     MetricSet
}
