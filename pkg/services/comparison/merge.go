package comparison

import (
	"sort"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownLabel stands in for an empty dimension value.
const UnknownLabel = "Unknown"

var lower = cases.Lower(language.Und)

// Coalesce concatenates normalized records in source precedence order. Records of
// the same source keep their relative order.
func Coalesce(records []domain.NormalizedRecord) []domain.NormalizedRecord {
	out := make([]domain.NormalizedRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SourceIndex < out[j].SourceIndex
	})
	return out
}

// keyPart turns a raw dimension value into its aggregation key component.
func keyPart(raw string, fold bool) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return UnknownLabel
	}
	if fold {
		return strings.Join(strings.Fields(lower.String(v)), " ")
	}
	return v
}

// labelBook remembers, per dimension position, the first non-empty raw value seen
// for each key component.
type labelBook struct {
	labels []map[string]string
}

func newLabelBook(depth int) *labelBook {
	b := &labelBook{labels: make([]map[string]string, depth)}
	for i := range b.labels {
		b.labels[i] = make(map[string]string)
	}
	return b
}

func (b *labelBook) observe(pos int, key, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	if _, ok := b.labels[pos][key]; !ok {
		b.labels[pos][key] = raw
	}
}

func (b *labelBook) label(pos int, key string) string {
	if l, ok := b.labels[pos][key]; ok {
		return l
	}
	return key
}
