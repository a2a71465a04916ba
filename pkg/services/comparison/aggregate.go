package comparison

import (
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// MaxDepth is the deepest dimension hierarchy a report can group by.
const MaxDepth = 2

const keySep = "\x1f"

type bucketKey struct {
	key    string
	period string
}

// Buckets holds summed metrics per aggregation key and period. A bucket exists
// only when at least one record matched it.
type Buckets struct {
	depth   int
	keys    map[string][]string
	labels  *labelBook
	metrics map[bucketKey]domain.MetricSet

	// Matched counts records that landed in a bucket, Dropped those whose date
	// matched no period.
	Matched int
	Dropped int
}

// Aggregate sums record metrics into buckets keyed by the dimension tuple and
// the period whose date equals the record date.
func Aggregate(
	records []domain.NormalizedRecord,
	dims []string,
	periods []domain.Period,
	metrics []string,
	fold bool,
) (*Buckets, error) {
	if len(dims) == 0 || len(dims) > MaxDepth {
		return nil, &domain.ValidationError{
			Field:  "dimensions",
			Reason: fmt.Sprintf("expected 1 to %d roles, got %d", MaxDepth, len(dims)),
		}
	}

	byDate := make(map[string][]string, len(periods))
	for _, p := range periods {
		day := p.Date.Format(dayLayout)
		byDate[day] = append(byDate[day], p.Name)
	}

	b := &Buckets{
		depth:   len(dims),
		keys:    make(map[string][]string),
		labels:  newLabelBook(len(dims)),
		metrics: make(map[bucketKey]domain.MetricSet),
	}

	parts := make([]string, len(dims))
	for _, rec := range records {
		names, ok := byDate[rec.Date.Format(dayLayout)]
		if !ok {
			b.Dropped++
			continue
		}

		for i, dim := range dims {
			raw := rec.Dimensions[dim]
			parts[i] = keyPart(raw, fold)
			b.labels.observe(i, parts[i], raw)
		}
		joined := strings.Join(parts, keySep)
		if _, ok := b.keys[joined]; !ok {
			b.keys[joined] = append([]string(nil), parts...)
		}

		for _, name := range names {
			bk := bucketKey{key: joined, period: name}
			set, ok := b.metrics[bk]
			if !ok {
				set = make(domain.MetricSet, len(metrics))
				for _, m := range metrics {
					set[m] = rec.Metrics.Get(m)
				}
				b.metrics[bk] = set
				continue
			}
			for _, m := range metrics {
				set[m] = set[m].Add(rec.Metrics.Get(m))
			}
		}
		b.Matched++
	}

	return b, nil
}

// Keys returns every observed key tuple in lexical order.
func (b *Buckets) Keys() [][]string {
	joined := make([]string, 0, len(b.keys))
	for k := range b.keys {
		joined = append(joined, k)
	}
	sort.Strings(joined)

	out := make([][]string, len(joined))
	for i, k := range joined {
		out[i] = b.keys[k]
	}
	return out
}

// Get returns the bucket of key for period.
func (b *Buckets) Get(key []string, period string) (domain.MetricSet, bool) {
	set, ok := b.metrics[bucketKey{key: strings.Join(key, keySep), period: period}]
	return set, ok
}

// Labels returns the display labels of a key tuple.
func (b *Buckets) Labels(key []string) []string {
	out := make([]string, len(key))
	for i, part := range key {
		out[i] = b.labels.label(i, part)
	}
	return out
}

// Len is the number of distinct key tuples.
func (b *Buckets) Len() int {
	return len(b.keys)
}
