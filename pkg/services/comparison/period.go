package comparison

import (
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

const dayLayout = "2006-01-02"

// ResolvePeriods pins every period spec to anchor minus its offset.
func ResolvePeriods(specs []domain.PeriodSpec, anchor time.Time) []domain.Period {
	anchor = domain.Day(anchor)
	periods := make([]domain.Period, 0, len(specs))
	for _, s := range specs {
		periods = append(periods, domain.Period{
			Name:       s.Name,
			OffsetDays: s.OffsetDays,
			Date:       anchor.AddDate(0, 0, -s.OffsetDays),
		})
	}
	return periods
}

// latestDate returns the most recent record date.
func latestDate(records []domain.NormalizedRecord) (time.Time, bool) {
	var latest time.Time
	for _, r := range records {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest, !latest.IsZero()
}

func periodNames(periods []domain.Period) []string {
	names := make([]string, len(periods))
	for i, p := range periods {
		names[i] = p.Name
	}
	return names
}
