package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/services/report"
)

// Services is what the commands run against once the config is loaded.
type Services interface {
	report.Controller
	Import(ctx context.Context, sourceType, path, sheet string) (*store.ImportBatch, error)
	SendDigest(ctx context.Context, anchor time.Time) (*store.DigestRun, error)
	Close() error
}

// Opener builds Services from the config file given on the command line.
type Opener func(ctx context.Context, configPath string) (Services, error)

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(adapters.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
