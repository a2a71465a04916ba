package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/services/report"
	digeststore "github.com/de-tools/sales-atlas/pkg/store/duckdb/digest"
	"github.com/rs/zerolog"
)

type Config struct {
	Report  string
	Subject string
	From    string
	To      []string
}

type Service struct {
	controller report.Controller
	sender     Sender
	runs       digeststore.Store
	config     Config
}

func NewService(controller report.Controller, sender Sender, runs digeststore.Store, config Config) (*Service, error) {
	if controller == nil || sender == nil || runs == nil {
		return nil, fmt.Errorf("digest service needs a controller, a sender and a run store")
	}
	if config.Report == "" {
		return nil, fmt.Errorf("digest report is not configured")
	}
	return &Service{
		controller: controller,
		sender:     sender,
		runs:       runs,
		config:     config,
	}, nil
}

// Send delivers the digest for anchor (zero means the latest day with data)
// even when that day was already delivered.
func (s *Service) Send(ctx context.Context, anchor time.Time) (*store.DigestRun, error) {
	return s.deliver(ctx, anchor, false)
}

// SendNew delivers the digest of the latest day unless it went out already.
// It returns nil when there was nothing new to send.
func (s *Service) SendNew(ctx context.Context) (*store.DigestRun, error) {
	return s.deliver(ctx, time.Time{}, true)
}

func (s *Service) deliver(ctx context.Context, anchor time.Time, skipDelivered bool) (*store.DigestRun, error) {
	logger := zerolog.Ctx(ctx).With().Str("report", s.config.Report).Logger()

	table, err := s.controller.Run(ctx, s.config.Report, anchor)
	if err != nil {
		return nil, err
	}
	current, ok := table.Period(table.Current)
	if !ok {
		return nil, fmt.Errorf("report %s has no current period", s.config.Report)
	}

	if skipDelivered {
		last, err := s.runs.LastRun(ctx, s.config.Report)
		if err != nil {
			return nil, err
		}
		if last != nil && !last.AnchorDate.Before(current.Date) {
			logger.Debug().Time("anchor", current.Date).Msg("digest already delivered")
			return nil, nil
		}
	}

	text, html, err := Render(table)
	if err != nil {
		return nil, err
	}

	subject := s.config.Subject
	if subject == "" {
		subject = table.Title
	}
	msg := Message{
		From:    s.config.From,
		To:      s.config.To,
		Subject: fmt.Sprintf("%s - %s", subject, current.Date.Format("02 Jan 2006")),
		Text:    text,
		HTML:    html,
	}

	run := store.DigestRun{
		Report:     s.config.Report,
		AnchorDate: current.Date,
		Recipients: len(msg.To),
		SentAt:     time.Now().UTC(),
	}
	sendErr := s.sender.Send(ctx, msg)
	if sendErr != nil {
		errText := sendErr.Error()
		run.Error = &errText
	}
	if err := s.runs.RecordRun(ctx, run); err != nil {
		logger.Error().Err(err).Msg("failed to record digest run")
	}
	if sendErr != nil {
		return &run, sendErr
	}

	logger.Info().
		Time("anchor", current.Date).
		Int("recipients", run.Recipients).
		Msg("digest delivered")
	return &run, nil
}
