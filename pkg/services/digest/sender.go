package digest

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type sendGridSender struct {
	client *sendgrid.Client
}

func NewSendGridSender(apiKey string) (Sender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is empty")
	}
	return &sendGridSender{client: sendgrid.NewSendClient(apiKey)}, nil
}

func (s *sendGridSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("digest has no recipients")
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("", msg.From))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail("", to))
	}
	m.AddPersonalizations(p)
	// text/plain must precede text/html
	m.AddContent(
		mail.NewContent("text/plain", msg.Text),
		mail.NewContent("text/html", msg.HTML),
	)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send digest: sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
