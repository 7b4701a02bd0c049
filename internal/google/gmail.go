package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	gmailapi "google.golang.org/api/gmail/v1"
)

// GmailSource fetches the user's sent mail one calendar day at a time.
type GmailSource struct {
	svc *gmailapi.Service
}

func NewGmailSource(svc *gmailapi.Service) *GmailSource {
	return &GmailSource{svc: svc}
}

// FetchDay lists up to max sent messages for the given day and resolves
// their metadata. Gmail's after/before query bounds are [after, before).
func (g *GmailSource) FetchDay(ctx context.Context, day time.Time, max int) ([]domain.EmailMessage, error) {
	query := fmt.Sprintf("in:sent after:%s before:%s",
		day.Format("2006/01/02"),
		day.AddDate(0, 0, 1).Format("2006/01/02"))

	list, err := g.svc.Users.Messages.List("me").
		Q(query).
		MaxResults(int64(max)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages for %s: %w", day.Format("2006-01-02"), err)
	}

	msgs := make([]domain.EmailMessage, 0, len(list.Messages))
	for _, ref := range list.Messages {
		full, err := g.svc.Users.Messages.Get("me", ref.Id).
			Format("metadata").
			MetadataHeaders("Subject", "From", "To", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", ref.Id, err)
		}
		msgs = append(msgs, toEmailMessage(full))
	}

	return msgs, nil
}

func toEmailMessage(m *gmailapi.Message) domain.EmailMessage {
	msg := domain.EmailMessage{
		ID:      m.Id,
		Snippet: m.Snippet,
		Date:    time.UnixMilli(m.InternalDate),
	}
	if m.Payload == nil {
		return msg
	}
	for _, h := range m.Payload.Headers {
		switch h.Name {
		case "Subject":
			msg.Subject = h.Value
		case "From":
			msg.From = h.Value
		case "To":
			for _, addr := range strings.Split(h.Value, ",") {
				if addr = strings.TrimSpace(addr); addr != "" {
					msg.To = append(msg.To, addr)
				}
			}
		}
	}
	return msg
}
