package controllers

import (
	"log/slog"
	"net/http"

	"teamhub/internal/domain"
)

// notifier sends event notifications on behalf of a controller. Failures are logged only;
// the roster change they follow is already committed.
type notifier struct {
	logger *slog.Logger
	sender domain.NotificationSender
}

func (n notifier) notifyAll(r *http.Request, event *domain.Event, templateKey string, userIDs []string, extra map[string]string) {
	if n.sender == nil || event == nil || len(userIDs) == 0 {
		return
	}
	vars := map[string]string{
		"event_title": event.Title,
		"event_date":  event.Date.Format(dateLayout),
	}
	for k, v := range extra {
		vars[k] = v
	}
	related := domain.RelatedEntity{Type: "event", ID: event.ID}
	failed := 0
	for _, userID := range userIDs {
		if _, err := n.sender.Send(r.Context(), userID, templateKey, vars, related); err != nil {
			failed++
			n.logger.WarnContext(r.Context(), "notification failed",
				"template", templateKey, "event_id", event.ID, "user_id", userID, "err", err)
		}
	}
	if failed > 0 {
		n.logger.WarnContext(r.Context(), "notifications incomplete",
			"template", templateKey, "event_id", event.ID, "failed", failed, "total", len(userIDs))
	}
}

func (c *EventController) notifyAll(r *http.Request, event *domain.Event, templateKey string, userIDs []string, extra map[string]string) {
	notifier{logger: c.Logger, sender: c.Notifier}.notifyAll(r, event, templateKey, userIDs, extra)
}

// distinct concatenates the lists, keeping the first occurrence of each id.
func distinct(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
