package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	rfhttp "github.com/randalmurphal/resumeflow/http"
)

// =============================================================================
// WebhookNotifier
// =============================================================================

// WebhookNotifier delivers events to a generic HTTP webhook. Transient
// delivery failures are retried briefly; events are advisory, so the
// notifier gives up rather than stall the workflow.
type WebhookNotifier struct {
	URL string

	client *rfhttp.Client
}

// NewWebhookNotifier creates a webhook notifier. Headers are applied to
// every delivery (authentication tokens, signatures).
func NewWebhookNotifier(url string, headers map[string]string) *WebhookNotifier {
	return &WebhookNotifier{
		URL: url,
		client: rfhttp.NewClient(rfhttp.ClientConfig{
			Client:     &http.Client{Timeout: 10 * time.Second},
			Endpoint:   url,
			Name:       "webhook",
			MaxRetries: 2,
			RetryWait:  200 * time.Millisecond,
			BeforeRequest: func(req *http.Request) {
				for k, v := range headers {
					req.Header.Set(k, v)
				}
			},
		}),
	}
}

// Notify implements Notifier.
func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	if err := n.client.Post(ctx, event); err != nil {
		return fmt.Errorf("deliver %s event: %w", event.Type, err)
	}
	return nil
}
