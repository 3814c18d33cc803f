// Package notify provides notification services for workflow events.
//
// Core types:
//   - Notifier: Interface for sending notifications
//   - Event: Notification event with type, message, and metadata
//   - EventType: Type of event (started, paused, completed, failed, etc.)
//
// Implementations:
//   - WebhookNotifier: Sends notifications to generic webhooks
//   - LogNotifier: Logs notifications (for testing/debugging)
//   - MultiNotifier: Combines multiple notifiers
//   - NopNotifier: No-op notifier (for testing)
//
// Example usage:
//
//	notifier := notify.NewWebhookNotifier(webhookURL, nil)
//	err := notifier.Notify(ctx, notify.Event{
//	    Type:    notify.EventRunCompleted,
//	    Thread:  "thr_abc123",
//	    Message: "Workflow completed successfully",
//	})
package notify
