// Package notify delivers plain-text notifications to a messaging channel.
package notify

import "context"

// Notifier sends a best-effort, fire-and-forget message. A failed send is
// reported to the caller but never retried here.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
