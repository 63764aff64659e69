package push

import "context"

// Channel is a per-user real-time delivery capability. The workflow only
// ever depends on this interface, never on a concrete transport.
type Channel interface {
	Publish(ctx context.Context, userID int, event string, payload any) error
}
