package notify

import "context"

// Feed carries "orders changed" signals for one customer. A signal has no
// payload; subscribers re-read the store when it arrives.
type Feed interface {
	Publish(ctx context.Context, customerUID string) error
	// Subscribe returns a channel that receives a signal after each change.
	// Signals that arrive while one is pending are coalesced. The channel is
	// closed once cancel is called or ctx ends.
	Subscribe(ctx context.Context, customerUID string) (<-chan struct{}, func(), error)
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
