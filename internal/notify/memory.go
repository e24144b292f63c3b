package notify

import (
	"context"
	"sync"
)

// MemoryFeed delivers signals inside a single process. Used when Redis is
// not configured.
type MemoryFeed struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[string]map[chan struct{}]struct{})}
}

func (f *MemoryFeed) Publish(ctx context.Context, customerUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subs[customerUID] {
		signal(ch)
	}
	return nil
}

func (f *MemoryFeed) Subscribe(ctx context.Context, customerUID string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	if f.subs[customerUID] == nil {
		f.subs[customerUID] = make(map[chan struct{}]struct{})
	}
	f.subs[customerUID][ch] = struct{}{}
	f.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		<-subCtx.Done()

		f.mu.Lock()
		delete(f.subs[customerUID], ch)
		if len(f.subs[customerUID]) == 0 {
			delete(f.subs, customerUID)
		}
		close(ch)
		f.mu.Unlock()
	}()

	return ch, cancel, nil
}

// Subscribers reports the live subscriptions for a customer.
func (f *MemoryFeed) Subscribers(customerUID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[customerUID])
}
