package tracker

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"cafeteria/internal/domain"
	"cafeteria/internal/notify"
)

type OrderLister interface {
	ListByCustomer(ctx context.Context, customerUID string, source domain.OrderSource) ([]domain.Order, error)
}

// Snapshot is the customer's full order list at one point in time. Each
// snapshot replaces the previous one.
type Snapshot struct {
	Orders []domain.Order
	Err    error
}

type Tracker struct {
	orders OrderLister
	feed   notify.Feed
	logger *zap.Logger
}

func NewTracker(orders OrderLister, feed notify.Feed, logger *zap.Logger) *Tracker {
	return &Tracker{
		orders: orders,
		feed:   feed,
		logger: logger,
	}
}

// Load returns the customer's storefront orders, newest first.
func (t *Tracker) Load(ctx context.Context, customerUID string) ([]domain.Order, error) {
	orders, err := t.orders.ListByCustomer(ctx, customerUID, domain.OrderSourceApp)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(orders)
	return orders, nil
}

// Start subscribes to the customer's orders. The first snapshot is sent
// right away and another after every change signal. The caller owns the
// subscription and must call Stop.
func (t *Tracker) Start(ctx context.Context, customerUID string) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	changes, release, err := t.feed.Subscribe(subCtx, customerUID)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{
		updates: make(chan Snapshot),
		cancel: func() {
			release()
			cancel()
		},
		done: make(chan struct{}),
	}

	go t.run(subCtx, customerUID, changes, sub)

	t.logger.Debug("order tracking started", zap.String("customerUid", customerUID))

	return sub, nil
}

func (t *Tracker) run(ctx context.Context, customerUID string, changes <-chan struct{}, sub *Subscription) {
	defer close(sub.done)
	defer close(sub.updates)

	if !t.deliver(ctx, customerUID, sub) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if !t.deliver(ctx, customerUID, sub) {
				return
			}
		}
	}
}

func (t *Tracker) deliver(ctx context.Context, customerUID string, sub *Subscription) bool {
	orders, err := t.Load(ctx, customerUID)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		t.logger.Error("reloading orders failed", zap.String("customerUid", customerUID), zap.Error(err))
	}

	select {
	case sub.updates <- Snapshot{Orders: orders, Err: err}:
		return true
	case <-ctx.Done():
		return false
	}
}

type Subscription struct {
	updates chan Snapshot
	cancel  func()
	once    sync.Once
	done    chan struct{}
}

func (s *Subscription) Updates() <-chan Snapshot {
	return s.updates
}

// Stop releases the feed subscription. It is safe to call more than once;
// the updates channel is closed when it returns.
func (s *Subscription) Stop() {
	s.once.Do(s.cancel)
	<-s.done
}

func SortNewestFirst(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
