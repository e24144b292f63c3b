package usecase

import (
	"context"

	"cafeteria/internal/domain"
	"cafeteria/internal/events"
)

type mockOrderCreator struct {
	CreateFunc func(ctx context.Context, order domain.Order) (*domain.Order, error)
}

func (m *mockOrderCreator) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	return m.CreateFunc(ctx, order)
}

type mockSlots struct {
	slots []string
}

func (m *mockSlots) Slots() []string {
	return m.slots
}

type mockNotifier struct {
	PublishFunc func(ctx context.Context, customerUID string) error
	published   []string
}

func (m *mockNotifier) Publish(ctx context.Context, customerUID string) error {
	m.published = append(m.published, customerUID)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, customerUID)
	}
	return nil
}

type mockEventPublisher struct {
	PublishOrderCreatedFunc func(ctx context.Context, event events.OrderCreatedEvent) error
	published               []events.OrderCreatedEvent
}

func (m *mockEventPublisher) PublishOrderCreated(ctx context.Context, event events.OrderCreatedEvent) error {
	m.published = append(m.published, event)
	if m.PublishOrderCreatedFunc != nil {
		return m.PublishOrderCreatedFunc(ctx, event)
	}
	return nil
}

type mockStatusRepository struct {
	FindByIDFunc     func(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatusFunc func(ctx context.Context, id string, from, to domain.OrderStatus) error
}

func (m *mockStatusRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockStatusRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	return m.UpdateStatusFunc(ctx, id, from, to)
}
