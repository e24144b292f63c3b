package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cafeteria/internal/domain"
	"cafeteria/internal/errors"
)

type MySQLOrderRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewMySQLOrderRepository(db *sql.DB, now func() time.Time) *MySQLOrderRepository {
	if now == nil {
		now = time.Now
	}
	return &MySQLOrderRepository{db: db, now: now}
}

const orderColumns = `id, source, customerUid, customerEmail, customerName, status,
	items, total, notes, pickupTime, createdAt, updatedAt`

// Create writes the order as a single row. The id and both timestamps are
// assigned here, so the returned order is exactly what was inserted and no
// read-back follows the write.
func (r *MySQLOrderRepository) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	stored := newStoredOrder(order, uuid.New().String(), r.now())

	items, err := json.Marshal(stored.Items)
	if err != nil {
		return nil, fmt.Errorf("marshalling order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, source, customerUid, customerEmail, customerName, status,
		                    items, total, notes, pickupTime, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		stored.ID, stored.Source, stored.CustomerUID, stored.CustomerEmail, stored.CustomerName,
		stored.Status, items, stored.Total, stored.Notes, stored.PickupTime,
		stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}

	return &stored, nil
}

// newStoredOrder stamps the order with its id and creation time. Times are
// UTC at millisecond precision to match the DATETIME(3) columns.
func newStoredOrder(order domain.Order, id string, now time.Time) domain.Order {
	ts := now.UTC().Truncate(time.Millisecond)
	order.ID = id
	order.CreatedAt = ts
	order.UpdatedAt = ts
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	return order
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// ListByCustomer returns the customer's orders from one source in storage
// order. Callers sort.
func (r *MySQLOrderRepository) ListByCustomer(ctx context.Context, customerUID string, source domain.OrderSource) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customerUid = ? AND source = ?`

	rows, err := r.db.QueryContext(ctx, query, customerUID, source)
	if err != nil {
		return nil, fmt.Errorf("querying orders by customer: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves the order from one status to the next. The write only
// applies while the stored status is still from; otherwise it returns a
// ConflictError, or a NotFoundError when the order is gone.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	query := `UPDATE orders SET status = ?, updatedAt = ? WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query, to, r.now().UTC().Truncate(time.Millisecond), id, from)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 1 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	return errors.NewConflictError(fmt.Sprintf("order %s is %s, not %s", id, current.Status, from))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o     domain.Order
		items []byte
	)
	err := row.Scan(
		&o.ID, &o.Source, &o.CustomerUID, &o.CustomerEmail, &o.CustomerName, &o.Status,
		&items, &o.Total, &o.Notes, &o.PickupTime, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decoding items of order %s: %w", o.ID, err)
	}

	return &o, nil
}
