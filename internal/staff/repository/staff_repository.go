package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cafeteria/internal/domain"
)

const (
	PrimaryCollection  = "cafe_users"
	FallbackCollection = "users"
)

var collections = map[string]bool{
	PrimaryCollection:  true,
	FallbackCollection: true,
}

// MySQLStaffRepository reads and writes one staff collection. Rows are
// returned as stored; callers normalize them.
type MySQLStaffRepository struct {
	db    *sql.DB
	table string
}

func NewMySQLStaffRepository(db *sql.DB, collection string) (*MySQLStaffRepository, error) {
	if !collections[collection] {
		return nil, fmt.Errorf("unknown staff collection %q", collection)
	}
	return &MySQLStaffRepository{db: db, table: collection}, nil
}

func (r *MySQLStaffRepository) Name() string {
	return r.table
}

func (r *MySQLStaffRepository) FindByName(ctx context.Context, name string) ([]domain.StaffRecord, error) {
	query := fmt.Sprintf(`SELECT id, userId, name, pin, role, createdAt FROM %s WHERE name = ?`, r.table)
	return r.query(ctx, query, name)
}

func (r *MySQLStaffRepository) All(ctx context.Context) ([]domain.StaffRecord, error) {
	query := fmt.Sprintf(`SELECT id, userId, name, pin, role, createdAt FROM %s`, r.table)
	return r.query(ctx, query)
}

func (r *MySQLStaffRepository) Insert(ctx context.Context, u domain.StaffUser) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, userId, name, pin, role, createdAt) VALUES (?, ?, ?, ?, ?, ?)`, r.table)

	_, err := r.db.ExecContext(ctx, query, u.ID, u.ID, u.Name, u.PIN, u.Role, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", r.table, err)
	}
	return nil
}

// Ping reads a single row of the collection.
func (r *MySQLStaffRepository) Ping(ctx context.Context) error {
	var one int
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT 1 FROM %s LIMIT 1`, r.table)).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading %s: %w", r.table, err)
	}
	return nil
}

func (r *MySQLStaffRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.StaffRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.table, err)
	}
	defer rows.Close()

	var records []domain.StaffRecord
	for rows.Next() {
		var (
			rec               domain.StaffRecord
			userID, name, pin sql.NullString
			role              sql.NullString
			createdAt         sql.NullTime
		)
		if err := rows.Scan(&rec.DocID, &userID, &name, &pin, &role, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", r.table, err)
		}
		rec.ID = nullableString(userID)
		rec.Name = nullableString(name)
		rec.PIN = nullableString(pin)
		rec.Role = nullableString(role)
		if createdAt.Valid {
			t := createdAt.Time
			rec.CreatedAt = &t
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", r.table, err)
	}

	return records, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
