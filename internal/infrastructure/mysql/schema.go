package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// Each collection of the storefront is one table. Staff tables keep every
// column nullable because records written by other tooling may be partial.
var schema = []struct {
	name  string
	query string
}{
	{"categories", `
	CREATE TABLE IF NOT EXISTS categories (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(100) NULL
	)`},
	{"products", `
	CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		origin VARCHAR(100) NULL,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updatedAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3)
	)`},
	{"orders", `
	CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		source VARCHAR(20) NOT NULL,
		customerUid VARCHAR(128) NOT NULL,
		customerEmail VARCHAR(255) NOT NULL DEFAULT '',
		customerName VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL,
		items JSON NOT NULL,
		total DECIMAL(10,2) NULL,
		notes TEXT NOT NULL,
		pickupTime VARCHAR(5) NOT NULL DEFAULT '',
		createdAt DATETIME(3) NOT NULL,
		updatedAt DATETIME(3) NOT NULL,
		INDEX idx_customer (customerUid)
	)`},
	{"cafe_users", staffTable("cafe_users")},
	{"users", staffTable("users")},
}

func staffTable(name string) string {
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		userId VARCHAR(64) NULL,
		name VARCHAR(100) NULL,
		pin VARCHAR(100) NULL,
		role VARCHAR(20) NULL,
		createdAt DATETIME(3) NULL,
		INDEX idx_name (name)
	)`, name)
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, tbl := range schema {
		if _, err := db.ExecContext(ctx, tbl.query); err != nil {
			return fmt.Errorf("creating table %s: %w", tbl.name, err)
		}
	}
	return nil
}
