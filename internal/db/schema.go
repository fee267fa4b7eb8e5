package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Table DDL in dependency order. Every table is soft-delete aware.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	contact VARCHAR(255) NOT NULL,
	username VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password VARCHAR(255) NOT NULL,
	is_admin TINYINT(1) NOT NULL DEFAULT 0,
	password_otp VARCHAR(6) NULL,
	password_verified TINYINT(1) NULL,
	is_deleted TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_users_username (username),
	UNIQUE KEY uniq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS roles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	role_name ENUM('admin','user') NOT NULL,
	is_deleted TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_roles_name (role_name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS locations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	latitude DOUBLE NOT NULL,
	longitude DOUBLE NOT NULL,
	is_deleted TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_locations_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS travel_types (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	is_deleted TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_travel_types_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS price_categories (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	is_deleted TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_price_categories_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS max_seats (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	travel_type_id BIGINT NOT NULL,
	seats INT NOT NULL,
	is_deleted TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_max_seats_type (travel_type_id),
	CONSTRAINT fk_max_seats_type FOREIGN KEY (travel_type_id) REFERENCES travel_types (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS travel_details (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	travel_type_id BIGINT NOT NULL,
	departure_location_id BIGINT NOT NULL,
	departure_time DATETIME NOT NULL,
	arrival_location_id BIGINT NOT NULL,
	arrival_time DATETIME NOT NULL,
	is_deleted TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_travel_details_route (travel_type_id, departure_location_id, arrival_location_id),
	CONSTRAINT fk_travel_details_type FOREIGN KEY (travel_type_id) REFERENCES travel_types (id),
	CONSTRAINT fk_travel_details_dep FOREIGN KEY (departure_location_id) REFERENCES locations (id),
	CONSTRAINT fk_travel_details_arr FOREIGN KEY (arrival_location_id) REFERENCES locations (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS expenses (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	travel_detail_id BIGINT NOT NULL,
	price_category_id BIGINT NOT NULL,
	cost DECIMAL(10,2) NOT NULL,
	is_deleted TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_expenses_detail (travel_detail_id),
	CONSTRAINT fk_expenses_detail FOREIGN KEY (travel_detail_id) REFERENCES travel_details (id),
	CONSTRAINT fk_expenses_category FOREIGN KEY (price_category_id) REFERENCES price_categories (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NULL,
	travel_detail_id BIGINT NOT NULL,
	price_category_id BIGINT NULL,
	cost DECIMAL(10,2) NOT NULL,
	status ENUM('success','cancelled') NOT NULL DEFAULT 'success',
	refund_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
	is_deleted TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_bookings_user (user_id),
	KEY idx_bookings_detail (travel_detail_id),
	CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id),
	CONSTRAINT fk_bookings_detail FOREIGN KEY (travel_detail_id) REFERENCES travel_details (id),
	CONSTRAINT fk_bookings_category FOREIGN KEY (price_category_id) REFERENCES price_categories (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

// columnUpgrades adds columns that databases created before them lack.
var columnUpgrades = []struct {
	table, column, ddl string
}{
	{"bookings", "price_category_id", "ALTER TABLE bookings ADD COLUMN price_category_id BIGINT NULL AFTER travel_detail_id"},
	{"bookings", "refund_amount", "ALTER TABLE bookings ADD COLUMN refund_amount DECIMAL(10,2) NOT NULL DEFAULT 0 AFTER status"},
}

// EnsureSchema creates missing tables and columns. Existing data is left untouched.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	for _, ddl := range schema {
		if _, err := conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	for _, up := range columnUpgrades {
		ok, err := HasColumn(ctx, conn, up.table, up.column)
		if err != nil {
			return fmt.Errorf("inspect %s.%s: %w", up.table, up.column, err)
		}
		if ok {
			continue
		}
		if _, err := conn.ExecContext(ctx, up.ddl); err != nil {
			return fmt.Errorf("add %s.%s: %w", up.table, up.column, err)
		}
	}
	return nil
}

// HasColumn reports whether column exists on table in the current database.
func HasColumn(ctx context.Context, q DBTX, table, column string) (bool, error) {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1
	`, table, column).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return name.Valid && name.String != "", nil
}
