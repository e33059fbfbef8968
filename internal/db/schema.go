package db

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	TableUsers                = "users"
	TableDrivers              = "drivers"
	TableVerificationProgress = "verification_progress"
	TableVerificationStatus   = "verification_status"
)

// Tables lists every table the service owns, in creation order.
var Tables = []string{TableUsers, TableDrivers, TableVerificationProgress, TableVerificationStatus}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(191) NOT NULL,
		email         VARCHAR(191) NOT NULL UNIQUE,
		phone         VARCHAR(64)  NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		user_type     VARCHAR(16)  NOT NULL DEFAULT 'passenger',
		created_at    DATETIME     NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id         BIGINT PRIMARY KEY,
		is_online  TINYINT(1) NOT NULL DEFAULT 0,
		lat        DOUBLE NULL,
		lng        DOUBLE NULL,
		updated_at DATETIME NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS verification_progress (
		driver_id  BIGINT PRIMARY KEY,
		version    INT      NOT NULL,
		revision   BIGINT   NOT NULL,
		payload    JSON     NOT NULL,
		updated_at DATETIME NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS verification_status (
		driver_id       BIGINT PRIMARY KEY,
		is_verified     TINYINT(1) NOT NULL,
		completed_steps JSON       NOT NULL,
		submitted_at    DATETIME   NULL,
		completed_at    DATETIME   NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", Tables[i], err)
		}
	}
	return nil
}
