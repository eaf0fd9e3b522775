// internal/data/database.go
package data

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"auctionbackend/internal/logger"
)

// Global database instance
var (
	db   *sql.DB
	dbMu sync.RWMutex
)

// Database connection pool configuration
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
	connMaxIdleTime = time.Minute * 15
	queryTimeout    = time.Second * 30
)

const TimeFormat = time.RFC3339

// InitDB initializes the database with connection pooling and resilience
func InitDB(dataSourceName string) error {
	dbMu.Lock()
	defer dbMu.Unlock()

	// Close existing connection if any
	if db != nil {
		db.Close()
	}

	return initDBWithRetry(dataSourceName, 3)
}

func initDBWithRetry(dataSourceName string, maxRetries int) error {
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = sql.Open("sqlite", dataSourceName)
		if err != nil {
			logger.LogWarn("Database connection attempt %d failed: %v", attempt, err)
			if attempt < maxRetries {
				time.Sleep(time.Duration(attempt) * time.Second)
				continue
			}
			return fmt.Errorf("failed to open database after %d attempts: %w", maxRetries, err)
		}

		// Configure connection pool
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)
		db.SetConnMaxIdleTime(connMaxIdleTime)

		// Test the connection
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		err = db.PingContext(ctx)
		cancel()

		if err != nil {
			logger.LogWarn("Database ping attempt %d failed: %v", attempt, err)
			db.Close()
			if attempt < maxRetries {
				time.Sleep(time.Duration(attempt) * time.Second)
				continue
			}
			return fmt.Errorf("failed to ping database after %d attempts: %w", maxRetries, err)
		}

		if err := enablePragmas(db); err != nil {
			logger.LogWarn("Failed to enable some database optimizations: %v", err)
			// Don't fail initialization for pragma errors
		}

		logger.LogInfo("Database connection established successfully (attempt %d)", attempt)
		return nil
	}

	return fmt.Errorf("failed to initialize database after %d attempts", maxRetries)
}

func enablePragmas(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	var lastErr error
	for _, pragma := range pragmas {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		_, err := conn.ExecContext(ctx, pragma)
		cancel()

		if err != nil {
			logger.LogWarn("Failed to execute %s: %v", pragma, err)
			lastErr = err
		}
	}
	return lastErr
}

// GetDB returns the database connection
func GetDB() (*sql.DB, error) {
	dbMu.RLock()
	defer dbMu.RUnlock()

	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return db, nil
}

// CloseDB closes the database connection
func CloseDB() error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// ExecDB runs a statement with the standard query timeout.
func ExecDB(query string, args ...interface{}) (sql.Result, error) {
	conn, err := GetDB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return conn.ExecContext(ctx, query, args...)
}

// QueryDB runs a query with the standard query timeout.
func QueryDB(query string, args ...interface{}) (*sql.Rows, error) {
	conn, err := GetDB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return conn.QueryContext(ctx, query, args...)
}

// QueryRowDB runs a single-row query with the standard query timeout.
func QueryRowDB(query string, args ...interface{}) *sql.Row {
	conn, err := GetDB()
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return conn.QueryRowContext(ctx, query, args...)
}

// EnsureSchema creates the auction tables if they do not exist.
func EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS bidders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			team_name TEXT,
			purse REAL NOT NULL DEFAULT 100.0,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS bids (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bidder_id INTEGER NOT NULL,
			player_name TEXT NOT NULL,
			amount REAL NOT NULL,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			is_winning INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (bidder_id) REFERENCES bidders (id)
		)`,
		`CREATE TABLE IF NOT EXISTS sale_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_name TEXT NOT NULL,
			category TEXT,
			base_price REAL,
			winner_id INTEGER NOT NULL,
			final_price REAL NOT NULL,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (winner_id) REFERENCES bidders (id)
		)`,
		`CREATE TABLE IF NOT EXISTS rosters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bidder_id INTEGER NOT NULL,
			player_name TEXT NOT NULL,
			player_category TEXT,
			purchase_price REAL,
			position INTEGER,
			is_captain INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (bidder_id) REFERENCES bidders (id),
			UNIQUE(bidder_id, player_name)
		)`,
	}

	for _, stmt := range statements {
		if _, err := ExecDB(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

func parseTime(raw string) time.Time {
	if t, err := time.Parse(TimeFormat, raw); err == nil {
		return t
	}
	// sqlite CURRENT_TIMESTAMP fallback
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return t
	}
	return time.Time{}
}
