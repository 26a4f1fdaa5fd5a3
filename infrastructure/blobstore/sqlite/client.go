// ABOUTME: SQLite-backed blob store for persistent single-node deployments
// ABOUTME: Objects live in one table; view counts use an atomic counter row

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"shares-app-api/core/interfaces"
)

// Client implements the BlobStore and ViewCounter interfaces using SQLite
type Client struct {
	db       *sql.DB
	filePath string
}

// NewSQLiteStore creates a new SQLite-backed store
func NewSQLiteStore(filePath string) (*Client, error) {
	if filePath == "" {
		filePath = "shares.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	client := &Client{
		db:       db,
		filePath: filePath,
	}

	if err := client.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return client, nil
}

// initSchema creates the object and view tables if they don't exist
func (c *Client) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS objects (
			path TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS views (
			share_id TEXT PRIMARY KEY,
			total INTEGER NOT NULL DEFAULT 0
		);
	`

	_, err := c.db.Exec(query)
	return err
}

// Put stores a payload at the given path
func (c *Client) Put(ctx context.Context, path string, payload []byte) error {
	if path == "" {
		return errors.New("path cannot be empty")
	}

	query := `
		INSERT OR REPLACE INTO objects (path, payload)
		VALUES (?, ?)
	`

	_, err := c.db.ExecContext(ctx, query, path, payload)
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}

	return nil
}

// Get retrieves the payload at the given path
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}

	var payload []byte
	query := "SELECT payload FROM objects WHERE path = ?"
	err := c.db.QueryRowContext(ctx, query, path).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, interfaces.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return payload, nil
}

// RemoveMany deletes the given paths; absent paths are not an error
func (c *Client) RemoveMany(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin removal: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, path := range paths {
		if _, err := tx.ExecContext(ctx, "DELETE FROM objects WHERE path = ?", path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return tx.Commit()
}

// List returns the paths of all objects with the given prefix
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	query := "SELECT path FROM objects WHERE path LIKE ? || '%' ORDER BY path"
	rows, err := c.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, path)
	}

	return paths, rows.Err()
}

// Increment adds one view atomically and returns the new total
func (c *Client) Increment(ctx context.Context, shareID string) (int64, error) {
	query := `
		INSERT INTO views (share_id, total) VALUES (?, 1)
		ON CONFLICT(share_id) DO UPDATE SET total = total + 1
		RETURNING total
	`

	var total int64
	if err := c.db.QueryRowContext(ctx, query, shareID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}

	return total, nil
}

// Total returns the current view total, zero if never viewed
func (c *Client) Total(ctx context.Context, shareID string) (int64, error) {
	var total int64
	query := "SELECT total FROM views WHERE share_id = ?"
	err := c.db.QueryRowContext(ctx, query, shareID).Scan(&total)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read views: %w", err)
	}

	return total, nil
}

// Remove discards the counter for a deleted share
func (c *Client) Remove(ctx context.Context, shareID string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM views WHERE share_id = ?", shareID)
	if err != nil {
		return fmt.Errorf("failed to remove views: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}
