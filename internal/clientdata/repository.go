// Package clientdata provides persistent caching for brokerage API
// responses. Payloads are stored as MessagePack blobs with expiration
// timestamps for cache-first behavior.
package clientdata

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// AllTables lists all tables in the cache database.
var AllTables = []string{
	"quotes",
	"transactions",
	"price_history",
	"option_contracts",
}

// validTables is a set for O(1) table name validation.
var validTables = func() map[string]bool {
	m := make(map[string]bool, len(AllTables))
	for _, t := range AllTables {
		m[t] = true
	}
	return m
}()

// Repository provides cache operations for brokerage data.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a new client data repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// EnsureSchema creates the cache tables if they do not exist.
func (r *Repository) EnsureSchema() error {
	for _, table := range AllTables {
		query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		)`, table)
		if _, err := r.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// validateTable ensures the table name is in the allowed list. This
// prevents SQL injection through table names.
func validateTable(table string) error {
	if !validTables[table] {
		return fmt.Errorf("invalid table name: %s", table)
	}
	return nil
}

// Store saves data with expiration = now + ttl.
func (r *Repository) Store(table, key string, data interface{}, ttl time.Duration) error {
	if err := validateTable(table); err != nil {
		return err
	}

	packed, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	expiresAt := r.now().Add(ttl).Unix()

	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (key, data, expires_at) VALUES (?, ?, ?)",
		table,
	)

	if _, err := r.db.Exec(query, key, packed, expiresAt); err != nil {
		return fmt.Errorf("failed to store data in %s: %w", table, err)
	}

	return nil
}

// GetIfFresh unmarshals into dest only if expires_at > now. Returns
// false when the key is missing or expired; use Get to fall back to
// stale data when the API is down.
func (r *Repository) GetIfFresh(table, key string, dest interface{}) (bool, error) {
	if err := validateTable(table); err != nil {
		return false, err
	}

	query := fmt.Sprintf(
		"SELECT data FROM %s WHERE key = ? AND expires_at > ?",
		table,
	)

	var data []byte
	err := r.db.QueryRow(query, key, r.now().Unix()).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get data from %s: %w", table, err)
	}

	if err := msgpack.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal data from %s: %w", table, err)
	}
	return true, nil
}

// Get unmarshals into dest regardless of expiration status. Stale data
// is better than no data when the API call fails. Returns false when the
// key does not exist.
func (r *Repository) Get(table, key string, dest interface{}) (bool, error) {
	if err := validateTable(table); err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE key = ?", table)

	var data []byte
	err := r.db.QueryRow(query, key).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get data from %s: %w", table, err)
	}

	if err := msgpack.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal data from %s: %w", table, err)
	}
	return true, nil
}

// DeleteExpired removes all rows where expires_at < now and returns the
// number of rows deleted.
func (r *Repository) DeleteExpired(table string) (int64, error) {
	if err := validateTable(table); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE expires_at < ?", table)

	result, err := r.db.Exec(query, r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired from %s: %w", table, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for %s: %w", table, err)
	}

	return deleted, nil
}

// DeleteAllExpired removes all expired entries from all tables and
// returns a map of table name to number of rows deleted.
func (r *Repository) DeleteAllExpired() (map[string]int64, error) {
	results := make(map[string]int64)

	for _, table := range AllTables {
		deleted, err := r.DeleteExpired(table)
		if err != nil {
			return results, fmt.Errorf("failed to delete expired from %s: %w", table, err)
		}
		results[table] = deleted
	}

	return results, nil
}
