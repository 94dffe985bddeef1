package clicks

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists clicks in SQLite.
type Store struct {
	db   *sql.DB
	salt string
}

// NewStore opens (or creates) the click database at dbPath and loads the
// hashing salt, generating one on first use.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open clicks db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.initSalt(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS clicks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			link_id TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			device TEXT NOT NULL,
			referrer TEXT NOT NULL DEFAULT '',
			ts INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_clicks_ts ON clicks(ts);
		CREATE INDEX IF NOT EXISTS idx_clicks_link ON clicks(link_id);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// currentSchemaVersion is the latest schema version. Increment when adding migrations.
const currentSchemaVersion = 1

func (s *Store) migrate() error {
	verStr, err := s.getSetting("schema_version")
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	version := 0
	if verStr != "" {
		version, err = strconv.Atoi(verStr)
		if err != nil {
			return fmt.Errorf("parse schema version %q: %w", verStr, err)
		}
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("schema version %d is newer than supported %d", version, currentSchemaVersion)
	}

	return s.setSetting("schema_version", strconv.Itoa(currentSchemaVersion))
}

func (s *Store) initSalt() error {
	v, err := s.getSetting("hash_salt")
	if err != nil {
		return fmt.Errorf("read hash salt: %w", err)
	}
	if v == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		v = hex.EncodeToString(b)
		if err := s.setSetting("hash_salt", v); err != nil {
			return fmt.Errorf("store hash salt: %w", err)
		}
	}
	s.salt = v
	return nil
}

func (s *Store) getSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

func (s *Store) setSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// HashIP returns the salted hash of ip.
func (s *Store) HashIP(ip string) string {
	return hashIP(s.salt, ip)
}

// Record stores one click.
func (s *Store) Record(ctx context.Context, c Click) error {
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clicks (link_id, ip_hash, device, referrer, ts) VALUES (?, ?, ?, ?, ?)`,
		c.LinkID, c.IPHash, c.Device, c.Referrer, c.Timestamp.UTC().Unix())
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	return nil
}

// Counts returns clicks per link since the given time, most clicked first.
func (s *Store) Counts(ctx context.Context, since time.Time) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT link_id, COUNT(*) AS n
		FROM clicks
		WHERE ts >= ?
		GROUP BY link_id
		ORDER BY n DESC, link_id ASC`, since.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("count clicks: %w", err)
	}
	defer rows.Close()

	counts := []Count{}
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.LinkID, &c.Clicks); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CleanupOlderThan removes clicks older than retentionDays.
func (s *Store) CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM clicks WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup clicks: %w", err)
	}
	return res.RowsAffected()
}

// StartCleanupScheduler runs periodic cleanup of old clicks. Returns a stop function.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration, logger *slog.Logger) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				n, err := s.CleanupOlderThan(context.Background(), retentionDays)
				if err != nil {
					logger.Error("click cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Info("click cleanup", "deleted", n)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
