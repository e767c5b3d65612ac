// Package analytics records privacy-conscious visitor and action counts in SQLite.
// Raw IP addresses are never stored, only a salted, truncated hash.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

type EventKind string

const (
	EventCopyEmail  EventKind = "copy_email"
	EventOpenLive   EventKind = "open_live"
	EventOpenSource EventKind = "open_source"
)

// Recorder is what the public site needs from analytics.
type Recorder interface {
	RecordVisit(ctx context.Context, ip, userAgent, path string) error
	RecordEvent(ctx context.Context, kind EventKind, target string) error
}

// Nop discards everything. Used when tracking is disabled.
type Nop struct{}

func (Nop) RecordVisit(context.Context, string, string, string) error { return nil }
func (Nop) RecordEvent(context.Context, EventKind, string) error      { return nil }

type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type Stats struct {
	TotalVisitors    int64               `json:"total_visitors"`
	UniqueVisitors   int64               `json:"unique_visitors"`
	VisitorsToday    int64               `json:"visitors_today"`
	VisitorsThisWeek int64               `json:"visitors_this_week"`
	Events           map[EventKind]int64 `json:"events"`
	RecentVisitors   []Visit             `json:"recent_visitors"`
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visitors_ts ON visitors (ts);
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	target TEXT,
	ts INTEGER NOT NULL
);`

type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open opens (or creates) the SQLite database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under the tracking goroutines
	db.SetMaxOpenConns(1)

	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New migrates db and returns a store with a fresh per-process hashing salt.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("migrate analytics db: %w", err)
	}
	salt, err := randomHex(32)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, salt: salt, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// HashIP is stable for one process lifetime and cannot be reversed without the salt.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, ts) VALUES (?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

func (s *Store) RecordEvent(ctx context.Context, kind EventKind, target string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (kind, target, ts) VALUES (?, ?, ?)`,
		string(kind), target, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record event %s: %w", kind, err)
	}
	return nil
}

// Cleanup deletes visits older than retention and returns how many were removed.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	return result.RowsAffected()
}

// DeleteVisitor removes every visit recorded for one hashed IP and returns
// how many were removed.
func (s *Store) DeleteVisitor(ctx context.Context, hashedIP string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE hashed_ip = ?`, hashedIP)
	if err != nil {
		return 0, fmt.Errorf("delete visitor: %w", err)
	}
	return result.RowsAffected()
}

// RunCleanup runs Cleanup immediately and then every interval until ctx is done.
func (s *Store) RunCleanup(ctx context.Context, retention, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := s.Cleanup(ctx, retention)
		if err != nil {
			logger.Error("visitor cleanup failed", "error", err)
		} else if n > 0 {
			logger.Info("removed expired visitor records", "count", n, "retention", retention)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Events: map[EventKind]int64{}}
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{startOfDay.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{now.Add(-7 * 24 * time.Hour).Unix()}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("count visitors: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM events GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		stats.Events[EventKind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.RecentVisitors, err = s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), ts
		FROM visitors
		ORDER BY ts DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
