// Package sqlstore implements the backend over database/sql, using SQLite
// for a local file or Postgres for a shared server.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/leeozaka/achados/internal/backend"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// firstProtocol is the protocol number of the first registration.
const firstProtocol = 12346

// timestamps are stored as fixed-width UTC text so they sort lexically on
// both engines.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Options struct {
	Driver string
	DSN    string
	Now    func() time.Time
}

type Store struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

var _ backend.Store = (*Store)(nil)

// Open connects, pings and migrates.
func Open(ctx context.Context, opts Options) (*Store, error) {
	driver := "sqlite"
	switch opts.Driver {
	case DriverSQLite, "":
		opts.Driver = DriverSQLite
	case DriverPostgres:
		driver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}

	conn, err := sql.Open(driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}

	if opts.Driver == DriverSQLite {
		// one writer at a time, otherwise "database is locked"
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(25)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	s := &Store{db: conn, dialect: opts.Driver, now: opts.Now}
	if s.now == nil {
		s.now = time.Now
	}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            role TEXT NOT NULL,
            admin INTEGER NOT NULL DEFAULT 0,
            blocked INTEGER NOT NULL DEFAULT 0,
            password_hash TEXT NOT NULL,
            created_at TEXT NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS objects (
            id TEXT PRIMARY KEY,
            protocol_num BIGINT NOT NULL UNIQUE,
            kind TEXT NOT NULL,
            name TEXT NOT NULL,
            name_search TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL,
            location TEXT NOT NULL,
            location_detail TEXT NOT NULL DEFAULT '',
            date TEXT NOT NULL,
            time TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            current_location TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            owner_id TEXT NOT NULL,
            allow_messages INTEGER NOT NULL DEFAULT 0,
            enable_alert INTEGER NOT NULL DEFAULT 0,
            visited_places TEXT NOT NULL DEFAULT '',
            created_at TEXT NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS objects_owner ON objects (owner_id)`,

		`CREATE TABLE IF NOT EXISTS object_images (
            object_id TEXT NOT NULL,
            position INTEGER NOT NULL,
            name TEXT NOT NULL,
            mime TEXT NOT NULL,
            data_uri TEXT NOT NULL,
            PRIMARY KEY (object_id, position)
        )`,

		`CREATE TABLE IF NOT EXISTS object_events (
            object_id TEXT NOT NULL,
            position INTEGER NOT NULL,
            event TEXT NOT NULL,
            at TEXT NOT NULL,
            PRIMARY KEY (object_id, position)
        )`,

		`CREATE TABLE IF NOT EXISTS conversations (
            id TEXT PRIMARY KEY,
            object_id TEXT NOT NULL,
            object_name TEXT NOT NULL,
            user_id TEXT NOT NULL,
            peer_name TEXT NOT NULL,
            unread INTEGER NOT NULL DEFAULT 0
        )`,

		`CREATE TABLE IF NOT EXISTS messages (
            id TEXT PRIMARY KEY,
            conversation_id TEXT NOT NULL,
            sender_id TEXT NOT NULL,
            sender_name TEXT NOT NULL DEFAULT '',
            text TEXT NOT NULL,
            att_name TEXT NOT NULL DEFAULT '',
            att_path TEXT NOT NULL DEFAULT '',
            att_size BIGINT NOT NULL DEFAULT 0,
            att_mime TEXT NOT NULL DEFAULT '',
            sent_at TEXT NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS reports (
            id TEXT PRIMARY KEY,
            object_id TEXT NOT NULL,
            object_name TEXT NOT NULL,
            reporter_id TEXT NOT NULL,
            reporter_name TEXT NOT NULL DEFAULT '',
            reason TEXT NOT NULL,
            status TEXT NOT NULL,
            created_at TEXT NOT NULL
        )`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// rebind turns ? placeholders into $n for Postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, q execer, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.rebind(query), args...)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) stamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseStamp(v string) time.Time {
	t, _ := time.Parse(timeLayout, v)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// placeholders returns "?, ?, ?" for n values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
