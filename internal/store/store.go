package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns the SQLite connection and hands out repositories.
type Store struct {
	db  *sql.DB
	seq sequencer
}

// Repos bundles the repositories bound to one connection or transaction.
type Repos struct {
	Users         UserRepo
	Habits        HabitRepo
	Events        EventRepo
	Notifications NotificationRepo
}

// Open opens (or creates) the SQLite database at path and migrates it to
// SchemaVersion. path may be a file path, ":memory:", or a "file:" URI.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite is single-writer, and each in-memory connection is its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// connPragmas are applied by the driver to every new connection.
var connPragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// withPragmas turns path into a modernc.org/sqlite DSN carrying connPragmas.
// Writes take the lock up front (_txlock=immediate) so two writers queue on
// busy_timeout instead of failing to upgrade a read lock.
func withPragmas(path string) string {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range connPragmas {
		b.WriteString(sep + "_pragma=" + p)
		sep = "&"
	}
	b.WriteString("&_txlock=immediate")
	return b.String()
}

func (s *Store) DB() *sql.DB   { return s.db }
func (s *Store) Close() error { return s.db.Close() }

// Repos returns repositories that run each call in its own implicit transaction.
func (s *Store) Repos() Repos {
	return s.reposFor(s.db)
}

// UserRepo returns a UserRepo backed by this store.
func (s *Store) UserRepo() UserRepo { return &userRepo{db: s.db} }

// HabitRepo returns a HabitRepo backed by this store.
func (s *Store) HabitRepo() HabitRepo { return &habitRepo{db: s.db} }

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo { return &eventRepo{db: s.db, seq: s.seq} }

// NotificationRepo returns a NotificationRepo backed by this store.
func (s *Store) NotificationRepo() NotificationRepo {
	return &notificationRepo{db: s.db, seq: s.seq}
}

// RunInTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) RunInTx(ctx context.Context, fn func(Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(s.reposFor(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) reposFor(q dbtx) Repos {
	return Repos{
		Users:         &userRepo{db: q},
		Habits:        &habitRepo{db: q},
		Events:        &eventRepo{db: q, seq: s.seq},
		Notifications: &notificationRepo{db: q, seq: s.seq},
	}
}

// DefaultDBPath returns $VOW_DB, else vow/vow.db under the XDG data
// directory (~/.local/share when XDG_DATA_HOME is unset). The parent
// directory is created.
func DefaultDBPath() (string, error) {
	p := os.Getenv("VOW_DB")
	if p == "" {
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("locate data dir: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
		p = filepath.Join(base, "vow", "vow.db")
	}
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
