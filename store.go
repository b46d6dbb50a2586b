package portfolio

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

//go:embed schema/*.sql
var schemaFS embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store persists projects, blog posts, contact messages, admin credentials and
// image metadata in SQLite or PostgreSQL.
type Store struct {
	db     *sqlx.DB
	driver string
	seq    string // column that increases with every insert
	now    func() time.Time
}

// NewStore opens the database for driver. For SQLite dsn is a file path whose
// directory is created on demand; for PostgreSQL it is a connection string.
func NewStore(driverName, dsn string) (*Store, error) {
	switch driverName {
	case "", DriverSQLite:
		return newSQLiteStore(dsn)
	case DriverPostgres:
		db, err := sqlx.Connect(DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return newStore(db, DriverPostgres)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}
}

func newSQLiteStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sqlx.Open(DriverSQLite, path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during writes; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	return newStore(db, DriverSQLite)
}

func newStore(db *sqlx.DB, driverName string) (*Store, error) {
	s := &Store{
		db:     db,
		driver: driverName,
		seq:    "rowid",
		now:    func() time.Time { return time.Now().UTC() },
	}
	if driverName == DriverPostgres {
		s.seq = "seq"
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver reports the database driver the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ensureSchema() error {
	ddl, err := schemaFS.ReadFile("schema/" + s.driver + ".sql")
	if err != nil {
		return err
	}
	_, err = s.db.Exec(string(ddl))
	return err
}

// newestFirst orders by creation time with insertion order breaking ties.
func (s *Store) newestFirst() string {
	return ` ORDER BY created_at DESC, ` + s.seq + ` DESC`
}

// q rewrites ? placeholders into the bind style of the active driver.
func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

// timestamp returns the current store time at microsecond precision so that
// values survive a round trip through either backend unchanged.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func newID() string {
	return uuid.NewString()
}

func toMicros(t time.Time) int64 {
	return t.UnixMicro()
}

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

// jsonList stores a string slice as a JSON array in a text column.
type jsonList []string

func (l jsonList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *jsonList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = jsonList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("jsonList: unsupported type %T", src)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		*l = jsonList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("jsonList: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// getOne runs a single-row query into dest, mapping sql.ErrNoRows to ErrNotFound.
func (s *Store) getOne(ctx context.Context, dest any, query string, args ...any) error {
	err := s.db.GetContext(ctx, dest, s.q(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// execOne runs a write that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, s.q(query), args...); err != nil {
		return 0, err
	}
	return n, nil
}
