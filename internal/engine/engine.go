// Package engine holds the embedded relational database. The live database
// is an SQLite file in a scratch directory; its durable form is a serialized
// image written to a blob-store slot after every mutation.
package engine

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"calendario-store/internal/blob"
	"calendario-store/internal/domain"
	"calendario-store/internal/metrics"
)

// PersistMode controls how Exec handles a failed image write.
type PersistMode int

const (
	// PersistOptimistic logs persistence failures and returns success to the
	// caller. A mutation that succeeded in memory can silently fail to
	// survive a restart under this mode.
	PersistOptimistic PersistMode = iota
	// PersistDurable surfaces persistence failures from Exec: a nil return
	// means the mutation is in the blob store.
	PersistDurable
)

// Options configures the engine.
type Options struct {
	// ScratchDir is where the working database file lives. Required.
	ScratchDir string
	// PersistMode selects optimistic or durable image writes.
	PersistMode PersistMode
}

// Engine owns the in-process relational database. All access is serialized
// by an explicit mutex: one mutation in flight at a time, and the image
// persisted after a mutation always includes it.
type Engine struct {
	mu   sync.Mutex
	conn *sql.DB
	blob *blob.Store
	opts Options

	initOnce sync.Once
	initErr  error

	scratchPath string
}

// New creates an engine backed by the given blob store. Initialization is
// deferred and memoized: the first operation triggers it, concurrent callers
// wait on the same attempt.
func New(store *blob.Store, opts Options) *Engine {
	return &Engine{
		blob:        store,
		opts:        opts,
		scratchPath: filepath.Join(opts.ScratchDir, "calendario.db"),
	}
}

// Initialize forces initialization now instead of on first use. Safe to call
// multiple times; every call observes the outcome of the single attempt.
func (e *Engine) Initialize() error {
	return e.init()
}

func (e *Engine) init() error {
	e.initOnce.Do(func() {
		e.initErr = e.initialize()
		if e.initErr != nil {
			slog.Error("Failed to initialize database engine", "error", e.initErr)
		}
	})
	if e.initErr != nil {
		return fmt.Errorf("%w: %v", domain.ErrEngineNotReady, e.initErr)
	}
	return nil
}

func (e *Engine) initialize() error {
	if err := os.MkdirAll(e.opts.ScratchDir, 0755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}

	image, err := e.blob.LoadImage(SchemaVersion)
	if err != nil {
		return fmt.Errorf("failed to load stored image: %w", err)
	}

	// Start from a clean scratch file either way: the stored image is the
	// source of truth, leftovers from a previous process are not.
	for _, p := range []string{e.scratchPath, e.scratchPath + "-wal", e.scratchPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear scratch file: %w", err)
		}
	}

	if image != nil {
		if err := os.WriteFile(e.scratchPath, image, 0644); err != nil {
			return fmt.Errorf("failed to write scratch file: %w", err)
		}
	}

	conn, err := open(e.scratchPath)
	if err != nil {
		return err
	}

	if image != nil {
		e.conn = conn
		metrics.EngineInitTotal.WithLabelValues("restored").Inc()
		slog.Info("Database image restored", "bytes", len(image))
		return nil
	}

	// Fresh database: create the schema and persist the first image so the
	// version slot is stamped even before the first mutation.
	if _, err := conn.Exec(Schema); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	e.conn = conn
	if err := e.persist(); err != nil {
		return fmt.Errorf("failed to persist fresh database: %w", err)
	}
	metrics.EngineInitTotal.WithLabelValues("fresh").Inc()
	slog.Info("New database created", "schema_version", SchemaVersion)
	return nil
}

func open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// Query executes a read-only statement and returns its rows. The caller owns
// the returned rows and must close them.
func (e *Engine) Query(query string, args ...any) (*sql.Rows, error) {
	if err := e.init(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	rows, err := e.conn.Query(query, args...)
	e.mu.Unlock()

	if err != nil {
		metrics.EngineOperationsTotal.WithLabelValues(metrics.OpQuery, metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("query failed: %w", err)
	}
	metrics.EngineOperationsTotal.WithLabelValues(metrics.OpQuery, metrics.ResultSuccess).Inc()
	return rows, nil
}

// QueryRow executes a read-only statement expected to return at most one row.
func (e *Engine) QueryRow(query string, args ...any) (*sql.Row, error) {
	if err := e.init(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn.QueryRow(query, args...), nil
}

// Exec executes a mutating statement. On success the database image is
// persisted to the blob store before Exec returns; in durable mode a failed
// image write fails the call, in optimistic mode it is logged and counted
// only.
func (e *Engine) Exec(query string, args ...any) (sql.Result, error) {
	if err := e.init(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.conn.Exec(query, args...)
	if err != nil {
		metrics.EngineOperationsTotal.WithLabelValues(metrics.OpCommand, metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("command failed: %w", err)
	}
	metrics.EngineOperationsTotal.WithLabelValues(metrics.OpCommand, metrics.ResultSuccess).Inc()

	if err := e.persist(); err != nil {
		if e.opts.PersistMode == PersistDurable {
			return nil, fmt.Errorf("failed to persist database image: %w", err)
		}
		slog.Error("Failed to persist database image", "error", err)
	}

	return result, nil
}

// LastInsertID returns the id of the most recently inserted row. Three tiers,
// in order: last_insert_rowid(), MAX(id) on activities, and finally 1 for
// the first-row case. The fallbacks guard against embedded engines that
// report 0 unreliably after certain operations; all three are kept on
// purpose.
func (e *Engine) LastInsertID() (int64, error) {
	if err := e.init(); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var id int64
	if err := e.conn.QueryRow("SELECT last_insert_rowid()").Scan(&id); err != nil {
		metrics.EngineOperationsTotal.WithLabelValues(metrics.OpLastInsertID, metrics.ResultFailure).Inc()
		return 0, fmt.Errorf("failed to read last insert id: %w", err)
	}
	if id > 0 {
		metrics.LastInsertIDFallbackTotal.WithLabelValues(metrics.TierRowID).Inc()
		return id, nil
	}

	var maxID sql.NullInt64
	if err := e.conn.QueryRow("SELECT MAX(id) FROM activities").Scan(&maxID); err != nil {
		metrics.EngineOperationsTotal.WithLabelValues(metrics.OpLastInsertID, metrics.ResultFailure).Inc()
		return 0, fmt.Errorf("failed to read max activity id: %w", err)
	}
	if maxID.Valid {
		metrics.LastInsertIDFallbackTotal.WithLabelValues(metrics.TierMaxID).Inc()
		return maxID.Int64, nil
	}

	// Empty table after an insert: first row
	metrics.LastInsertIDFallbackTotal.WithLabelValues(metrics.TierFirst).Inc()
	return 1, nil
}

// Persist writes the current database image to the blob store regardless of
// persistence mode.
func (e *Engine) Persist() error {
	if err := e.init(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persist()
}

// persist exports a consistent image of the live database and writes it to
// the image slot. Callers must hold e.mu.
func (e *Engine) persist() error {
	exportPath := e.scratchPath + ".export"
	if err := os.Remove(exportPath); err != nil && !os.IsNotExist(err) {
		metrics.PersistTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return fmt.Errorf("failed to clear export file: %w", err)
	}

	// VACUUM INTO produces a complete single-file image even under WAL.
	if _, err := e.conn.Exec("VACUUM INTO ?", exportPath); err != nil {
		metrics.PersistTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return fmt.Errorf("failed to export database image: %w", err)
	}

	image, err := os.ReadFile(exportPath)
	if err != nil {
		metrics.PersistTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return fmt.Errorf("failed to read exported image: %w", err)
	}
	os.Remove(exportPath)

	if err := e.blob.StoreImage(image, SchemaVersion); err != nil {
		metrics.PersistTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return err
	}

	metrics.PersistTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.PersistedImageBytes.Set(float64(len(image)))
	return nil
}

// Close closes the live database. The blob store is owned by the caller and
// stays open.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn != nil {
		return e.conn.Close()
	}
	return nil
}
