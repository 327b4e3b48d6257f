package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"YieldBoard/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read run history while the pipeline writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS run_history (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			source          TEXT,
			duration_ms     INTEGER,
			reits_fetched   INTEGER,
			reits_total     INTEGER,
			reits_processed INTEGER,
			etfs_fetched    INTEGER,
			etfs_total      INTEGER,
			etfs_processed  INTEGER,
			next_update     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_ts ON run_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(summary *model.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO run_history
		(timestamp, source, duration_ms,
		 reits_fetched, reits_total, reits_processed,
		 etfs_fetched, etfs_total, etfs_processed,
		 next_update)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		summary.StartedAt.Unix(), summary.Source, summary.Duration.Milliseconds(),
		summary.ReitsFetched, summary.ReitsTotal, summary.ReitsProcessed,
		summary.EtfsFetched, summary.EtfsTotal, summary.EtfsProcessed,
		summary.NextUpdate.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
