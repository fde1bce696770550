package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/vocabquiz/internal/config"
)

var (
	// ErrNotFound is returned when a topic or word does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidPracticeRatio is returned for practice ratios outside [0, 1]
	ErrInvalidPracticeRatio = errors.New("practice ratio must be between 0 and 1")
)

// Connect opens the configured database and makes sure the schema exists
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Type {
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for postgres")
		}
		db, err = sqlx.Connect("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err = OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a sqlite database at path (":memory:" works) without creating the schema
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers, and each :memory: connection is its own database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// InitSchema creates the tables if they don't exist
func InitSchema(db *sqlx.DB) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	statements := []struct {
		name  string
		query string
	}{
		{"topics", `
			CREATE TABLE IF NOT EXISTS topics (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				difficulty TEXT NOT NULL DEFAULT 'Beginner',
				practice_ratio DOUBLE PRECISION NOT NULL DEFAULT 0.5 CHECK (practice_ratio >= 0 AND practice_ratio <= 1),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`},
		{"vocabulary", `
			CREATE TABLE IF NOT EXISTS vocabulary (
				id TEXT PRIMARY KEY,
				topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
				position INTEGER NOT NULL,
				word TEXT NOT NULL,
				phonetic TEXT NOT NULL DEFAULT '',
				part_of_speech TEXT NOT NULL DEFAULT '',
				meaning TEXT NOT NULL
			)
		`},
		{"vocabulary index", `CREATE INDEX IF NOT EXISTS idx_vocabulary_topic ON vocabulary (topic_id, position)`},
		// attempts reference topics and words weakly; deletes prune them explicitly
		{"practice_attempts", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS practice_attempts (
				seq %s,
				topic_id TEXT NOT NULL,
				word_id TEXT NOT NULL,
				attempted_at BIGINT NOT NULL,
				correct BOOLEAN NOT NULL,
				question_type TEXT NOT NULL
			)
		`, serial)},
	}

	for _, st := range statements {
		if _, err := db.Exec(st.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", st.name, err)
		}
	}
	return nil
}
