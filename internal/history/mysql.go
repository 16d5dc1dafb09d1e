// Package history appends finished runs to a MySQL database so trends can be
// queried across builds.
package history

import (
	"database/sql"
	"fmt"
	"strings"

	"story/internal/domain"

	"github.com/go-sql-driver/mysql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS story_runs (
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	recorded_at DATETIME NOT NULL,
	status VARCHAR(32) NOT NULL,
	incomplete_reason TEXT,
	total_planned INT NOT NULL,
	executed INT NOT NULL,
	failed INT NOT NULL,
	suites INT NOT NULL,
	duration_ms BIGINT NOT NULL,
	seed VARCHAR(64)
)`,
	`CREATE TABLE IF NOT EXISTS story_failures (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	run_id VARCHAR(36) NOT NULL,
	suite VARCHAR(255) NOT NULL,
	test VARCHAR(512) NOT NULL,
	message TEXT,
	INDEX idx_story_failures_run (run_id)
)`,
}

const (
	insertRun     = "INSERT INTO story_runs (id, recorded_at, status, incomplete_reason, total_planned, executed, failed, suites, duration_ms, seed) VALUES (?, UTC_TIMESTAMP(), ?, ?, ?, ?, ?, ?, ?, ?)"
	insertFailure = "INSERT INTO story_failures (run_id, suite, test, message) VALUES (?, ?, ?, ?)"
)

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// MySQLSink records runs in MySQL
type MySQLSink struct {
	dsn string
}

// New validates dsn and returns a sink for it
func New(dsn string) (*MySQLSink, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history DSN: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("history DSN must name a database")
	}
	cfg.ParseTime = true
	return &MySQLSink{dsn: cfg.FormatDSN()}, nil
}

// DSN returns the normalized connection string
func (s *MySQLSink) DSN() string {
	return s.dsn
}

// Complete stores run and its failed tests in a single transaction
func (s *MySQLSink) Complete(run domain.Run) error {
	db, err := sql.Open("mysql", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to history database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping history database: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := record(tx, run); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

func ensureSchema(db execer) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create history tables: %w", err)
		}
	}
	return nil
}

func record(tx execer, run domain.Run) error {
	failed := run.FailedTests()

	_, err := tx.Exec(insertRun,
		run.ID,
		string(run.Status),
		run.IncompleteReason,
		run.TotalPlanned,
		run.TestCount(),
		len(failed),
		len(run.Suites),
		run.TotalTime.Milliseconds(),
		run.Seed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	for _, test := range failed {
		if _, err := tx.Exec(insertFailure, run.ID, test.Suite, test.Description, failureMessage(test)); err != nil {
			return fmt.Errorf("failed to insert failure %q: %w", test.Description, err)
		}
	}
	return nil
}

func failureMessage(test domain.Test) string {
	messages := make([]string, 0, len(test.Failures))
	for _, f := range test.Failures {
		if f.Message != "" {
			messages = append(messages, f.Message)
		}
	}
	return strings.Join(messages, "\n")
}
