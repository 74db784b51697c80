package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS course_curriculum (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	course_id    INTEGER NOT NULL,
	semester     INTEGER NOT NULL,
	subject_name TEXT NOT NULL,
	workload     INTEGER NOT NULL DEFAULT 0,
	description  TEXT NOT NULL DEFAULT '',
	"order"      INTEGER NOT NULL
);`

const courseIndex = `CREATE INDEX IF NOT EXISTS idx_course_curriculum_course ON course_curriculum(course_id, "order");`

// SQLiteStore keeps entries in the course_curriculum table of a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. ":memory:" opens a
// private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	for _, query := range []string{schema, courseIndex} {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Replace deletes the course's rows and inserts entries in one transaction.
func (s *SQLiteStore) Replace(ctx context.Context, courseID int64, entries []Entry) error {
	if err := Validate(courseID, entries); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM course_curriculum WHERE course_id = ?`, courseID); err != nil {
		return fmt.Errorf("delete curriculum of course %d: %w", courseID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO course_curriculum (course_id, semester, subject_name, workload, description, "order")
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, courseID, e.Semester, e.SubjectName, e.Workload, e.Description, e.Order); err != nil {
			return fmt.Errorf("insert %q: %w", e.SubjectName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit curriculum of course %d: %w", courseID, err)
	}
	return nil
}

// List returns the entries of a course sorted by Order.
func (s *SQLiteStore) List(ctx context.Context, courseID int64) ([]Entry, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCourse, courseID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT "order", semester, subject_name, workload, description
		FROM course_curriculum WHERE course_id = ? ORDER BY "order", id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query curriculum of course %d: %w", courseID, err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Order, &e.Semester, &e.SubjectName, &e.Workload, &e.Description); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Courses returns the ids of courses with at least one row.
func (s *SQLiteStore) Courses(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT course_id FROM course_curriculum ORDER BY course_id`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan course id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
