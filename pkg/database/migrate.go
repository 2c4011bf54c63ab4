package database

import (
	"database/sql"
	"fmt"
)

func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE,
			surname TEXT,
			email TEXT UNIQUE,
			role TEXT DEFAULT 'student',
			password_hash TEXT,
			active INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS weeks (
			id TEXT PRIMARY KEY,
			course_id TEXT REFERENCES courses(id),
			number INTEGER,
			UNIQUE (course_id, number)
		);`,
		`CREATE TABLE IF NOT EXISTS days (
			id TEXT PRIMARY KEY,
			week_id TEXT REFERENCES weeks(id),
			number INTEGER,
			UNIQUE (week_id, number)
		);`,
		`CREATE TABLE IF NOT EXISTS lessons (
			id TEXT PRIMARY KEY,
			course_id TEXT REFERENCES courses(id),
			week_id TEXT REFERENCES weeks(id),
			day_id TEXT REFERENCES days(id),
			title TEXT,
			description TEXT,
			file_path TEXT
		);`,
	}

	for i, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate stmt %d: %w", i, err)
		}
	}
	return nil
}
