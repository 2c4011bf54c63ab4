package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// SeedLesson is one row of the curriculum seed file.
type SeedLesson struct {
	Course      string `json:"course"`
	Week        int    `json:"week"`
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FilePath    string `json:"file_path"`
}

func LoadLessonsFromJSON(jsonPath string) ([]SeedLesson, error) {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read lessons json: %w", err)
	}

	var list []SeedLesson
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("unmarshal lessons json: %w", err)
	}

	return list, nil
}

// SeedLessons inserts the curriculum tree, creating missing courses, weeks and
// days along the way. Lessons already present (same day + title) are skipped.
func SeedLessons(db *sql.DB, list []SeedLesson) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, l := range list {
		courseID, err := ensureCourse(tx, l.Course)
		if err != nil {
			return 0, fmt.Errorf("seed course %q: %w", l.Course, err)
		}
		weekID, err := ensureWeek(tx, courseID, l.Week)
		if err != nil {
			return 0, fmt.Errorf("seed week %d: %w", l.Week, err)
		}
		dayID, err := ensureDay(tx, weekID, l.Day)
		if err != nil {
			return 0, fmt.Errorf("seed day %d: %w", l.Day, err)
		}

		var existing string
		err = tx.QueryRow(`SELECT id FROM lessons WHERE day_id = ? AND title = ?`, dayID, l.Title).Scan(&existing)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return 0, fmt.Errorf("lookup lesson %q: %w", l.Title, err)
		}

		_, err = tx.Exec(`INSERT INTO lessons(id, course_id, week_id, day_id, title, description, file_path) VALUES(?,?,?,?,?,?,?)`,
			uuid.NewString(), courseID, weekID, dayID, l.Title, l.Description, l.FilePath)
		if err != nil {
			return 0, fmt.Errorf("insert lesson %q: %w", l.Title, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

func ensureCourse(tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRow(`SELECT id FROM courses WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	id = uuid.NewString()
	_, err = tx.Exec(`INSERT INTO courses(id, name) VALUES(?,?)`, id, name)
	return id, err
}

func ensureWeek(tx *sql.Tx, courseID string, number int) (string, error) {
	var id string
	err := tx.QueryRow(`SELECT id FROM weeks WHERE course_id = ? AND number = ?`, courseID, number).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	id = uuid.NewString()
	_, err = tx.Exec(`INSERT INTO weeks(id, course_id, number) VALUES(?,?,?)`, id, courseID, number)
	return id, err
}

func ensureDay(tx *sql.Tx, weekID string, number int) (string, error) {
	var id string
	err := tx.QueryRow(`SELECT id FROM days WHERE week_id = ? AND number = ?`, weekID, number).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	id = uuid.NewString()
	_, err = tx.Exec(`INSERT INTO days(id, week_id, number) VALUES(?,?,?)`, id, weekID, number)
	return id, err
}
