package lesson

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/models"
)

// Store bundles the db handle for callers that want lesson lookups behind
// an interface (the chat responder).
type Store struct {
	DB *sql.DB
}

func (s Store) GetByID(id string) (models.Lesson, error) {
	return GetByID(s.DB, id)
}

func ListCourses(db *sql.DB) ([]models.Course, error) {
	rows, err := db.Query(`SELECT id, name FROM courses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func ListWeeks(db *sql.DB, courseID string) ([]models.Week, error) {
	rows, err := db.Query(`SELECT id, course_id, number FROM weeks WHERE course_id = ? ORDER BY number`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Week
	for rows.Next() {
		var w models.Week
		if err := rows.Scan(&w.ID, &w.CourseID, &w.Number); err != nil {
			return nil, err
		}
		res = append(res, w)
	}
	return res, rows.Err()
}

func ListDays(db *sql.DB, weekID string) ([]models.Day, error) {
	rows, err := db.Query(`SELECT id, week_id, number FROM days WHERE week_id = ? ORDER BY number`, weekID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Day
	for rows.Next() {
		var d models.Day
		if err := rows.Scan(&d.ID, &d.WeekID, &d.Number); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func ListByDay(db *sql.DB, dayID string) ([]models.Lesson, error) {
	rows, err := db.Query(`SELECT id, course_id, week_id, day_id, title, description, file_path FROM lessons WHERE day_id = ? ORDER BY title`, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.WeekID, &l.DayID, &l.Title, &l.Description, &l.FilePath); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func GetByID(db *sql.DB, id string) (models.Lesson, error) {
	var l models.Lesson
	err := db.QueryRow(`SELECT id, course_id, week_id, day_id, title, description, file_path FROM lessons WHERE id = ?`, id).
		Scan(&l.ID, &l.CourseID, &l.WeekID, &l.DayID, &l.Title, &l.Description, &l.FilePath)
	return l, err
}

func Create(db *sql.DB, l models.Lesson) (models.Lesson, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := db.Exec(`INSERT INTO lessons(id, course_id, week_id, day_id, title, description, file_path) VALUES(?,?,?,?,?,?,?)`,
		l.ID, l.CourseID, l.WeekID, l.DayID, l.Title, l.Description, l.FilePath)
	if err != nil {
		return models.Lesson{}, err
	}
	return l, nil
}

func UpdateFilePath(db *sql.DB, id, path string) error {
	_, err := db.Exec(`UPDATE lessons SET file_path = ? WHERE id = ?`, path, id)
	return err
}
