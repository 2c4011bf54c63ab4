package user

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/models"
)

// Store bundles the db handle for callers that want user lookups behind an
// interface (the websocket presence tracker).
type Store struct {
	DB *sql.DB
}

func (s Store) GetByID(id string) (models.User, error) {
	return GetByID(s.DB, id)
}

func (s Store) SetActive(id string, active bool) error {
	return SetActive(s.DB, id, active)
}

func Create(db *sql.DB, username, surname, email, role, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	if role == "" {
		role = "student"
	}
	u := models.User{
		ID:       uuid.NewString(),
		Username: username,
		Surname:  surname,
		Email:    email,
		Role:     role,
	}
	_, err = db.Exec(`INSERT INTO users(id, username, surname, email, role, password_hash) VALUES(?,?,?,?,?,?)`,
		u.ID, u.Username, u.Surname, u.Email, u.Role, string(hash))
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func VerifyLogin(db *sql.DB, email, password string) (models.User, error) {
	var u models.User
	var hash string
	err := db.QueryRow(`SELECT id, username, surname, email, role, password_hash, active FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Username, &u.Surname, &u.Email, &u.Role, &hash, &u.Active)
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, errors.New("invalid credentials")
	}
	return u, nil
}

func GetByID(db *sql.DB, id string) (models.User, error) {
	var u models.User
	err := db.QueryRow(`SELECT id, username, surname, email, role, active FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Surname, &u.Email, &u.Role, &u.Active)
	return u, err
}

func SetActive(db *sql.DB, id string, active bool) error {
	_, err := db.Exec(`UPDATE users SET active = ? WHERE id = ?`, active, id)
	return err
}

// ResetActive marks every user inactive. Run at boot: presence does not
// survive a restart, so the persisted flags start from a clean slate.
func ResetActive(db *sql.DB) error {
	_, err := db.Exec(`UPDATE users SET active = 0`)
	return err
}
