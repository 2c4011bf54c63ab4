package models

import "time"

// users table
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	Role         string    `json:"role"` // "student", "lead", "admin"
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// curriculum tree: courses -> weeks -> days -> lessons
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Week struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Number   int    `json:"number"`
}

type Day struct {
	ID     string `json:"id"`
	WeekID string `json:"week_id"`
	Number int    `json:"number"`
}

type Lesson struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	WeekID      string `json:"week_id"`
	DayID       string `json:"day_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FilePath    string `json:"file_path"`
}

// PresenceEntry is the per-user view the presence tracker maintains.
// Derived from the live connection set; Active means at least one open socket.
type PresenceEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Surname  string `json:"surname"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// Envelope is the single client->server websocket message shape.
type Envelope struct {
	Type       string `json:"type"`
	UserID     string `json:"userId,omitempty"`
	LessonID   string `json:"lessonId,omitempty"`
	LessonName string `json:"lessonName,omitempty"`
	UserName   string `json:"userName,omitempty"`
	Message    string `json:"message,omitempty"`
}

// server->client payloads

type OnlineUsers struct {
	Type  string          `json:"type"` // "online_users"
	Users []PresenceEntry `json:"users"`
}

type StatusChange struct {
	Type string        `json:"type"` // "user_status_change"
	User PresenceEntry `json:"user"`
}

type Notification struct {
	Type       string `json:"type"` // "lesson_started" or "lesson_ended"
	LessonName string `json:"lessonName"`
	UserName   string `json:"userName"`
	Message    string `json:"message"`
}

type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// group chat fan-out, both directions
type GroupMessage struct {
	Type      string `json:"type"` // "group_message"
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// LessonContent is the parsed structure the chat responder answers from.
type LessonContent struct {
	Title        string        `json:"title"`
	Overview     string        `json:"overview"`
	Topics       []string      `json:"topics"`
	Sections     []Section     `json:"sections"`
	CodeExamples []CodeExample `json:"code_examples"`
}

type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type CodeExample struct {
	Language string `json:"language"`
	Title    string `json:"title"`
	Code     string `json:"code"`
}
