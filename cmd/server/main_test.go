package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/auth"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/chat"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/config"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/content"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/lesson"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/database"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/models"
)

var testSecret = []byte("test-secret")

func setupRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTTTL: time.Hour}
	responder := chat.NewResponder(lesson.Store{DB: db}, content.NewCache(), nil)

	r := gin.New()
	r.POST("/api/auth/register", func(c *gin.Context) { handleRegister(c, db) })
	r.POST("/api/auth/login", func(c *gin.Context) { handleLogin(c, db, cfg, testSecret) })
	r.GET("/api/courses", func(c *gin.Context) { handleListCourses(c, db) })
	r.GET("/api/lessons/:id", func(c *gin.Context) { handleLessonDetail(c, db) })

	authed := r.Group("/")
	authed.Use(auth.RequireJWT(testSecret))
	authed.POST("/api/chat", func(c *gin.Context) { handleChat(c, responder) })

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice", "surname": "Anders", "email": "alice@example.com", "password": "s3cret",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "s3cret",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	claims, err := auth.ParseJWT(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "student", claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := setupRouter(t)

	doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "s3cret",
	}, "")

	rec := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidatesInput(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{"username": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLessonDetailNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/lessons/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatRequiresToken(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"lessonId": "l1", "message": "hi"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatAnswersFromLessonContent(t *testing.T) {
	r, db := setupRouter(t)

	l, err := lesson.Create(db, models.Lesson{
		Title:       "Go Memory",
		Description: "POINTERS\nA pointer holds the address of a value.\n",
	})
	require.NoError(t, err)

	doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "s3cret",
	}, "")
	rec := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "s3cret",
	}, "")
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{
		"lessonId": l.ID, "message": "tell me about pointers",
	}, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var chatResp struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatResp))
	assert.Contains(t, chatResp.Response, "address of a value")
}
