package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/auth"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/chat"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/config"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/content"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/lesson"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/user"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/ws"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/database"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/models"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	// seed curriculum if the JSON file is there
	if _, err := os.Stat(cfg.SeedPath); err == nil {
		list, err := database.LoadLessonsFromJSON(cfg.SeedPath)
		if err != nil {
			log.Fatal(err)
		}
		n, err := database.SeedLessons(db, list)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Seeded %d lessons into %s", n, cfg.DatabasePath)
	} else {
		log.Printf("warn: %s not found; skip seeding (%v)", cfg.SeedPath, err)
	}

	// presence does not survive restarts: everyone starts inactive
	if err := user.ResetActive(db); err != nil {
		log.Fatal(err)
	}

	hub := ws.NewHub(user.Store{DB: db}, cfg.SweepInterval, cfg.StaleAfter)
	go hub.Run(context.Background())
	log.Println("Presence hub started")

	responder := chat.NewResponder(lesson.Store{DB: db}, content.NewCache(), chat.NewLLMClient(cfg.LLM))

	jwtSecret := []byte(cfg.JWTSecret)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// AUTH
	r.POST("/api/auth/register", func(c *gin.Context) { handleRegister(c, db) })
	r.POST("/api/auth/login", func(c *gin.Context) { handleLogin(c, db, cfg, jwtSecret) })

	// PUBLIC CURRICULUM
	r.GET("/api/courses", func(c *gin.Context) { handleListCourses(c, db) })
	r.GET("/api/courses/:id/weeks", func(c *gin.Context) { handleListWeeks(c, db) })
	r.GET("/api/weeks/:id/days", func(c *gin.Context) { handleListDays(c, db) })
	r.GET("/api/days/:id/lessons", func(c *gin.Context) { handleListLessons(c, db) })
	r.GET("/api/lessons/:id", func(c *gin.Context) { handleLessonDetail(c, db) })

	// WEBSOCKET PRESENCE + NOTIFICATIONS
	r.GET("/ws", ws.HandleWebSocket(hub))

	// PROTECTED
	authed := r.Group("/")
	authed.Use(auth.RequireJWT(jwtSecret))
	authed.POST("/api/chat", func(c *gin.Context) { handleChat(c, responder) })

	admin := authed.Group("/")
	admin.Use(auth.RequireRole("admin", "lead"))
	admin.POST("/api/admin/lessons", func(c *gin.Context) { handleUploadLesson(c, db, cfg) })

	log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}

func handleRegister(c *gin.Context, db *sql.DB) {
	var req struct {
		Username string `json:"username"`
		Surname  string `json:"surname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username/email/password required"})
		return
	}

	u, err := user.Create(db, req.Username, req.Surname, req.Email, "student", req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func handleLogin(c *gin.Context, db *sql.DB, cfg *config.Config, jwtSecret []byte) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	u, err := user.VerifyLogin(db, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.SignJWT(jwtSecret, u.ID, u.Username, u.Role, cfg.JWTTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

func handleListCourses(c *gin.Context, db *sql.DB) {
	res, err := lesson.ListCourses(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": res})
}

func handleListWeeks(c *gin.Context, db *sql.DB) {
	res, err := lesson.ListWeeks(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"weeks": res})
}

func handleListDays(c *gin.Context, db *sql.DB) {
	res, err := lesson.ListDays(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": res})
}

func handleListLessons(c *gin.Context, db *sql.DB) {
	res, err := lesson.ListByDay(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": res})
}

func handleLessonDetail(c *gin.Context, db *sql.DB) {
	l, err := lesson.GetByID(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": l})
}

func handleChat(c *gin.Context, responder *chat.Responder) {
	var req struct {
		LessonID string `json:"lessonId"`
		Message  string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.LessonID == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lessonId/message required"})
		return
	}

	answer := responder.Ask(c.Request.Context(), req.LessonID, req.Message)
	c.JSON(http.StatusOK, gin.H{"response": answer})
}

func handleUploadLesson(c *gin.Context, db *sql.DB, cfg *config.Config) {
	courseID := c.PostForm("course_id")
	weekID := c.PostForm("week_id")
	dayID := c.PostForm("day_id")
	title := c.PostForm("title")
	description := c.PostForm("description")
	if title == "" || dayID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title/day_id required"})
		return
	}

	filePath := ""
	if file, err := c.FormFile("file"); err == nil {
		filePath = filepath.Join(cfg.UploadDir, uuid.NewString()+".pdf")
		if err := c.SaveUploadedFile(file, filePath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save file failed"})
			return
		}
	}

	l, err := lesson.Create(db, models.Lesson{
		CourseID:    courseID,
		WeekID:      weekID,
		DayID:       dayID,
		Title:       title,
		Description: description,
		FilePath:    filePath,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lesson": l})
}
