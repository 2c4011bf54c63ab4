// chatd is the standalone legacy chat server. Clients send a bare
// "lessonId|question" text frame over the websocket and get a JSON string
// back: {"response": ...} or {"error": ...}.
package main

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/chat"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/config"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/content"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/lesson"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/database"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
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

	responder := chat.NewResponder(lesson.Store{DB: db}, content.NewCache(), chat.NewLLMClient(cfg.LLM))

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		serveChat(responder, w, r)
	})

	log.Printf("Legacy chat server listening on %s", cfg.ChatAddr)
	log.Fatal(http.ListenAndServe(cfg.ChatAddr, nil))
}

func serveChat(responder *chat.Responder, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("chatd: upgrade:", err)
		return
	}
	defer conn.Close()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("chatd: read: %v", err)
			}
			return
		}

		reply := responder.HandleRaw(r.Context(), string(payload))
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			log.Printf("chatd: write: %v", err)
			return
		}
	}
}
