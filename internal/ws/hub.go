package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/models"
)

// UserStore is the user lookup/persistence the presence tracker needs.
type UserStore interface {
	GetByID(id string) (models.User, error)
	SetActive(id string, active bool) error
}

// lessonArena holds the single shared lesson clock. Start events are only
// accepted when the arena is free or already owned by the sender, so two lead
// users cannot run competing lessons.
type lessonArena struct {
	lessonID   string
	lessonName string
	ownerID    string
}

type inboundMsg struct {
	connID string
	env    models.Envelope
}

// Hub owns all realtime state: the connection registry, the presence maps
// and the lesson arena. Everything is mutated from the single Run goroutine;
// handlers talk to it over channels.
type Hub struct {
	store      UserStore
	sweepEvery time.Duration
	staleAfter time.Duration

	register   chan *client
	unregister chan string
	inbound    chan inboundMsg

	conns     map[string]*client                 // connection id -> client
	userConns map[string]map[string]struct{}     // user id -> live connection ids
	users     map[string]models.PresenceEntry    // user id -> presence info, present iff announced active
	arena     lessonArena
}

func NewHub(store UserStore, sweepEvery, staleAfter time.Duration) *Hub {
	return &Hub{
		store:      store,
		sweepEvery: sweepEvery,
		staleAfter: staleAfter,
		register:   make(chan *client, 64),
		unregister: make(chan string, 64),
		inbound:    make(chan inboundMsg, 256),
		conns:      make(map[string]*client),
		userConns:  make(map[string]map[string]struct{}),
		users:      make(map[string]models.PresenceEntry),
	}
}

func (h *Hub) Register(c *client)   { h.register <- c }
func (h *Hub) Unregister(id string) { h.unregister <- id }
func (h *Hub) Dispatch(connID string, env models.Envelope) {
	h.inbound <- inboundMsg{connID: connID, env: env}
}

func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case c := <-h.register:
			h.addConn(c)
		case id := <-h.unregister:
			h.dropConn(id)
		case m := <-h.inbound:
			h.dispatch(m.connID, m.env)
		case <-ticker.C:
			h.sweep()
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) addConn(c *client) {
	h.conns[c.id] = c
	log.Printf("ws: connection %s opened", c.id)
}

func (h *Hub) dispatch(connID string, env models.Envelope) {
	switch env.Type {
	case "authenticate":
		h.authenticate(connID, env.UserID)
	case "startLesson":
		h.lessonEvent(connID, env, true)
	case "endLesson":
		h.lessonEvent(connID, env, false)
	case "group_message":
		h.groupMessage(connID, env)
	default:
		log.Printf("ws: unknown message type %q from %s", env.Type, connID)
	}
}

// authenticate registers the connection under the user. On the user's first
// live connection the display fields come from the user store, the active
// flag is persisted and a status change goes out to everyone else. The
// active-user snapshot sent back never includes the user's own pending
// registration.
func (h *Hub) authenticate(connID, userID string) {
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	if userID == "" {
		h.sendJSON(c, models.ErrorMessage{Type: "error", Message: "userId required"})
		return
	}

	snapshot := h.activeUsers()

	c.userID = userID
	set, ok := h.userConns[userID]
	if !ok {
		set = make(map[string]struct{})
		h.userConns[userID] = set
	}
	first := len(set) == 0
	set[connID] = struct{}{}

	if first {
		u, err := h.store.GetByID(userID)
		if err != nil {
			// connection stays registered, presence is not announced
			log.Printf("ws: user lookup %s: %v", userID, err)
			return
		}
		entry := models.PresenceEntry{
			UserID:   u.ID,
			Username: u.Username,
			Surname:  u.Surname,
			Role:     u.Role,
			Active:   true,
		}
		h.users[userID] = entry
		if err := h.store.SetActive(userID, true); err != nil {
			log.Printf("ws: persist active for %s: %v", userID, err)
		}
		h.sendJSON(c, models.OnlineUsers{Type: "online_users", Users: snapshot})
		h.broadcastExcept(connID, models.StatusChange{Type: "user_status_change", User: entry})
		log.Printf("ws: user %s (%s) became active", u.Username, userID)
		return
	}

	h.sendJSON(c, models.OnlineUsers{Type: "online_users", Users: snapshot})
}

func (h *Hub) dropConn(connID string) {
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	delete(h.conns, connID)
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
	log.Printf("ws: connection %s closed", connID)

	if c.userID == "" {
		return
	}
	set, ok := h.userConns[c.userID]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(h.userConns, c.userID)
		h.markInactive(c.userID)
	}
}

// markInactive runs the last-connection-gone transition: drop the presence
// entry, persist the flag, tell everyone. Store errors are logged and
// swallowed; presence keeps going even when the database does not.
func (h *Hub) markInactive(userID string) {
	entry, ok := h.users[userID]
	if !ok {
		return
	}
	delete(h.users, userID)
	entry.Active = false
	if err := h.store.SetActive(userID, false); err != nil {
		log.Printf("ws: persist inactive for %s: %v", userID, err)
	}
	h.broadcast(models.StatusChange{Type: "user_status_change", User: entry})
	log.Printf("ws: user %s became inactive", userID)
}

// sweep drops connections that went silent past the stale threshold. This
// corrects drift from ungraceful disconnects that never delivered a close.
func (h *Hub) sweep() {
	now := time.Now()
	for id, c := range h.conns {
		if now.Sub(c.seen()) > h.staleAfter {
			log.Printf("ws: sweeping stale connection %s", id)
			h.dropConn(id)
		}
	}
}

// lessonEvent handles startLesson/endLesson. Accepted events are broadcast
// to every connection, fire and forget; rejected ones answer the sender only.
func (h *Hub) lessonEvent(connID string, env models.Envelope, start bool) {
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	if c.userID == "" {
		h.sendJSON(c, models.ErrorMessage{Type: "error", Message: "authenticate first"})
		return
	}

	if start {
		if h.arena.ownerID != "" && h.arena.ownerID != c.userID {
			h.sendJSON(c, models.ErrorMessage{
				Type:    "error",
				Message: fmt.Sprintf("lesson %q is already in progress", h.arena.lessonName),
			})
			return
		}
		h.arena = lessonArena{lessonID: env.LessonID, lessonName: env.LessonName, ownerID: c.userID}
		h.broadcast(models.Notification{
			Type:       "lesson_started",
			LessonName: env.LessonName,
			UserName:   env.UserName,
			Message:    fmt.Sprintf("%s started the lesson %q", env.UserName, env.LessonName),
		})
		return
	}

	if h.arena.ownerID != c.userID {
		h.sendJSON(c, models.ErrorMessage{Type: "error", Message: "no lesson of yours is in progress"})
		return
	}
	name := env.LessonName
	if name == "" {
		name = h.arena.lessonName
	}
	h.arena = lessonArena{}
	h.broadcast(models.Notification{
		Type:       "lesson_ended",
		LessonName: name,
		UserName:   env.UserName,
		Message:    fmt.Sprintf("%s ended the lesson %q", env.UserName, name),
	})
}

func (h *Hub) groupMessage(connID string, env models.Envelope) {
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	username := env.UserName
	if entry, ok := h.users[c.userID]; ok {
		username = entry.Username
	}
	h.broadcast(models.GroupMessage{
		Type:      "group_message",
		UserID:    c.userID,
		Username:  username,
		Message:   env.Message,
		Timestamp: time.Now().Unix(),
	})
}

func (h *Hub) activeUsers() []models.PresenceEntry {
	res := make([]models.PresenceEntry, 0, len(h.users))
	for _, e := range h.users {
		res = append(res, e)
	}
	return res
}

func (h *Hub) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("ws: marshal broadcast: %v", err)
		return
	}
	for _, c := range h.conns {
		h.sendBytes(c, b)
	}
}

func (h *Hub) broadcastExcept(connID string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("ws: marshal broadcast: %v", err)
		return
	}
	for id, c := range h.conns {
		if id == connID {
			continue
		}
		h.sendBytes(c, b)
	}
}

func (h *Hub) sendJSON(c *client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("ws: marshal message: %v", err)
		return
	}
	h.sendBytes(c, b)
}

// sendBytes never blocks the hub loop. A client whose buffer is full is too
// far behind to keep; it gets dropped like a disconnect.
func (h *Hub) sendBytes(c *client, b []byte) {
	select {
	case c.send <- b:
	default:
		log.Printf("ws: connection %s send buffer full, dropping", c.id)
		h.dropConn(c.id)
	}
}

func (h *Hub) closeAll() {
	for id := range h.conns {
		h.dropConn(id)
	}
}
