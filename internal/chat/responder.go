package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/content"
	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/models"
)

// LessonStore is the read-only lesson lookup the responder needs.
type LessonStore interface {
	GetByID(id string) (models.Lesson, error)
}

// Completer is the external LLM call. A nil Completer disables it and the
// responder runs entirely on the local keyword fallback.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const (
	msgUnavailable  = "Sorry, the content for this lesson is not available yet. Please try another lesson."
	msgAskSomething = "Please ask me something about the lesson."
	msgMalformed    = `expected "lessonId|question"`
)

// Responder answers free-text questions scoped to a single lesson. Every
// failure path degrades to a textual reply; nothing here is fatal.
type Responder struct {
	lessons LessonStore
	cache   *content.Cache
	llm     Completer
}

func NewResponder(lessons LessonStore, cache *content.Cache, llm Completer) *Responder {
	return &Responder{lessons: lessons, cache: cache, llm: llm}
}

// Ask resolves the lesson content and answers the question. It always
// returns something to show the user.
func (r *Responder) Ask(ctx context.Context, lessonID, question string) string {
	lc, err := r.resolve(lessonID)
	if err != nil {
		log.Printf("chat: resolve lesson %s: %v", lessonID, err)
		return msgUnavailable
	}

	if r.llm != nil {
		answer, err := r.llm.Complete(ctx, systemPrompt(lc), question)
		if err == nil {
			return stripEmphasis(answer)
		}
		log.Printf("chat: llm call failed for lesson %s, using fallback: %v", lessonID, err)
	}

	return fallbackAnswer(lc, question)
}

// HandleRaw speaks the legacy protocol: a bare "lessonId|question" string in,
// a JSON string out ({"response": ...} or {"error": ...}).
func (r *Responder) HandleRaw(ctx context.Context, payload string) []byte {
	parts := strings.SplitN(payload, "|", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		b, _ := json.Marshal(map[string]string{"error": msgMalformed})
		return b
	}
	answer := r.Ask(ctx, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	b, _ := json.Marshal(map[string]string{"response": answer})
	return b
}

func (r *Responder) resolve(lessonID string) (*models.LessonContent, error) {
	return r.cache.GetOrBuild(lessonID, func() (*models.LessonContent, error) {
		l, err := r.lessons.GetByID(lessonID)
		if err != nil {
			return nil, fmt.Errorf("lookup lesson: %w", err)
		}

		text := ""
		if l.FilePath != "" {
			text, err = content.ExtractPDF(l.FilePath)
			if err != nil {
				log.Printf("chat: pdf extract for lesson %s: %v", lessonID, err)
				text = ""
			}
		}
		if text == "" {
			// database fallback: the lesson row's description
			text = l.Description
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("no content for lesson %s", lessonID)
		}

		return content.Build(l.Title, text), nil
	})
}

// fallbackAnswer does keyword containment against the topic list: the
// question contains a topic name, or the topic name contains the question.
// The first matching section's text is returned verbatim.
func fallbackAnswer(lc *models.LessonContent, question string) string {
	q := strings.ToLower(strings.TrimSpace(question))
	if q != "" {
		for _, s := range lc.Sections {
			t := strings.ToLower(s.Heading)
			if t == "" || s.Body == "" {
				continue
			}
			if strings.Contains(q, t) || strings.Contains(t, q) {
				return s.Body
			}
		}
		if strings.Contains(q, "overview") && lc.Overview != "" {
			return lc.Overview
		}
	}
	return msgAskSomething
}

func systemPrompt(lc *models.LessonContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a teaching assistant. Answer questions using only the lesson material below.\n\n")
	fmt.Fprintf(&b, "Lesson: %s\n", lc.Title)
	if lc.Overview != "" {
		fmt.Fprintf(&b, "\nOverview:\n%s\n", lc.Overview)
	}
	for _, s := range lc.Sections {
		fmt.Fprintf(&b, "\n%s\n%s\n", s.Heading, s.Body)
	}
	for _, ce := range lc.CodeExamples {
		fmt.Fprintf(&b, "\n%s (%s):\n%s\n", ce.Title, ce.Language, ce.Code)
	}
	return b.String()
}

var emphasisStripper = strings.NewReplacer("**", "", "__", "", "*", "")

func stripEmphasis(s string) string {
	return strings.TrimSpace(emphasisStripper.Replace(s))
}
