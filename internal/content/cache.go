package content

import (
	"sync"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/models"
)

// Cache holds parsed lesson content per lesson id for the lifetime of the
// owning server instance. Append-only, never invalidated: lesson PDFs are
// assumed immutable once uploaded.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*models.LessonContent
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*models.LessonContent)}
}

// GetOrBuild returns the cached content for a lesson, running build on the
// first request. The lock is held across build so concurrent requests for the
// same lesson extract the PDF only once. Failed builds are not cached.
func (c *Cache) GetOrBuild(lessonID string, build func() (*models.LessonContent, error)) (*models.LessonContent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lc, ok := c.entries[lessonID]; ok {
		return lc, nil
	}
	lc, err := build()
	if err != nil {
		return nil, err
	}
	c.entries[lessonID] = lc
	return lc, nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
