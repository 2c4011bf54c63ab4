package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/models"
)

func TestCacheBuildsOncePerLesson(t *testing.T) {
	c := NewCache()
	builds := 0
	loader := func() (*models.LessonContent, error) {
		builds++
		return &models.LessonContent{Title: "L1"}, nil
	}

	first, err := c.GetOrBuild("l1", loader)
	require.NoError(t, err)
	second, err := c.GetOrBuild("l1", loader)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, c.Len())
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	c := NewCache()
	calls := 0

	_, err := c.GetOrBuild("l1", func() (*models.LessonContent, error) {
		calls++
		return nil, errors.New("pdf missing")
	})
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	lc, err := c.GetOrBuild("l1", func() (*models.LessonContent, error) {
		calls++
		return &models.LessonContent{Title: "L1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "L1", lc.Title)
	assert.Equal(t, 2, calls)
}
