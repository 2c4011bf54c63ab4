package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/internal/config"
)

func testLLMConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "test-model",
		Timeout:     5 * time.Second,
		Temperature: 0.2,
		MaxTokens:   64,
	}
}

func TestCompleteParsesStandardShape(t *testing.T) {
	var gotAuth string
	var gotReq completionRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"the answer"}}]}`))
	}))
	defer ts.Close()

	c := NewLLMClient(testLLMConfig(ts.URL))
	answer, err := c.Complete(context.Background(), "system block", "the question")
	require.NoError(t, err)

	assert.Equal(t, "the answer", answer)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "system block", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestCompleteParsesProviderVariants(t *testing.T) {
	cases := map[string]string{
		`{"choices":[{"text":"legacy text"}]}`: "legacy text",
		`{"response":"bare response"}`:         "bare response",
	}
	for body, want := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		c := NewLLMClient(testLLMConfig(ts.URL))
		answer, err := c.Complete(context.Background(), "s", "u")
		ts.Close()
		require.NoError(t, err)
		assert.Equal(t, want, answer)
	}
}

func TestCompleteNon2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewLLMClient(testLLMConfig(ts.URL))
	_, err := c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteMissingKeyIsError(t *testing.T) {
	cfg := testLLMConfig("http://localhost:0")
	cfg.APIKey = ""
	c := NewLLMClient(cfg)

	_, err := c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
}

func TestCompleteEmptyChoicesIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	c := NewLLMClient(testLLMConfig(ts.URL))
	_, err := c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
}
