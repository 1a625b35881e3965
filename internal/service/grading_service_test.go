package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adultna_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAnswerPostsAndReturnsGradeID(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("X-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "grade-42"})
	}))
	defer srv.Close()

	svc := NewGradingService(config.GradingConfig{
		BaseURL: srv.URL,
		APIKey:  "secret-key",
		Timeout: 5 * time.Second,
	})

	gradeID, err := svc.SubmitAnswer(context.Background(), "sq-1", "my answer")
	require.NoError(t, err)
	assert.Equal(t, "grade-42", gradeID)
	assert.Equal(t, "/answers", gotPath)
	assert.Equal(t, "secret-key", gotAPIKey)
	assert.Equal(t, "sq-1", gotBody["sessionQuestionId"])
	assert.Equal(t, "my answer", gotBody["userAnswer"])
}

func TestSubmitAnswerRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewGradingService(config.GradingConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})

	gradeID, err := svc.SubmitAnswer(context.Background(), "sq-1", "answer")
	require.Error(t, err)
	assert.Empty(t, gradeID)
}

func TestSubmitAnswerHonorsContextCancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	svc := NewGradingService(config.GradingConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := svc.SubmitAnswer(ctx, "sq-1", "answer")
	require.Error(t, err)
}
