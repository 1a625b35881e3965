package service

import (
	"adultna_backend/internal/config"
	"adultna_backend/pkg/monitoring"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GradingService is the HTTP client for the external answer-grading service.
// It implements interview.GradingClient.
type GradingService struct {
	cfg    config.GradingConfig
	client *http.Client
}

func NewGradingService(cfg config.GradingConfig) *GradingService {
	return &GradingService{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type gradingRequest struct {
	SessionQuestionID string `json:"sessionQuestionId"`
	UserAnswer        string `json:"userAnswer"`
}

type gradingResponse struct {
	ID string `json:"id"`
}

// SubmitAnswer posts the answer and returns the opaque graded-answer ID.
func (s *GradingService) SubmitAnswer(ctx context.Context, sessionQuestionID, userAnswer string) (string, error) {
	body, err := json.Marshal(gradingRequest{
		SessionQuestionID: sessionQuestionID,
		UserAnswer:        userAnswer,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/answers"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		monitoring.GradingSubmissions.WithLabelValues("error").Inc()
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.GradingSubmissions.WithLabelValues("error").Inc()
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("grading service returned %d", resp.StatusCode)
	}

	var result gradingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		monitoring.GradingSubmissions.WithLabelValues("error").Inc()
		return "", err
	}

	monitoring.GradingSubmissions.WithLabelValues("success").Inc()
	return result.ID, nil
}
