package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// GenerateResponse is the subset of the generateContent response the
// application reads.
type GenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generator is the gateway surface the controllers depend on.
type Generator interface {
	GenerateContent(ctx context.Context, contents []Content) (GenerateResponse, error)
}

// GeminiService forwards one assembled turn sequence to the Gemini
// generateContent endpoint and hands back the decoded response. No retries,
// no streaming; any non-200 outcome is one opaque error.
type GeminiService struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		client:  resty.New(),
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
	}
}

// WithBaseURL points the service at a different endpoint. Used by tests.
func (s *GeminiService) WithBaseURL(baseURL string) *GeminiService {
	s.baseURL = baseURL
	return s
}

func (s *GeminiService) GenerateContent(ctx context.Context, contents []Content) (GenerateResponse, error) {
	if s.apiKey == "" {
		return GenerateResponse{}, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", s.apiKey).
		SetBody(GenerateRequest{Contents: contents}).
		Post(url)
	if err != nil {
		return GenerateResponse{}, err
	}

	if resp.StatusCode() != http.StatusOK {
		log.Printf("Gemini API returned status %d: %s", resp.StatusCode(), resp.String())
		return GenerateResponse{}, fmt.Errorf("generation request failed, status: %d", resp.StatusCode())
	}

	var result GenerateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to parse generation response: %w", err)
	}

	return result, nil
}
