package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rudrodip/whatyouwant/internal/domain"
	"github.com/rudrodip/whatyouwant/internal/prompts"
)

// ClassifierService sends the generated prompt to the Gemini API and
// returns the validated classification. One call per request, no retry:
// any upstream failure is terminal for the request.
type ClassifierService struct {
	client   *resty.Client
	model    string
	baseURL  string
	apiKey   string
	taxonomy *prompts.Taxonomy
}

// ClassifierConfig holds configuration for the classifier service.
type ClassifierConfig struct {
	Model    string
	APIKey   string
	BaseURL  string
	Taxonomy string
}

// NewClassifierService creates a new classifier service.
func NewClassifierService(cfg *ClassifierConfig) *ClassifierService {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	return &ClassifierService{
		client:   client,
		model:    cfg.Model,
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		taxonomy: prompts.ForVersion(cfg.Taxonomy),
	}
}

// Taxonomy returns the active taxonomy revision.
func (s *ClassifierService) Taxonomy() *prompts.Taxonomy {
	return s.taxonomy
}

// Gemini generateContent request/response structures
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	Temperature      float32 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Classify builds the taxonomy prompt for query, calls the model in JSON
// response mode, and parses the reply into a ClassificationResult.
func (s *ClassifierService) Classify(ctx context.Context, query string) (*domain.ClassificationResult, error) {
	raw, err := s.generate(ctx, s.taxonomy.BuildPrompt(query))
	if err != nil {
		return nil, err
	}

	result, err := ParseClassification(raw, s.taxonomy)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier output %q: %w", truncate(raw, 200), err)
	}

	return result, nil
}

// generate performs one generateContent call and returns the raw text of
// the first candidate.
func (s *ClassifierService) generate(ctx context.Context, prompt string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0,
		},
	}

	var resp geminiResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model))

	if err != nil {
		return "", fmt.Errorf("classification request failed: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return "", fmt.Errorf("classification API error (status %d): %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("classification API error: status %d", httpResp.StatusCode())
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("classification API returned no candidates")
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("classification API returned empty text")
	}

	return text, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
