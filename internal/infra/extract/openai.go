// Package extract implements the external AI collaborators: vision-based
// business card extraction, speech-to-text, and transcript fact extraction.
// Each client is a thin REST wrapper; pipelines only see the interfaces in
// the domain service package, so every client can be swapped for a test
// double.
package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"intake/config"
	"intake/internal/domain/service"
	"intake/internal/errors"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4o"
)

const cardPrompt = `Extract the following details from the business card image and return them as a JSON object with exactly these keys: "name", "email", "phone", "company_name", "address". If a field is missing, return an empty string (""). If multiple phone numbers or addresses are present, return only one.`

const factsPrompt = `Extract structured facts from this customer phone call transcript and return them as a flat JSON object of string values. Always include a "sentiment" key (positive, neutral or negative). Include "name", "company_name", "address" and "email" keys when the caller states them. Add any other concrete facts worth remembering under descriptive keys.

Transcript:
%s`

// OpenAIClient implements the CardExtractor and FactExtractor collaborators
// against the OpenAI chat completions API.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIClient builds the client from configuration.
func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	var section config.OpenAIConfig
	if cfg.OpenAI != nil {
		section = *cfg.OpenAI
	}
	if section.BaseURL == "" {
		section.BaseURL = defaultOpenAIBaseURL
	}
	if section.Model == "" {
		section.Model = defaultOpenAIModel
	}

	return &OpenAIClient{
		apiKey:  section.APIKey,
		model:   section.Model,
		baseURL: section.BaseURL,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractCard reduces a business card image to the flat field dictionary.
func (c *OpenAIClient) ExtractCard(ctx context.Context, image []byte) (*service.CardFields, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: "You are an AI that extracts structured data from business cards."},
		{Role: "user", Content: []map[string]any{
			{"type": "text", "text": cardPrompt},
			{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
		}},
	})
	if err != nil {
		return nil, err
	}

	var fields service.CardFields
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, errors.Wrap(err, "failed to decode card extraction response")
	}

	return &fields, nil
}

// ExtractFacts distills a call transcript into a flat fact map.
func (c *OpenAIClient) ExtractFacts(ctx context.Context, transcript string) (map[string]string, error) {
	content, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: fmt.Sprintf(factsPrompt, transcript)},
	})
	if err != nil {
		return nil, err
	}

	// The model occasionally returns non-string values; flatten everything.
	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode fact extraction response")
	}

	facts := make(map[string]string, len(raw))
	for key, value := range raw {
		if value == nil {
			continue
		}
		if s := fmt.Sprint(value); s != "" {
			facts[key] = s
		}
	}

	return facts, nil
}

func (c *OpenAIClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "failed to build chat request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "chat completion request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read chat completion response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("chat completion returned %d: %s", resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "failed to decode chat completion response")
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
