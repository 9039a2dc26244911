package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"intake/config"
	"intake/internal/errors"
)

const (
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io"
	defaultElevenLabsModelID = "scribe_v1"
)

// ElevenLabsClient implements the Transcriber collaborator against the
// ElevenLabs speech-to-text API.
type ElevenLabsClient struct {
	apiKey  string
	modelID string
	baseURL string
	client  *http.Client
}

// NewElevenLabsClient builds the client from configuration.
func NewElevenLabsClient(cfg *config.Config) *ElevenLabsClient {
	var section config.ElevenLabsConfig
	if cfg.ElevenLabs != nil {
		section = *cfg.ElevenLabs
	}
	if section.BaseURL == "" {
		section.BaseURL = defaultElevenLabsBaseURL
	}
	if section.ModelID == "" {
		section.ModelID = defaultElevenLabsModelID
	}

	return &ElevenLabsClient{
		apiKey:  section.APIKey,
		modelID: section.ModelID,
		baseURL: section.BaseURL,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// Transcribe sends audio bytes to the speech-to-text endpoint and returns
// the transcript text.
func (c *ElevenLabsClient) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", errors.Wrap(err, "failed to build transcription form")
	}
	if _, err := part.Write(audio); err != nil {
		return "", errors.Wrap(err, "failed to write audio payload")
	}
	if err := writer.WriteField("model_id", c.modelID); err != nil {
		return "", errors.Wrap(err, "failed to write model field")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize transcription form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/speech-to-text", &buf)
	if err != nil {
		return "", errors.Wrap(err, "failed to build transcription request")
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "transcription request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read transcription response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("transcription returned %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "failed to decode transcription response")
	}

	return parsed.Text, nil
}
