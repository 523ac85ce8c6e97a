package analyzer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calboard/calboard/internal/config"
	"github.com/go-resty/resty/v2"
)

// systemInstruction pins the model to the draft-shaped JSON contract. The
// endpoint shapes below follow the generativelanguage v1beta REST API.
const systemInstruction = `When an image is provided, read the text in it first. Extract schedule information from the input and respond with JSON only, in exactly this shape:
{
  "summary": "event title",
  "description": "event description",
  "location": "event location",
  "start": {"date": "yyyy-mm-dd"} or {"dateTime": "RFC3339 timestamp", "timeZone": "IANA timezone"},
  "end": same shape as start
}
Use the date form for all-day events and the dateTime form for timed events. Respond with the JSON object and nothing else.`

const extractPrompt = "Extract the schedule information from this input and output only the JSON object described above. No explanatory prose, no markdown."

// ModelClient is the slice of the generative model the analyzer needs.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	Ping(ctx context.Context) error
}

type GeminiClient struct {
	http  *resty.Client
	model string
}

func NewGeminiClient(cfg config.Gemini) *GeminiClient {
	client := resty.New().
		SetBaseURL(cfg.BaseUrl).
		SetTimeout(60 * time.Second).
		SetQueryParam("key", cfg.ApiKey)
	return &GeminiClient{http: client, model: cfg.Model}
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends one prompt, optionally with an inline image, and returns the
// concatenated text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	parts := []part{{Text: prompt}}
	if len(image) > 0 {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(image),
		}})
	}

	body := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Role: "user", Parts: parts}},
		GenerationConfig:  generationConfig{Temperature: 0.2, MaxOutputTokens: 3000},
	}

	var result generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("model returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var text strings.Builder
	if len(result.Candidates) > 0 {
		for _, p := range result.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("model returned no text")
	}
	return text.String(), nil
}

// Ping checks that the model endpoint answers at all.
func (c *GeminiClient) Ping(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/v1beta/models/%s", c.model))
	if err != nil {
		return fmt.Errorf("model endpoint unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("model endpoint returned status %d", resp.StatusCode())
	}
	return nil
}
