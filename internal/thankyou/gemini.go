package thankyou

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
}

func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	return &GeminiClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		HTTP:    &http.Client{},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate returns the model's thank-you note for the signer.
func (c *GeminiClient) Generate(ctx context.Context, lang domain.Language, signerType domain.SignerType, name string) (string, error) {
	body, _ := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: Prompt(lang, signerType, name)}}}}})

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("generateContent returned %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generateContent response: %w", err)
	}
	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("generateContent returned no text")
	}
	return text, nil
}

// Prompt builds the instruction sent to the model.
func Prompt(lang domain.Language, signerType domain.SignerType, name string) string {
	role := "Transport Company Owner"
	if signerType == domain.SignerTypeDriver {
		role = "Professional Truck Driver (Berufskraftfahrer)"
	}
	return fmt.Sprintf(`You are an advocate for the logistics industry in Germany.
A user has just signed a petition to allow IHK truck driver exams in multiple languages.

User details:
- Name: %s
- Role: %s
- Language: %s

Task: Write a very short, motivating, and professional thank you note (max 2 sentences) in the user's language (%s).
Acknowledge their specific role. Be encouraging about the future of logistics.
Do not add any preamble, just the message.`, name, role, lang, lang)
}
