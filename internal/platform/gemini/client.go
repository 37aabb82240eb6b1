// Package gemini is the text-generation collaborator. It produces sub-task
// drafts for a life task and short harvest flavor text. Both calls degrade to
// fixed fallbacks at the caller; neither ever gates an economic effect.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	taskmodels "youguo-backend/internal/features/task/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client calls the Gemini generateContent API over plain HTTP.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Config for the Gemini client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewClient creates a new Gemini client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-3-flash-preview"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// DecomposeTask asks for three sub-task drafts for the given life-task title,
// one at each difficulty.
func (c *Client) DecomposeTask(ctx context.Context, title string) ([]taskmodels.SubTaskDraft, error) {
	prompt := fmt.Sprintf(
		"將這個人生清單任務「%s」拆解成三個難度的子任務：簡單 (EASY)、中等 (MEDIUM)、困難 (HARD)。"+
			"請用繁體中文回答，並輸出 JSON 陣列，每個元素包含 description、difficulty、points 三個欄位。",
		title,
	)

	text, err := c.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, err
	}

	var drafts []taskmodels.SubTaskDraft
	if err := json.Unmarshal([]byte(text), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse drafts: %w", err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("gemini returned no drafts")
	}
	// The model occasionally strays from the asked-for shape; a draft that
	// fails validation rejects the whole batch so the caller falls back to
	// its canned drafts.
	for i, d := range drafts {
		if strings.TrimSpace(d.Description) == "" {
			return nil, fmt.Errorf("draft %d has an empty description", i)
		}
		if !d.Difficulty.Valid() {
			return nil, fmt.Errorf("draft %d has unknown difficulty %q", i, d.Difficulty)
		}
		if d.Points <= 0 {
			return nil, fmt.Errorf("draft %d has non-positive points %d", i, d.Points)
		}
	}

	return drafts, nil
}

// HarvestMessage asks for a short congratulatory line for a harvested crop.
func (c *Client) HarvestMessage(ctx context.Context, cropName string) (string, error) {
	prompt := fmt.Sprintf(
		"用戶剛剛在「有果」App 中收成了他親手灌溉的「%s」。"+
			"請寫一段短小精悍（20字以內）且富有詩意的祝福語，"+
			"內容要將「農作物的收成」比喻為「人生清單目標的達成」，強調誠實努力必有結果。",
		cropName,
	)

	text, err := c.generate(ctx, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: 0.8},
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}
