// Package spacy 调用 spaCy 模型服务（spacy-services 风格的 /ent 接口）识别实体。
package spacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iWorld-y/tech_radar/pkg/ner"
)

// Client spaCy REST 客户端
type Client struct {
	baseURL  string
	model    string
	maxChars int
	client   *http.Client
}

// NewClient 创建 spaCy 客户端
func NewClient(baseURL, model string, timeout, maxChars int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		model:    model,
		maxChars: maxChars,
		client:   &http.Client{Timeout: t},
	}
}

var _ ner.Recognizer = (*Client)(nil)

type entRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type entSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Recognize 实现 ner.Recognizer
func (c *Client) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	text = ner.Truncate(text, c.maxChars)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	payload, err := json.Marshal(entRequest{Text: text, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ent", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("spacy api error (status %d): %s", res.StatusCode, string(body))
	}

	var spans []entSpan
	if err := json.NewDecoder(res.Body).Decode(&spans); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	runes := []rune(text)
	entities := make([]ner.Entity, 0, len(spans))
	for _, s := range spans {
		label := s.Label
		if label == "" {
			label = s.Type
		}
		name := s.Text
		if name == "" && s.Start >= 0 && s.Start < s.End && s.End <= len(runes) {
			name = string(runes[s.Start:s.End])
		}
		entities = append(entities, ner.Entity{
			Text:  strings.TrimSpace(name),
			Label: label,
			Start: s.Start,
			End:   s.End,
		})
	}
	return entities, nil
}
