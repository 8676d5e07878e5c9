// Package llm 通过 eino ChatModel 让大模型以 JSON 形式返回命名实体。
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/logger"
	"github.com/iWorld-y/tech_radar/pkg/ner"
)

const systemPrompt = "You are a named entity recognizer. Reply with JSON only."

const userPrompt = `Extract every named entity from the text below and label each one with a spaCy label
(ORG, PERSON, GPE, LOC, PRODUCT, NORP, FAC, EVENT, LAW, ...).
List one item per occurrence, in the order the entities appear, using the exact surface form from the text.
Reply strictly in this JSON format without markdown:
{"entities": [{"text": "Lockheed Martin", "label": "ORG"}]}

Text:
%s`

// Generator 是 eino ChatModel 中本包用到的部分
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Recognizer 基于大模型的实体识别
type Recognizer struct {
	gen        Generator
	limiter    *rate.Limiter
	maxChars   int
	maxRetries int
	retryDelay time.Duration
}

// Option 配置 Recognizer
type Option func(*Recognizer)

// WithLimiter 设置限流器
func WithLimiter(l *rate.Limiter) Option {
	return func(r *Recognizer) { r.limiter = l }
}

// WithMaxChars 设置送入模型的最大字符数
func WithMaxChars(n int) Option {
	return func(r *Recognizer) { r.maxChars = n }
}

// WithRetry 设置重试次数与首次退避时间
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(r *Recognizer) {
		r.maxRetries = maxRetries
		r.retryDelay = delay
	}
}

// New 使用给定的 Generator 创建 Recognizer
func New(gen Generator, opts ...Option) *Recognizer {
	r := &Recognizer{
		gen:        gen,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		maxRetries: 3,
		retryDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromConfig 根据配置初始化 openai 兼容模型
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Recognizer, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.NER.LLM.BaseURL,
		APIKey:  cfg.NER.LLM.APIKey,
		Model:   cfg.NER.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return New(chatModel,
		WithLimiter(NewLimiter(cfg.Concurrency)),
		WithMaxChars(cfg.NER.MaxChars),
	), nil
}

// NewLimiter 按 rpm/qps 创建限流器，rpm 未配置时不限流
func NewLimiter(c config.ConcurrencyConfig) *rate.Limiter {
	if c.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := c.QPS
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(c.RPM)/60.0), burst)
}

type reply struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

// Recognize 实现 ner.Recognizer
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	text = ner.Truncate(text, r.maxChars)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: fmt.Sprintf(userPrompt, text)},
	}

	var lastErr error
	for i := 0; i <= r.maxRetries; i++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := r.gen.Generate(ctx, messages)
		if err != nil {
			if !isRateLimited(err) {
				return nil, err
			}
			lastErr = err
			logger.Log.Warnf("NER 请求被限流，第 %d 次重试: %v", i+1, err)
			if err := sleep(ctx, r.retryDelay*time.Duration(1<<i)); err != nil {
				return nil, err
			}
			continue
		}

		var out reply
		if err := json.Unmarshal([]byte(cleanJSON(resp.Content)), &out); err != nil {
			lastErr = fmt.Errorf("json unmarshal: %w", err)
			logger.Log.Debugf("NER 返回无法解析: %s", resp.Content)
			continue
		}

		entities := make([]ner.Entity, 0, len(out.Entities))
		cursor := map[string]int{}
		for _, e := range out.Entities {
			name := strings.TrimSpace(e.Text)
			if name == "" {
				continue
			}
			start, end := locate(text, name, cursor[name])
			if end > 0 {
				cursor[name] = end
			}
			entities = append(entities, ner.Entity{
				Text:  name,
				Label: strings.ToUpper(strings.TrimSpace(e.Label)),
				Start: start,
				End:   end,
			})
		}
		return entities, nil
	}
	return nil, fmt.Errorf("failed after retries: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// locate 在 text 中从 rune 偏移 from 起查找 name，返回 rune 区间，找不到时为 -1, -1
func locate(text, name string, from int) (int, int) {
	r := []rune(text)
	if from > len(r) {
		return -1, -1
	}
	idx := strings.Index(string(r[from:]), name)
	if idx < 0 {
		return -1, -1
	}
	start := from + utf8.RuneCountInString(string(r[from:])[:idx])
	return start, start + utf8.RuneCountInString(name)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
