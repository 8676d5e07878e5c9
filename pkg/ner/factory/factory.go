package factory

import (
	"context"
	"fmt"

	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/ner"
	"github.com/iWorld-y/tech_radar/pkg/ner/llm"
	"github.com/iWorld-y/tech_radar/pkg/ner/spacy"
)

// NewRecognizer 根据配置创建实体识别实例
func NewRecognizer(ctx context.Context, cfg *config.Config) (ner.Recognizer, error) {
	switch cfg.NER.Provider {
	case "", "llm":
		if cfg.NER.LLM.Model == "" {
			return nil, fmt.Errorf("llm model is missing")
		}
		return llm.NewFromConfig(ctx, cfg)

	case "spacy":
		sc := cfg.NER.Spacy
		if sc.BaseURL == "" {
			return nil, fmt.Errorf("spacy base url is missing")
		}
		return spacy.NewClient(sc.BaseURL, sc.Model, sc.Timeout, cfg.NER.MaxChars), nil

	default:
		return nil, fmt.Errorf("unknown ner provider: %s", cfg.NER.Provider)
	}
}
