package factory

import (
	"fmt"

	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/search"
	"github.com/iWorld-y/tech_radar/pkg/search/newscatcher"
	"github.com/iWorld-y/tech_radar/pkg/search/searxng"
	"github.com/iWorld-y/tech_radar/pkg/search/tavily"
)

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		provider = "newscatcher"
	}

	switch provider {
	case "newscatcher":
		nc := cfg.Search.NewsCatcher
		if nc.APIKey == "" {
			return nil, fmt.Errorf("newscatcher api key is missing")
		}
		return newscatcher.NewClient(nc.APIKey, nc.BaseURL, nc.Timeout), nil

	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey, cfg.Search.Tavily.BaseURL), nil

	case "searxng":
		baseURL := cfg.Search.SearXNG.BaseURL
		if baseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(baseURL, cfg.Search.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
