package engine

import (
	"context"
	"fmt"

	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/fetcher"
	nerfactory "github.com/iWorld-y/tech_radar/pkg/ner/factory"
	"github.com/iWorld-y/tech_radar/pkg/search/factory"
	"github.com/iWorld-y/tech_radar/pkg/storage"
)

// NewFromConfig 按配置组装搜索、正文抓取与实体识别组件
func NewFromConfig(ctx context.Context, cfg *config.Config, store storage.Store) (*Engine, error) {
	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	recognizer, err := nerfactory.NewRecognizer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("实体识别初始化失败: %w", err)
	}

	f := fetcher.New(fetcher.OptionsFromConfig(cfg.Fetch))

	return New(store, searcher, f, recognizer, OptionsFromConfig(cfg)), nil
}
