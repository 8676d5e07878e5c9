package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/engine"
	radarLogger "github.com/iWorld-y/tech_radar/pkg/logger"
	"github.com/iWorld-y/tech_radar/pkg/storage"
)

// NewRadarEngine 初始化分析引擎，并按配置初始化流水线日志
func NewRadarEngine(c *config.Config, store storage.Store, logger log.Logger) (*engine.Engine, error) {
	helper := log.NewHelper(logger)

	if err := radarLogger.InitLogger(c.Log.Level, c.Log.File); err != nil {
		helper.Errorf("Failed to init pipeline logger: %v", err)
		_ = radarLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewFromConfig(context.Background(), c, store)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, err
	}
	helper.Infof("radar engine ready: search=%s ner=%s", c.Search.Provider, c.NER.Provider)
	return eng, nil
}
