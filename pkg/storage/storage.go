// Package storage 提供以集合为单位的文档缓存，集合名称由 collection 包生成。
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/model"
)

// Store 文档数据库抽象，一个集合只保存一种文档
type Store interface {
	// HasCollection 集合是否存在
	HasCollection(ctx context.Context, name string) (bool, error)
	// Articles 按插入顺序返回集合中的文章
	Articles(ctx context.Context, name string) ([]model.Article, error)
	// CountArticles 返回集合中的文档数
	CountArticles(ctx context.Context, name string) (int64, error)
	// InsertArticles 追加文章，列表为空时不创建集合
	InsertArticles(ctx context.Context, name string, articles []model.Article) error
	// Mentions 按插入顺序返回集合中的公司统计
	Mentions(ctx context.Context, name string) ([]model.Mention, error)
	// InsertMentions 追加公司统计，列表为空时不创建集合
	InsertMentions(ctx context.Context, name string, mentions []model.Mention) error
	// CollectionNames 返回全部集合名称，按字典序
	CollectionNames(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

// Open 根据配置打开存储
func Open(ctx context.Context, cfg config.DataConfig) (Store, error) {
	timeout := config.Duration(cfg.Timeout, 10*time.Second)

	switch cfg.Driver {
	case "", "mongo", "mongodb":
		if cfg.Source == "" {
			return nil, fmt.Errorf("mongo source is missing")
		}
		return NewMongoStore(ctx, cfg.Source, cfg.Database, timeout)
	case "postgres", "sqlite":
		if cfg.Source == "" {
			return nil, fmt.Errorf("%s source is missing", cfg.Driver)
		}
		return OpenSQLStore(ctx, cfg.Driver, cfg.Source)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown data driver: %s", cfg.Driver)
	}
}
