package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/storage"
)

// Data 持有文档数据库连接
type Data struct {
	store storage.Store
}

// NewData 打开配置的文档数据库
func NewData(c *config.Config, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	store, err := storage.Open(context.Background(), c.Data)
	if err != nil {
		return nil, nil, err
	}
	helper.Infof("document store ready: driver=%s database=%s", c.Data.Driver, c.Data.Database)

	cleanup := func() {
		helper.Info("closing the data resources")
		if err := store.Close(context.Background()); err != nil {
			helper.Errorf("close store: %v", err)
		}
	}
	return &Data{store: store}, cleanup, nil
}

// NewStore 暴露给引擎使用的存储
func NewStore(d *Data) storage.Store {
	return d.store
}
