package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tech_radar/internal/biz"
	"github.com/iWorld-y/tech_radar/pkg/collection"
)

type collectionRepo struct {
	data *Data
	log  *log.Helper
}

// NewCollectionRepo 创建缓存集合仓库
func NewCollectionRepo(data *Data, logger log.Logger) biz.CollectionRepo {
	return &collectionRepo{data: data, log: log.NewHelper(logger)}
}

// ListCollections 返回可解析的缓存集合，忽略其他集合
func (r *collectionRepo) ListCollections(ctx context.Context) ([]collection.Name, error) {
	names, err := r.data.store.CollectionNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]collection.Name, 0, len(names))
	for _, n := range names {
		parsed, err := collection.Parse(n)
		if err != nil {
			r.log.Debugf("skip collection %s: %v", n, err)
			continue
		}
		out = append(out, parsed)
	}
	return out, nil
}
