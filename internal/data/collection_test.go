package data

import (
	"context"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/tech_radar/pkg/collection"
	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/model"
	"github.com/iWorld-y/tech_radar/pkg/storage"
)

func TestCollectionRepo_ListCollections(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.InsertArticles(ctx, "20220704_lasers", []model.Article{{Link: "a"}}))
	require.NoError(t, store.InsertMentions(ctx, "20220704_lasers_prediction", []model.Mention{{Name: "X", Count: 1}}))
	require.NoError(t, store.InsertArticles(ctx, "system.profile", []model.Article{{Link: "b"}}))

	repo := NewCollectionRepo(&Data{store: store}, log.DefaultLogger)
	got, err := repo.ListCollections(ctx)
	require.NoError(t, err)

	d := time.Date(2022, 7, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []collection.Name{
		{Date: d, Slug: "lasers"},
		{Date: d, Slug: "lasers", Prediction: true},
	}, got)
}

func TestNewData(t *testing.T) {
	c := &config.Config{Data: config.DataConfig{Driver: "memory"}}
	d, cleanup, err := NewData(c, log.DefaultLogger)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &storage.MemoryStore{}, NewStore(d))

	c.Data.Driver = "cassandra"
	_, _, err = NewData(c, log.DefaultLogger)
	assert.Error(t, err)
}
