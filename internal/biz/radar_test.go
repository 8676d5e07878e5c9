package biz

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/tech_radar/pkg/catalog"
	"github.com/iWorld-y/tech_radar/pkg/collection"
	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/model"
)

// mockAnalyzer 模拟分析引擎
type mockAnalyzer struct {
	companies []model.Mention
	err       error
	last      model.Selection
}

func (m *mockAnalyzer) Run(_ context.Context, sel model.Selection) (*model.Result, error) {
	m.last = sel
	if m.err != nil {
		return nil, m.err
	}
	return &model.Result{
		Selection:    sel,
		Collection:   collection.Key(sel.Date, sel.Technology()),
		ArticleCount: 10,
		Companies:    m.companies,
	}, nil
}

// mockCollectionRepo 模拟集合仓库
type mockCollectionRepo struct {
	names []collection.Name
}

func (m *mockCollectionRepo) ListCollections(context.Context) ([]collection.Name, error) {
	return m.names, nil
}

var now = time.Date(2022, 7, 10, 15, 30, 0, 0, time.UTC)

func newUseCase(a Analyzer, repo CollectionRepo, pageSize int) *RadarUseCase {
	c := &config.Config{Dashboard: config.DashboardConfig{PageSize: pageSize}}
	uc := NewRadarUseCase(a, repo, catalog.New(nil), c, log.DefaultLogger)
	uc.now = func() time.Time { return now }
	return uc
}

func companies(n int) []model.Mention {
	out := make([]model.Mention, n)
	for i := range out {
		out[i] = model.Mention{Name: fmt.Sprintf("Company %02d", i), Count: n - i}
	}
	return out
}

func TestRadarUseCase_Selection(t *testing.T) {
	uc := newUseCase(&mockAnalyzer{}, &mockCollectionRepo{}, 10)

	sel, err := uc.Selection(Query{Category: "Directed Energy", Subfield: "Lasers", Date: "2022-07-04"})
	require.NoError(t, err)
	assert.Equal(t, "Lasers", sel.Technology())
	assert.Equal(t, time.Date(2022, 7, 4, 0, 0, 0, 0, time.UTC), sel.Date)

	sel, err = uc.Selection(Query{Category: "-"})
	require.NoError(t, err)
	assert.True(t, sel.Empty())
	assert.Equal(t, time.Date(2022, 7, 10, 0, 0, 0, 0, time.UTC), sel.Date)

	_, err = uc.Selection(Query{Category: "Directed Energy", Date: "07/04/2022"})
	assert.True(t, errors.IsBadRequest(err))

	_, err = uc.Selection(Query{Category: "Directed Energy", Date: "2022-07-11"})
	assert.True(t, errors.IsBadRequest(err))

	_, err = uc.Selection(Query{Category: "Directed Energy", Subfield: "Phasers"})
	assert.True(t, errors.IsNotFound(err))
}

func TestRadarUseCase_Analyze(t *testing.T) {
	a := &mockAnalyzer{companies: companies(3)}
	uc := newUseCase(a, &mockCollectionRepo{}, 10)

	res, err := uc.Analyze(context.Background(), Query{Category: "Hypersonics", Date: "2022-07-04"})
	require.NoError(t, err)
	assert.Equal(t, "20220704_hypersonics", res.Collection)
	assert.Equal(t, "Hypersonics", a.last.Technology())

	_, err = uc.Analyze(context.Background(), Query{})
	assert.True(t, errors.IsBadRequest(err))

	a.err = fmt.Errorf("mongo down")
	_, err = uc.Analyze(context.Background(), Query{Category: "Hypersonics"})
	assert.True(t, errors.IsInternalServer(err))
}

func TestRadarUseCase_Report(t *testing.T) {
	uc := newUseCase(&mockAnalyzer{companies: companies(25)}, &mockCollectionRepo{}, 10)
	ctx := context.Background()

	r, err := uc.Report(ctx, Query{Category: "Hypersonics", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 25, r.Matched)
	assert.Equal(t, 3, r.Pages)
	assert.Equal(t, 2, r.Page)
	require.Len(t, r.Rows, 10)
	assert.Equal(t, 10, r.Rows[0].Index)
	assert.Equal(t, "Company 10", r.Rows[0].Name)

	r, err = uc.Report(ctx, Query{Category: "Hypersonics", Page: 9})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Page)
	assert.Len(t, r.Rows, 5)

	r, err = uc.Report(ctx, Query{Category: "Hypersonics", Filter: "company 2"})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Matched)
	assert.Equal(t, 20, r.Rows[0].Index)
}

func TestRadarUseCase_ReportEmpty(t *testing.T) {
	uc := newUseCase(&mockAnalyzer{}, &mockCollectionRepo{}, 10)
	r, err := uc.Report(context.Background(), Query{Category: "Hypersonics"})
	require.NoError(t, err)
	assert.Zero(t, r.Pages)
	assert.Equal(t, 1, r.Page)
	assert.Empty(t, r.Rows)
}

func TestRadarUseCase_Export(t *testing.T) {
	uc := newUseCase(&mockAnalyzer{companies: companies(4)}, &mockCollectionRepo{}, 10)
	ctx := context.Background()
	q := Query{Category: "Hypersonics"}

	_, all, err := uc.Export(ctx, q, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, none, err := uc.Export(ctx, q, []string{})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, rows, err := uc.Export(ctx, q, []string{"Company 03", "Company 01", "Unknown"})
	require.NoError(t, err)
	assert.Equal(t, []model.Mention{{Name: "Company 01", Count: 3}, {Name: "Company 03", Count: 1}}, rows)
}

func TestRadarUseCase_History(t *testing.T) {
	d1 := time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2022, 7, 4, 0, 0, 0, 0, time.UTC)
	repo := &mockCollectionRepo{names: []collection.Name{
		{Date: d1, Slug: "lasers"},
		{Date: d1, Slug: "lasers", Prediction: true},
		{Date: d2, Slug: "6g"},
	}}
	uc := newUseCase(&mockAnalyzer{}, repo, 10)

	got, err := uc.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []collection.Name{{Date: d2, Slug: "6g"}, {Date: d1, Slug: "lasers"}}, got)
}
