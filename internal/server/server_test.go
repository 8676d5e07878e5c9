package server

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/tech_radar/internal/biz"
	"github.com/iWorld-y/tech_radar/internal/data"
	"github.com/iWorld-y/tech_radar/internal/service"
	"github.com/iWorld-y/tech_radar/pkg/collection"
	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/model"
)

type fakeAnalyzer struct {
	runs []model.Selection
	fail map[string]bool
}

func (f *fakeAnalyzer) Run(_ context.Context, sel model.Selection) (*model.Result, error) {
	f.runs = append(f.runs, sel)
	if f.fail[sel.Technology()] {
		return nil, errors.New("search quota exceeded")
	}
	return &model.Result{
		Selection:    sel,
		Collection:   collection.Key(sel.Date, sel.Technology()),
		ArticleCount: 2,
		Companies:    []model.Mention{{Name: "SpaceX", Count: 2}},
	}, nil
}

func newTestServer(t *testing.T, a biz.Analyzer) nethttp.Handler {
	t.Helper()
	c := &config.Config{Data: config.DataConfig{Driver: "memory"}}
	c.ApplyDefaults()
	c.Data.Driver = "memory"

	d, cleanup, err := data.NewData(c, log.DefaultLogger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	uc := biz.NewRadarUseCase(a, data.NewCollectionRepo(d, log.DefaultLogger), biz.NewCatalog(c), c, log.DefaultLogger)
	s, err := service.NewDashboardService(uc, c, log.DefaultLogger)
	require.NoError(t, err)
	return NewHTTPServer(c, s, log.DefaultLogger)
}

func get(h nethttp.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, target, nil))
	return rec
}

func TestHTTPServerRoutes(t *testing.T) {
	h := newTestServer(t, &fakeAnalyzer{})

	rec := get(h, "/healthz")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(h, "/metrics")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	rec = get(h, "/")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Getting Started")

	rec = get(h, "/api/v1/technologies")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var techs struct {
		Technologies []struct {
			Category string `json:"category"`
		} `json:"technologies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &techs))
	assert.NotEmpty(t, techs.Technologies)
}

func TestHTTPServerCompanies(t *testing.T) {
	h := newTestServer(t, &fakeAnalyzer{})

	rec := get(h, "/api/v1/companies?category=Space+Technologies+and+Systems&subfield=Space+propulsion&date=2022-07-04")
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var reply service.CompaniesReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "20220704_space_propulsion", reply.Collection)
	assert.Equal(t, "Space propulsion", reply.Technology)
	assert.Equal(t, "2022-07-04", reply.Date)
	assert.Equal(t, []model.Mention{{Name: "SpaceX", Count: 2}}, reply.Companies)

	rec = get(h, "/api/v1/companies?category=Space+Technologies+and+Systems&date=nope")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_DATE")
}

func TestWarmer(t *testing.T) {
	a := &fakeAnalyzer{fail: map[string]bool{"6G": true}}
	c := &config.Config{Warmer: config.WarmerConfig{
		Schedule:     "@daily",
		DayOffset:    -1,
		Technologies: []string{"Lasers", "6G", "Batteries"},
	}}
	w, err := NewWarmer(c, a, log.DefaultLogger)
	require.NoError(t, err)
	w.now = func() time.Time { return time.Date(2022, 7, 5, 9, 0, 0, 0, time.UTC) }

	failed := w.WarmOnce(context.Background())
	assert.Equal(t, 1, failed)
	require.Len(t, a.runs, 3)
	assert.Equal(t, "Batteries", a.runs[2].Technology())
	assert.Equal(t, time.Date(2022, 7, 4, 0, 0, 0, 0, time.UTC), a.runs[0].Date)

	require.NoError(t, w.Start(context.Background()))
	assert.Len(t, w.cron.Entries(), 1)
	require.NoError(t, w.Stop(context.Background()))
}

func TestWarmerDisabledAndInvalid(t *testing.T) {
	w, err := NewWarmer(&config.Config{}, &fakeAnalyzer{}, log.DefaultLogger)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	assert.Empty(t, w.cron.Entries())
	require.NoError(t, w.Stop(context.Background()))

	_, err = NewWarmer(&config.Config{Warmer: config.WarmerConfig{Schedule: "every day"}}, &fakeAnalyzer{}, log.DefaultLogger)
	assert.ErrorContains(t, err, "invalid warmer schedule")
}
