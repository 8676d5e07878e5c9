package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	nethttp "net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/tech_radar/internal/biz"
	"github.com/iWorld-y/tech_radar/pkg/catalog"
	"github.com/iWorld-y/tech_radar/pkg/collection"
	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/export"
	"github.com/iWorld-y/tech_radar/pkg/model"
)

//go:embed templates/*.html
var templates embed.FS

var funcs = template.FuncMap{
	"comma":     func(n int) string { return humanize.Comma(int64(n)) },
	"slashDate": func(t time.Time) string { return t.Format("2006/01/02") },
	"add":       func(a, b int) int { return a + b },
	"sub":       func(a, b int) int { return a - b },
}

// DashboardService 页面、CSV 导出与 JSON 接口
type DashboardService struct {
	uc    *biz.RadarUseCase
	title string
	tmpl  *template.Template
	log   *log.Helper
}

func NewDashboardService(uc *biz.RadarUseCase, c *config.Config, logger log.Logger) (*DashboardService, error) {
	tmpl, err := template.New("dashboard").Funcs(funcs).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &DashboardService{
		uc:    uc,
		title: c.Dashboard.Title,
		tmpl:  tmpl,
		log:   log.NewHelper(logger),
	}, nil
}

type page struct {
	Title        string
	Technologies []catalog.Technology
	History      []collection.Name
	Query        biz.Query
	Date         string
	Today        string
	Report       *biz.Report
	Error        string
}

// PageURL 返回保留当前查询条件的分页链接
func (p page) PageURL(n int) string {
	v := url.Values{}
	v.Set("category", p.Query.Category)
	v.Set("subfield", p.Query.Subfield)
	v.Set("date", p.Date)
	if p.Query.Filter != "" {
		v.Set("q", p.Query.Filter)
	}
	v.Set("page", strconv.Itoa(n))
	return "/?" + v.Encode()
}

func queryFrom(r *nethttp.Request) biz.Query {
	page, _ := strconv.Atoi(r.FormValue("page"))
	return biz.Query{
		Category: r.FormValue("category"),
		Subfield: r.FormValue("subfield"),
		Date:     r.FormValue("date"),
		Filter:   r.FormValue("q"),
		Page:     page,
	}
}

func (s *DashboardService) newPage(r *nethttp.Request, q biz.Query, sel model.Selection) page {
	p := page{
		Title:        s.title,
		Technologies: s.uc.Technologies(),
		Query:        q,
		Date:         sel.Date.Format(biz.DateLayout),
		Today:        time.Now().Format(biz.DateLayout),
	}
	if sel.Date.IsZero() {
		p.Date = p.Today
	}
	if h, err := s.uc.History(r.Context()); err == nil {
		p.History = h
	}
	return p
}

// Index 未选择技术时显示介绍页，否则显示分析结果
func (s *DashboardService) Index(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}

	q := queryFrom(r)
	sel, err := s.uc.Selection(q)
	if err != nil {
		s.renderError(w, r, q, err)
		return
	}

	p := s.newPage(r, q, sel)
	if sel.Empty() {
		s.render(w, nethttp.StatusOK, "index.html", p)
		return
	}

	report, err := s.uc.Report(r.Context(), q)
	if err != nil {
		s.renderError(w, r, q, err)
		return
	}
	p.Report = report
	s.render(w, nethttp.StatusOK, "report.html", p)
}

// Export 下载 CSV，scope=selected 时只导出勾选的公司
func (s *DashboardService) Export(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, biz.Query{}, errors.BadRequest("INVALID_FORM", err.Error()))
		return
	}
	q := queryFrom(r)

	var names []string
	if r.Form.Get("scope") == "selected" {
		names = append([]string{}, r.Form["name"]...)
	}

	res, rows, err := s.uc.Export(r.Context(), q, names)
	if err != nil {
		s.renderError(w, r, q, err)
		return
	}

	filename := export.Filename(res.Selection.Date, res.Selection.Technology())
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteCSV(w, rows); err != nil {
		s.log.Errorf("write csv %s: %v", filename, err)
	}
}

// Healthz 存活检查
func (s *DashboardService) Healthz(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *DashboardService) render(w nethttp.ResponseWriter, status int, name string, p page) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, p); err != nil {
		s.log.Errorf("render %s: %v", name, err)
		nethttp.Error(w, "internal error", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *DashboardService) renderError(w nethttp.ResponseWriter, r *nethttp.Request, q biz.Query, err error) {
	e := errors.FromError(err)
	p := s.newPage(r, q, model.Selection{})
	p.Error = e.Message
	s.render(w, int(e.Code), "error.html", p)
}

// CompaniesReply /api/v1/companies 响应
type CompaniesReply struct {
	Collection   string          `json:"collection"`
	Technology   string          `json:"technology"`
	Date         string          `json:"date"`
	ArticleCount int             `json:"article_count"`
	Cached       bool            `json:"cached"`
	Companies    []model.Mention `json:"companies"`
}

// Companies 返回选择对应的公司统计
func (s *DashboardService) Companies(ctx http.Context) error {
	v := ctx.Query()
	res, err := s.uc.Analyze(ctx, biz.Query{
		Category: v.Get("category"),
		Subfield: v.Get("subfield"),
		Date:     v.Get("date"),
	})
	if err != nil {
		return err
	}
	companies := res.Companies
	if companies == nil {
		companies = []model.Mention{}
	}
	return ctx.Result(nethttp.StatusOK, &CompaniesReply{
		Collection:   res.Collection,
		Technology:   res.Selection.Technology(),
		Date:         res.Selection.Date.Format(biz.DateLayout),
		ArticleCount: res.ArticleCount,
		Cached:       res.Cached,
		Companies:    companies,
	})
}

// Technologies 返回可选技术列表
func (s *DashboardService) Technologies(ctx http.Context) error {
	return ctx.Result(nethttp.StatusOK, map[string]any{"technologies": s.uc.Technologies()})
}

// CollectionItem /api/v1/collections 中的一项
type CollectionItem struct {
	Key  string `json:"key"`
	Date string `json:"date"`
	Slug string `json:"slug"`
}

// Collections 返回已缓存的文章集合
func (s *DashboardService) Collections(ctx http.Context) error {
	names, err := s.uc.History(ctx)
	if err != nil {
		return err
	}
	items := make([]CollectionItem, 0, len(names))
	for _, n := range names {
		items = append(items, CollectionItem{Key: n.String(), Date: n.Date.Format(biz.DateLayout), Slug: n.Slug})
	}
	return ctx.Result(nethttp.StatusOK, map[string]any{"collections": items})
}
