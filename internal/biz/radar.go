package biz

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"

	"github.com/iWorld-y/tech_radar/pkg/catalog"
	"github.com/iWorld-y/tech_radar/pkg/collection"
	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/model"
)

// DateLayout 页面与接口使用的日期格式
const DateLayout = time.DateOnly

// Analyzer 执行一次技术分析
type Analyzer interface {
	Run(ctx context.Context, sel model.Selection) (*model.Result, error)
}

// CollectionRepo 已缓存的集合
type CollectionRepo interface {
	ListCollections(ctx context.Context) ([]collection.Name, error)
}

// Query 侧边栏与表格的查询参数
type Query struct {
	Category string
	Subfield string
	Date     string
	// Filter 按公司名称过滤，不区分大小写
	Filter string
	Page   int
}

// Row 表格中的一行，Index 为在完整结果中的排名
type Row struct {
	Index int
	model.Mention
}

// Report 报告页数据
type Report struct {
	Result   *model.Result
	Rows     []Row
	Matched  int
	Page     int
	Pages    int
	PageSize int
	Filter   string
}

type RadarUseCase struct {
	analyzer Analyzer
	repo     CollectionRepo
	catalog  *catalog.Catalog
	pageSize int
	now      func() time.Time
	log      *log.Helper
}

// NewCatalog 使用配置中的技术列表创建目录
func NewCatalog(c *config.Config) *catalog.Catalog {
	return catalog.New(c.Technologies)
}

func NewRadarUseCase(analyzer Analyzer, repo CollectionRepo, cat *catalog.Catalog, c *config.Config, logger log.Logger) *RadarUseCase {
	pageSize := c.Dashboard.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &RadarUseCase{
		analyzer: analyzer,
		repo:     repo,
		catalog:  cat,
		pageSize: pageSize,
		now:      time.Now,
		log:      log.NewHelper(logger),
	}
}

// Technologies 返回可选技术列表
func (uc *RadarUseCase) Technologies() []catalog.Technology {
	return uc.catalog.Technologies()
}

// Selection 校验查询参数并转换为选择，未选择技术时返回空选择
func (uc *RadarUseCase) Selection(q Query) (model.Selection, error) {
	date := uc.today()
	if q.Date != "" {
		d, err := time.ParseInLocation(DateLayout, q.Date, date.Location())
		if err != nil {
			return model.Selection{}, errors.BadRequest("INVALID_DATE", "date must be formatted as YYYY-MM-DD")
		}
		date = d
	}
	if date.After(uc.today()) {
		return model.Selection{}, errors.BadRequest("INVALID_DATE", "date must not be in the future")
	}

	sel := model.Selection{Category: strings.TrimSpace(q.Category), Subfield: strings.TrimSpace(q.Subfield), Date: date}
	if sel.Category == "" || sel.Category == model.NoTechnology {
		return model.Selection{Date: date}, nil
	}
	if _, err := uc.catalog.Lookup(sel.Category, sel.Subfield); err != nil {
		return model.Selection{}, errors.NotFound("UNKNOWN_TECHNOLOGY", err.Error())
	}
	return sel, nil
}

// Analyze 返回选择对应的完整结果
func (uc *RadarUseCase) Analyze(ctx context.Context, q Query) (*model.Result, error) {
	sel, err := uc.Selection(q)
	if err != nil {
		return nil, err
	}
	if sel.Empty() {
		return nil, errors.BadRequest("NO_TECHNOLOGY", "select a technology")
	}

	res, err := uc.analyzer.Run(ctx, sel)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("analyze %s on %s: %v", sel.Technology(), sel.Date.Format(DateLayout), err)
		return nil, errors.InternalServer("ANALYZE_FAILED", "analysis failed").WithCause(err)
	}
	return res, nil
}

// Report 分析后按名称过滤并分页
func (uc *RadarUseCase) Report(ctx context.Context, q Query) (*Report, error) {
	res, err := uc.Analyze(ctx, q)
	if err != nil {
		return nil, err
	}

	rows := lo.Map(res.Companies, func(m model.Mention, i int) Row { return Row{Index: i, Mention: m} })
	if f := strings.TrimSpace(q.Filter); f != "" {
		rows = lo.Filter(rows, func(r Row, _ int) bool {
			return strings.Contains(strings.ToLower(r.Name), strings.ToLower(f))
		})
	}

	pages := (len(rows) + uc.pageSize - 1) / uc.pageSize
	page := q.Page
	if page < 1 {
		page = 1
	}
	if pages > 0 && page > pages {
		page = pages
	}

	start := min((page-1)*uc.pageSize, len(rows))
	end := min(start+uc.pageSize, len(rows))

	return &Report{
		Result:   res,
		Rows:     rows[start:end],
		Matched:  len(rows),
		Page:     page,
		Pages:    pages,
		PageSize: uc.pageSize,
		Filter:   strings.TrimSpace(q.Filter),
	}, nil
}

// Export 返回导出的行，names 为 nil 时导出全部，否则按结果顺序导出选中的公司
func (uc *RadarUseCase) Export(ctx context.Context, q Query, names []string) (*model.Result, []model.Mention, error) {
	res, err := uc.Analyze(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	if names == nil {
		return res, res.Companies, nil
	}

	selected := lo.SliceToMap(names, func(n string) (string, struct{}) { return n, struct{}{} })
	rows := lo.Filter(res.Companies, func(m model.Mention, _ int) bool {
		_, ok := selected[m.Name]
		return ok
	})
	return res, rows, nil
}

// History 返回已缓存的集合，最新日期在前
func (uc *RadarUseCase) History(ctx context.Context) ([]collection.Name, error) {
	names, err := uc.repo.ListCollections(ctx)
	if err != nil {
		return nil, errors.InternalServer("LIST_FAILED", "list collections failed").WithCause(err)
	}
	out := lo.Filter(names, func(n collection.Name, _ int) bool { return !n.Prediction })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (uc *RadarUseCase) today() time.Time {
	now := uc.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
