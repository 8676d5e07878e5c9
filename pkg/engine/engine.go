package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iWorld-y/tech_radar/pkg/collection"
	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/fetcher"
	"github.com/iWorld-y/tech_radar/pkg/logger"
	"github.com/iWorld-y/tech_radar/pkg/metrics"
	"github.com/iWorld-y/tech_radar/pkg/model"
	"github.com/iWorld-y/tech_radar/pkg/ner"
	"github.com/iWorld-y/tech_radar/pkg/search"
	"github.com/iWorld-y/tech_radar/pkg/storage"
	"github.com/iWorld-y/tech_radar/pkg/tally"
)

// ErrNoSelection 未选择技术
var ErrNoSelection = errors.New("no technology selected")

// Fetcher 根据链接获取文章正文
type Fetcher interface {
	Text(ctx context.Context, url string) (string, error)
}

// Options 引擎参数
type Options struct {
	Language string
	PageSize int
	// MaxPages 每次最多请求的新闻接口页数
	MaxPages int
	// MaxArticles 每次最多分析的文章数，0 表示全部
	MaxArticles int
	// Label 统计的实体标签
	Label string
	// RunTimeout 单次共享分析的最长时间，不受发起请求者取消的影响
	RunTimeout time.Duration
}

// OptionsFromConfig 从配置生成引擎参数
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Language:    cfg.Search.Language,
		PageSize:    cfg.Search.PageSize,
		MaxPages:    cfg.Search.MaxPages,
		MaxArticles: cfg.NER.MaxArticles,
		Label:       cfg.NER.Label,
	}
}

// Engine 核心处理引擎：缓存查询、新闻检索、实体识别与计数
type Engine struct {
	store      storage.Store
	searcher   search.Searcher
	fetcher    Fetcher
	recognizer ner.Recognizer
	opts       Options
	group      singleflight.Group
}

// New 创建引擎实例
func New(store storage.Store, searcher search.Searcher, fetcher Fetcher, recognizer ner.Recognizer, opts Options) *Engine {
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1
	}
	if opts.Label == "" {
		opts.Label = ner.LabelOrganization
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 10 * time.Minute
	}
	return &Engine{
		store:      store,
		searcher:   searcher,
		fetcher:    fetcher,
		recognizer: recognizer,
		opts:       opts,
	}
}

// Run 执行一次分析，同一集合的并发请求只执行一次。
// 共享的分析不随任何一个调用方取消，调用方各自在 ctx 结束时返回。
func (e *Engine) Run(ctx context.Context, sel model.Selection) (*model.Result, error) {
	if sel.Empty() {
		return nil, ErrNoSelection
	}
	key := collection.Key(sel.Date, sel.Technology())

	ch := e.group.DoChan(key, func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.opts.RunTimeout)
		defer cancel()
		return e.run(runCtx, sel, key)
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Shared {
		logger.Log.Debugf("复用进行中的分析 [%s]", key)
	}

	// 共享结果时返回副本
	res := *r.Val.(*model.Result)
	res.Selection = sel
	res.Companies = append([]model.Mention(nil), res.Companies...)
	return &res, nil
}

func (e *Engine) run(ctx context.Context, sel model.Selection, key string) (*model.Result, error) {
	start := time.Now()
	technology := sel.Technology()

	articles, count, err := e.articles(ctx, key, technology, sel.Date)
	if err != nil {
		return nil, err
	}

	predKey := key + collection.PredictionSuffix
	mentions, cached, err := e.mentions(ctx, predKey, articles)
	if err != nil {
		return nil, err
	}
	tally.SortByCount(mentions)

	metrics.RunDuration.WithLabelValues(fmt.Sprint(cached)).Observe(time.Since(start).Seconds())
	logger.Log.WithFields(map[string]interface{}{
		"collection": key,
		"articles":   count,
		"companies":  len(mentions),
		"cached":     cached,
	}).Infof("分析完成 [%s]", technology)

	return &model.Result{
		Selection:    sel,
		Collection:   key,
		ArticleCount: count,
		Companies:    mentions,
		Cached:       cached,
	}, nil
}

// articles 优先读取缓存集合，不存在时调用新闻接口并写入缓存
func (e *Engine) articles(ctx context.Context, key, technology string, date time.Time) ([]model.Article, int, error) {
	ok, err := e.store.HasCollection(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("check collection %s: %w", key, err)
	}

	if ok {
		metrics.CacheLookups.WithLabelValues("articles", "hit").Inc()
		articles, err := e.store.Articles(ctx, key)
		if err != nil {
			return nil, 0, fmt.Errorf("load articles %s: %w", key, err)
		}
		n, err := e.store.CountArticles(ctx, key)
		if err != nil {
			return nil, 0, fmt.Errorf("count articles %s: %w", key, err)
		}
		return articles, int(n), nil
	}

	metrics.CacheLookups.WithLabelValues("articles", "miss").Inc()
	articles, err := e.search(ctx, technology, date)
	if err != nil {
		return nil, 0, err
	}

	if len(articles) == 0 {
		logger.Log.Warnf("未找到文章 [%s]，不写入缓存", key)
		return nil, 0, nil
	}
	if err := e.store.InsertArticles(ctx, key, articles); err != nil {
		return nil, 0, fmt.Errorf("save articles %s: %w", key, err)
	}
	return articles, len(articles), nil
}

func (e *Engine) search(ctx context.Context, technology string, date time.Time) ([]model.Article, error) {
	from, to := search.DayRange(date)

	var articles []model.Article
	for page := 1; page <= e.opts.MaxPages; page++ {
		resp, err := e.searcher.Search(ctx, &search.Request{
			Query:    technology,
			Topic:    "news",
			Language: e.opts.Language,
			From:     from,
			To:       to,
			Page:     page,
			PageSize: e.opts.PageSize,
		})
		if err != nil {
			metrics.SearchRequests.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("search %q: %w", technology, err)
		}
		metrics.SearchRequests.WithLabelValues("ok").Inc()

		for _, r := range resp.Results {
			articles = append(articles, toArticle(r))
		}
		logger.Log.Debugf("新闻接口第 %d 页返回 %d 条 [%s]", page, len(resp.Results), technology)

		if len(resp.Results) == 0 || resp.TotalPages == 0 || page >= resp.TotalPages {
			break
		}
	}
	return articles, nil
}

// mentions 优先读取 prediction 集合，不存在时逐篇识别实体并写入缓存
func (e *Engine) mentions(ctx context.Context, predKey string, articles []model.Article) ([]model.Mention, bool, error) {
	ok, err := e.store.HasCollection(ctx, predKey)
	if err != nil {
		return nil, false, fmt.Errorf("check collection %s: %w", predKey, err)
	}
	if ok {
		metrics.CacheLookups.WithLabelValues("prediction", "hit").Inc()
		mentions, err := e.store.Mentions(ctx, predKey)
		if err != nil {
			return nil, false, fmt.Errorf("load mentions %s: %w", predKey, err)
		}
		return mentions, true, nil
	}
	metrics.CacheLookups.WithLabelValues("prediction", "miss").Inc()

	if e.opts.MaxArticles > 0 && len(articles) > e.opts.MaxArticles {
		articles = articles[:e.opts.MaxArticles]
	}

	t := tally.New()
	unavailable := 0
	for _, a := range articles {
		if a.Link == "" {
			continue
		}
		text, err := e.fetcher.Text(ctx, a.Link)
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}
			if errors.Is(err, fetcher.ErrHostUnavailable) {
				unavailable++
			}
			metrics.ArticleFailures.Inc()
			logger.Log.Warnf("跳过无法抓取的文章 [%s]: %v", a.Link, err)
			continue
		}

		entities, err := e.recognizer.Recognize(ctx, CleanText(text))
		if err != nil {
			return nil, false, fmt.Errorf("recognize %s: %w", a.Link, err)
		}
		for _, ent := range ner.Filter(entities, e.opts.Label) {
			t.Add(strings.TrimSpace(ent.Text))
			metrics.EntitiesRecognized.Inc()
		}
	}

	mentions := t.Mentions()
	if len(mentions) == 0 {
		logger.Log.Warnf("未识别到公司 [%s]，不写入缓存", predKey)
		return mentions, false, nil
	}
	// 熔断导致的跳过是暂时的，结果不完整，下次重新识别
	if unavailable > 0 {
		logger.Log.Warnf("%d 篇文章因站点熔断未抓取，不写入缓存 [%s]", unavailable, predKey)
		return mentions, false, nil
	}
	if err := e.store.InsertMentions(ctx, predKey, mentions); err != nil {
		return nil, false, fmt.Errorf("save mentions %s: %w", predKey, err)
	}
	return mentions, false, nil
}

var whitespace = strings.NewReplacer("\n", " ", "\t", " ", "\r", " ", "\u00a0", " ")

// CleanText 将换行、制表符与不换行空格替换为空格
func CleanText(text string) string {
	return whitespace.Replace(text)
}

func toArticle(r search.Result) model.Article {
	return model.Article{
		ArticleID:     r.ID,
		Title:         r.Title,
		Author:        r.Author,
		Link:          r.URL,
		CleanURL:      r.CleanURL,
		PublishedDate: r.PublishedDate,
		Language:      r.Language,
		Excerpt:       r.Content,
		Topic:         r.Topic,
		Country:       r.Country,
		Score:         r.Score,
	}
}
