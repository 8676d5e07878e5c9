package server

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/robfig/cron/v3"

	"github.com/iWorld-y/tech_radar/internal/biz"
	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/model"
)

var _ transport.Server = (*Warmer)(nil)

// Warmer 按计划提前分析常用技术，使页面直接命中缓存
type Warmer struct {
	cron         *cron.Cron
	schedule     cron.Schedule
	analyzer     biz.Analyzer
	technologies []string
	dayOffset    int
	now          func() time.Time
	log          *log.Helper
}

// NewWarmer schedule 为空时返回的 Warmer 不执行任何任务
func NewWarmer(c *config.Config, analyzer biz.Analyzer, logger log.Logger) (*Warmer, error) {
	w := &Warmer{
		cron:         cron.New(),
		analyzer:     analyzer,
		technologies: c.Warmer.Technologies,
		dayOffset:    c.Warmer.DayOffset,
		now:          time.Now,
		log:          log.NewHelper(logger),
	}
	if c.Warmer.Schedule == "" {
		return w, nil
	}

	sched, err := cron.ParseStandard(c.Warmer.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid warmer schedule %q: %w", c.Warmer.Schedule, err)
	}
	w.schedule = sched
	return w, nil
}

func (w *Warmer) Start(ctx context.Context) error {
	if w.schedule == nil || len(w.technologies) == 0 {
		w.log.Info("cache warmer disabled")
		return nil
	}
	w.cron.Schedule(w.schedule, cron.FuncJob(func() { w.WarmOnce(context.Background()) }))
	w.cron.Start()
	w.log.Infof("cache warmer started for %d technologies", len(w.technologies))
	return nil
}

func (w *Warmer) Stop(ctx context.Context) error {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WarmOnce 依次分析配置的技术，单个失败不影响其他技术，返回失败数
func (w *Warmer) WarmOnce(ctx context.Context) int {
	date := w.now().AddDate(0, 0, w.dayOffset)
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	failed := 0
	for _, tech := range w.technologies {
		res, err := w.analyzer.Run(ctx, model.Selection{Category: tech, Date: date})
		if err != nil {
			failed++
			w.log.Errorf("warm %s on %s: %v", tech, date.Format(biz.DateLayout), err)
			continue
		}
		w.log.Infof("warmed %s: %d articles, %d companies", res.Collection, res.ArticleCount, len(res.Companies))
	}
	return failed
}
