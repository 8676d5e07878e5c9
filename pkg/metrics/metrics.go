// Package metrics 定义分析流程的 prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "techradar"

var (
	// CacheLookups 缓存查询次数，kind 为 articles 或 prediction，result 为 hit 或 miss
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Number of collection cache lookups.",
	}, []string{"kind", "result"})

	// SearchRequests 新闻接口调用次数
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_requests_total",
		Help:      "Number of news search API requests.",
	}, []string{"status"})

	// ArticleFailures 正文抓取失败而被跳过的文章数
	ArticleFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "article_fetch_failures_total",
		Help:      "Number of articles skipped because their text could not be fetched.",
	})

	// EntitiesRecognized 统计到的实体数
	EntitiesRecognized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_recognized_total",
		Help:      "Number of labelled entities counted.",
	})

	// RunDuration 单次分析耗时
	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of analysis runs.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"cached"})
)
