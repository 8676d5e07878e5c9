package search

import (
	"context"
	"time"
)

// Searcher 定义通用的新闻搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query             string
	Topic             string // "news" or "general"
	Language          string // ISO 639-1, e.g. "en"
	From              time.Time
	To                time.Time
	Page              int
	PageSize          int
	IncludeRawContent bool
}

// Response 通用搜索响应
type Response struct {
	Results   []Result
	TotalHits int
	Page      int
	// TotalPages 为 0 表示提供方不支持分页
	TotalPages int
}

// Result 单条搜索结果
type Result struct {
	ID            string
	Title         string
	Author        string
	URL           string
	CleanURL      string
	Content       string
	RawContent    string
	Language      string
	Topic         string
	Country       string
	Score         float64
	PublishedDate string
}

// DayRange 返回 date 所在自然日的起止时间
func DayRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.Add(24*time.Hour - time.Second)
}
