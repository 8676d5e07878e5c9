// Package fetcher 使用 readability 提取文章正文。
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/sony/gobreaker"

	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/logger"
)

var (
	// ErrBodyTooLarge 响应体超过 max_body_size
	ErrBodyTooLarge = errors.New("response body too large")
	// ErrNoContent 页面没有可读正文
	ErrNoContent = errors.New("no readable content found")
	// ErrTooManyRedirects 重定向次数超限
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrHostUnavailable 该站点的熔断器处于打开或半开限流状态，请求未发出
	ErrHostUnavailable = errors.New("article host unavailable")
)

// Options 抓取参数
type Options struct {
	Timeout      time.Duration
	MaxBodySize  int64
	MaxRedirects int
	UserAgent    string
}

// OptionsFromConfig 从配置生成抓取参数
func OptionsFromConfig(cfg config.FetchConfig) Options {
	return Options{
		Timeout:      config.Duration(cfg.Timeout, 30*time.Second),
		MaxBodySize:  cfg.MaxBodySize,
		MaxRedirects: cfg.MaxRedirects,
		UserAgent:    cfg.UserAgent,
	}
}

// ReadabilityFetcher 下载网页并提取正文，可并发使用。每个站点使用独立的熔断器
type ReadabilityFetcher struct {
	client *http.Client
	opts   Options

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// New 创建 ReadabilityFetcher
func New(opts Options) *ReadabilityFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = 10 << 20
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 5
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "TechRadarBot/1.0"
	}

	f := &ReadabilityFetcher{opts: opts, breakers: make(map[string]*gobreaker.CircuitBreaker)}
	f.client = &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			return nil
		},
	}
	return f
}

// breaker 返回 host 对应的熔断器，不存在时创建
func (f *ReadabilityFetcher) breaker(host string) *gobreaker.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[host]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "article-fetch:" + host,
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
		},
		// 单篇文章的 4xx 不代表站点整体不可用
		IsSuccessful: func(err error) bool {
			var se *StatusError
			return err == nil || (errors.As(err, &se) && se.Code < 500)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.WithField("breaker", name).Warnf("circuit breaker state %s -> %s", from, to)
		},
	})
	f.breakers[host] = cb
	return cb
}

// StatusError 非 200 响应
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, http.StatusText(e.Code))
}

// Text 返回 rawURL 对应网页的纯文本正文
func (f *ReadabilityFetcher) Text(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid article url %q", rawURL)
	}

	out, err := f.breaker(strings.ToLower(u.Host)).Execute(func() (interface{}, error) {
		return f.fetch(ctx, u)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %s: %v", ErrHostUnavailable, u.Host, err)
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (f *ReadabilityFetcher) fetch(ctx context.Context, u *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read body failed: %w", err)
	}
	if int64(len(body)) > f.opts.MaxBodySize {
		return "", fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, f.opts.MaxBodySize)
	}

	// 重定向后以最终地址解析相对链接
	pageURL := u
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability failed: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}
