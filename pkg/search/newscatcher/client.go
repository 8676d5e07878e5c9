package newscatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/tech_radar/pkg/search"
)

const (
	defaultBaseURL = "https://api.newscatcherapi.com/v2"
	timeLayout     = "2006/01/02 15:04:05"
	statusOK       = "ok"
)

// Client NewsCatcher API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 NewsCatcher 客户端，baseURL 为空时使用官方地址
func NewClient(apiKey, baseURL string, timeout int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: t},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// SearchResponse NewsCatcher /search 响应
type SearchResponse struct {
	Status     string    `json:"status"`
	TotalHits  int       `json:"total_hits"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	PageSize   int       `json:"page_size"`
	Articles   []Article `json:"articles"`
	Message    string    `json:"message"`
}

// Article NewsCatcher 单篇文章
type Article struct {
	ID            string  `json:"_id"`
	Score         float64 `json:"_score"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PublishedDate string  `json:"published_date"`
	Link          string  `json:"link"`
	CleanURL      string  `json:"clean_url"`
	Excerpt       string  `json:"excerpt"`
	Summary       string  `json:"summary"`
	Topic         string  `json:"topic"`
	Country       string  `json:"country"`
	Language      string  `json:"language"`
}

// Search 执行搜索
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("q", req.Query)
	q.Set("sort_by", "relevancy")
	if req.Language != "" {
		q.Set("lang", req.Language)
	}
	if !req.From.IsZero() {
		q.Set("from", req.From.Format(timeLayout))
	}
	if !req.To.IsZero() {
		q.Set("to", req.To.Format(timeLayout))
	}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if req.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(req.PageSize))
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newscatcher api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	// 没有匹配结果时 status 为提示语而不是 ok
	if searchResp.Status != statusOK {
		return &search.Response{Page: searchResp.Page}, nil
	}

	results := make([]search.Result, 0, len(searchResp.Articles))
	for _, a := range searchResp.Articles {
		content := a.Summary
		if content == "" {
			content = a.Excerpt
		}
		results = append(results, search.Result{
			ID:            a.ID,
			Title:         a.Title,
			Author:        a.Author,
			URL:           a.Link,
			CleanURL:      a.CleanURL,
			Content:       content,
			Language:      a.Language,
			Topic:         a.Topic,
			Country:       a.Country,
			Score:         a.Score,
			PublishedDate: a.PublishedDate,
		})
	}

	return &search.Response{
		Results:    results,
		TotalHits:  searchResp.TotalHits,
		Page:       searchResp.Page,
		TotalPages: searchResp.TotalPages,
	}, nil
}
