package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/tech_radar/pkg/catalog"
)

// EnvPrefix 占位符 ${NAME} 对应的环境变量前缀，例如 ${API_KEY} 读取 TECHRADAR_API_KEY
const EnvPrefix = "TECHRADAR_"

// Config 项目配置结构体，同时供 yaml.v3 与 kratos config 解析
type Config struct {
	Server       ServerConfig         `yaml:"server" json:"server"`
	Data         DataConfig           `yaml:"data" json:"data"`
	Search       SearchConfig         `yaml:"search" json:"search"`
	NER          NERConfig            `yaml:"ner" json:"ner"`
	Fetch        FetchConfig          `yaml:"fetch" json:"fetch"`
	Concurrency  ConcurrencyConfig    `yaml:"concurrency" json:"concurrency"`
	Log          LogConfig            `yaml:"log" json:"log"`
	Dashboard    DashboardConfig      `yaml:"dashboard" json:"dashboard"`
	Warmer       WarmerConfig         `yaml:"warmer" json:"warmer"`
	Technologies []catalog.Technology `yaml:"technologies" json:"technologies"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http" json:"http"`
}

// HTTPConfig HTTP 监听配置
type HTTPConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

// DataConfig 文档数据库配置
type DataConfig struct {
	// Driver 可选 mongo、postgres、sqlite、memory
	Driver   string `yaml:"driver" json:"driver"`
	Source   string `yaml:"source" json:"source"`
	Database string `yaml:"database" json:"database"`
	Timeout  string `yaml:"timeout" json:"timeout"`
}

// SearchConfig 新闻搜索配置
type SearchConfig struct {
	Provider    string            `yaml:"provider" json:"provider"`
	Language    string            `yaml:"language" json:"language"`
	PageSize    int               `yaml:"page_size" json:"page_size"`
	MaxPages    int               `yaml:"max_pages" json:"max_pages"`
	NewsCatcher NewsCatcherConfig `yaml:"newscatcher" json:"newscatcher"`
	Tavily      TavilyConfig      `yaml:"tavily" json:"tavily"`
	SearXNG     SearXNGConfig     `yaml:"searxng" json:"searxng"`
}

// NewsCatcherConfig NewsCatcher 配置
type NewsCatcherConfig struct {
	APIKey  string `yaml:"api_key" json:"api_key"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	Timeout int    `yaml:"timeout" json:"timeout"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey  string `yaml:"api_key" json:"api_key"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	Timeout int    `yaml:"timeout" json:"timeout"`
}

// NERConfig 命名实体识别配置
type NERConfig struct {
	Provider string `yaml:"provider" json:"provider"`
	// Label 需要统计的实体标签
	Label string `yaml:"label" json:"label"`
	// MaxArticles 每次最多分析的文章数，0 表示全部
	MaxArticles int         `yaml:"max_articles" json:"max_articles"`
	MaxChars    int         `yaml:"max_chars" json:"max_chars"`
	LLM         LLMConfig   `yaml:"llm" json:"llm"`
	Spacy       SpacyConfig `yaml:"spacy" json:"spacy"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	APIKey  string `yaml:"api_key" json:"api_key"`
	Model   string `yaml:"model" json:"model"`
}

// SpacyConfig spaCy 模型服务配置
type SpacyConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	Model   string `yaml:"model" json:"model"`
	Timeout int    `yaml:"timeout" json:"timeout"`
}

// FetchConfig 正文抓取配置
type FetchConfig struct {
	Timeout      string `yaml:"timeout" json:"timeout"`
	MaxBodySize  int64  `yaml:"max_body_size" json:"max_body_size"`
	MaxRedirects int    `yaml:"max_redirects" json:"max_redirects"`
	UserAgent    string `yaml:"user_agent" json:"user_agent"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// ConcurrencyConfig 外部调用限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps" json:"qps"`
	RPM int `yaml:"rpm" json:"rpm"`
}

// DashboardConfig 页面展示配置
type DashboardConfig struct {
	Title    string `yaml:"title" json:"title"`
	PageSize int    `yaml:"page_size" json:"page_size"`
}

// WarmerConfig 定时预热缓存配置，Schedule 为空时不启用
type WarmerConfig struct {
	Schedule     string   `yaml:"schedule" json:"schedule"`
	DayOffset    int      `yaml:"day_offset" json:"day_offset"`
	Technologies []string `yaml:"technologies" json:"technologies"`
}

// ApplyDefaults 填充未配置的字段
func (c *Config) ApplyDefaults() {
	setString(&c.Server.HTTP.Addr, "0.0.0.0:8000")
	setString(&c.Server.HTTP.Timeout, "60s")

	setString(&c.Data.Driver, "mongo")
	setString(&c.Data.Database, "ARLIS")
	setString(&c.Data.Timeout, "10s")

	setString(&c.Search.Provider, "newscatcher")
	setString(&c.Search.Language, "en")
	setInt(&c.Search.PageSize, 100)
	setInt(&c.Search.MaxPages, 1)

	setString(&c.NER.Provider, "llm")
	setString(&c.NER.Label, "ORG")
	setInt(&c.NER.MaxChars, 6000)
	setString(&c.NER.Spacy.Model, "en_core_web_lg")

	setString(&c.Fetch.Timeout, "30s")
	if c.Fetch.MaxBodySize <= 0 {
		c.Fetch.MaxBodySize = 10 << 20
	}
	setInt(&c.Fetch.MaxRedirects, 5)
	setString(&c.Fetch.UserAgent, "TechRadarBot/1.0")

	setString(&c.Log.Level, "info")

	setString(&c.Dashboard.Title, "AL - CFIUS Over the Horizon Forecasting for Critical and Emerging Technologies")
	setInt(&c.Dashboard.PageSize, 100)
}

// LoadConfig 从指定路径加载配置，并展开 ${NAME:default} 占位符
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(Expand(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

var placeholder = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)(?::([^}]*))?\}`)

// Expand 使用 TECHRADAR_ 前缀的环境变量替换占位符，与 kratos env source 的行为一致
func Expand(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		if v, ok := os.LookupEnv(EnvPrefix + sub[1]); ok {
			return v
		}
		return sub[2]
	})
}

// Duration 解析时长字符串，为空或非法时返回 def
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func setString(p *string, def string) {
	if *p == "" {
		*p = def
	}
}

func setInt(p *int, def int) {
	if *p <= 0 {
		*p = def
	}
}
