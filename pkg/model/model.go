package model

import (
	"strings"
	"time"
)

// NoTechnology 侧边栏未选择技术时的占位值
const NoTechnology = "-"

// Selection 用户在侧边栏选择的技术类别、子领域与日期
type Selection struct {
	Category string
	Subfield string
	Date     time.Time
}

// Technology 返回用于查询与缓存键的技术名称，优先使用子领域
func (s Selection) Technology() string {
	sub := strings.TrimSpace(s.Subfield)
	if sub != "" && sub != NoTechnology {
		return sub
	}
	return strings.TrimSpace(s.Category)
}

// Empty 是否尚未选择技术
func (s Selection) Empty() bool {
	t := s.Technology()
	return t == "" || t == NoTechnology
}

// Article 新闻接口返回的文章，仅作为缓存文档保存
type Article struct {
	ArticleID     string  `bson:"article_id,omitempty" json:"article_id,omitempty"`
	Title         string  `bson:"title" json:"title"`
	Author        string  `bson:"author,omitempty" json:"author,omitempty"`
	Link          string  `bson:"link" json:"link"`
	CleanURL      string  `bson:"clean_url,omitempty" json:"clean_url,omitempty"`
	PublishedDate string  `bson:"published_date,omitempty" json:"published_date,omitempty"`
	Language      string  `bson:"language,omitempty" json:"language,omitempty"`
	Excerpt       string  `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Topic         string  `bson:"topic,omitempty" json:"topic,omitempty"`
	Country       string  `bson:"country,omitempty" json:"country,omitempty"`
	Score         float64 `bson:"score,omitempty" json:"score,omitempty"`
}

// Mention 公司名称及其在文章中出现的次数
type Mention struct {
	Name  string `bson:"Name" json:"Name"`
	Count int    `bson:"Count" json:"Count"`
}

// Result 一次分析的输出
type Result struct {
	Selection    Selection
	Collection   string
	ArticleCount int
	Companies    []Mention
	// Cached 为 true 表示公司列表来自已有的 prediction 集合
	Cached bool
}
