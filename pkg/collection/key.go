// Package collection 负责根据日期与技术名称生成文档数据库中的集合名称。
package collection

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout 集合名称中的日期格式
const DateLayout = "20060102"

// PredictionSuffix 公司统计结果集合的后缀
const PredictionSuffix = "_prediction"

var namePattern = regexp.MustCompile(`^(\d{8})_(.+)$`)

// Slug 将技术名称转为小写并以下划线替换空格
func Slug(technology string) string {
	return strings.ReplaceAll(strings.ToLower(technology), " ", "_")
}

// Key 返回文章缓存集合名称 {date}_{technology}
func Key(date time.Time, technology string) string {
	return date.Format(DateLayout) + "_" + Slug(technology)
}

// PredictionKey 返回公司统计集合名称 {date}_{technology}_prediction
func PredictionKey(date time.Time, technology string) string {
	return Key(date, technology) + PredictionSuffix
}

// Name 解析后的集合名称
type Name struct {
	Date       time.Time
	Slug       string
	Prediction bool
}

// String 重新组装集合名称
func (n Name) String() string {
	s := n.Date.Format(DateLayout) + "_" + n.Slug
	if n.Prediction {
		s += PredictionSuffix
	}
	return s
}

// Parse 将集合名称还原为日期与技术 slug。
// 以 _prediction 结尾的名称总是解析为统计集合，因此名称以 " prediction" 结尾的技术无法还原。
func Parse(name string) (Name, error) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return Name{}, fmt.Errorf("invalid collection name %q", name)
	}
	date, err := time.Parse(DateLayout, m[1])
	if err != nil {
		return Name{}, fmt.Errorf("invalid collection date %q: %w", m[1], err)
	}

	n := Name{Date: date, Slug: m[2]}
	if rest, ok := strings.CutSuffix(n.Slug, PredictionSuffix); ok && rest != "" {
		n.Slug = rest
		n.Prediction = true
	}
	return n, nil
}
