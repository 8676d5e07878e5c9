// Package ner 定义命名实体识别接口，具体实现见 llm 与 spacy 子包。
package ner

import (
	"context"
	"strings"
)

// LabelOrganization spaCy 风格的组织机构标签
const LabelOrganization = "ORG"

// Entity 文本中的一个实体片段，Start/End 为 rune 偏移，未知时为 -1
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Recognizer 从原始文本中识别带标签的实体
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// Filter 返回标签为 label 的实体，比较不区分大小写
func Filter(entities []Entity, label string) []Entity {
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if strings.EqualFold(e.Label, label) && strings.TrimSpace(e.Text) != "" {
			out = append(out, e)
		}
	}
	return out
}

// Truncate 按 rune 截断文本，max <= 0 表示不截断
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max])
}
