// Package tally 统计公司名称出现次数。
package tally

import (
	"sort"

	"github.com/iWorld-y/tech_radar/pkg/model"
)

// Tally 按首次出现顺序记录名称及其计数，不是并发安全的
type Tally struct {
	order  []string
	counts map[string]int
}

// New 创建空的计数器
func New() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add 名称计数加一
func (t *Tally) Add(name string) {
	t.AddN(name, 1)
}

// AddN 名称计数增加 n，n 小于 1 时忽略
func (t *Tally) AddN(name string, n int) {
	if n < 1 || name == "" {
		return
	}
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name] += n
}

// Count 返回名称当前计数
func (t *Tally) Count(name string) int {
	return t.counts[name]
}

// Len 不同名称的数量
func (t *Tally) Len() int {
	return len(t.order)
}

// Total 全部计数之和
func (t *Tally) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Mentions 按首次出现顺序返回列表
func (t *Tally) Mentions() []model.Mention {
	out := make([]model.Mention, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, model.Mention{Name: name, Count: t.counts[name]})
	}
	return out
}

// SortByCount 按计数从高到低排序，计数相同时保持原有顺序
func SortByCount(mentions []model.Mention) {
	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].Count > mentions[j].Count
	})
}
