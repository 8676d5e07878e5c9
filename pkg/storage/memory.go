package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/iWorld-y/tech_radar/pkg/model"
)

// MemoryStore 进程内存储，用于测试与无数据库运行
type MemoryStore struct {
	mu       sync.RWMutex
	articles map[string][]model.Article
	mentions map[string][]model.Mention
}

// NewMemoryStore 创建空的内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles: make(map[string][]model.Article),
		mentions: make(map[string][]model.Mention),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) HasCollection(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, a := s.articles[name]
	_, m := s.mentions[name]
	return a || m, nil
}

func (s *MemoryStore) Articles(_ context.Context, name string) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Article(nil), s.articles[name]...), nil
}

func (s *MemoryStore) CountArticles(_ context.Context, name string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.articles[name])), nil
}

func (s *MemoryStore) InsertArticles(_ context.Context, name string, articles []model.Article) error {
	if len(articles) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[name] = append(s.articles[name], articles...)
	return nil
}

func (s *MemoryStore) Mentions(_ context.Context, name string) ([]model.Mention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Mention(nil), s.mentions[name]...), nil
}

func (s *MemoryStore) InsertMentions(_ context.Context, name string, mentions []model.Mention) error {
	if len(mentions) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mentions[name] = append(s.mentions[name], mentions...)
	return nil
}

func (s *MemoryStore) CollectionNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.articles)+len(s.mentions))
	for n := range s.articles {
		names = append(names, n)
	}
	for n := range s.mentions {
		if _, dup := s.articles[n]; !dup {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
