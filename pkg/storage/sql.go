package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/tech_radar/pkg/model"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS radar_collections (
		name TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS radar_documents (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		position INTEGER NOT NULL,
		body TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS radar_documents_collection_idx ON radar_documents (collection, position)`,
}

// SQLStore 在关系数据库上模拟集合，文档以 JSON 保存
type SQLStore struct {
	db *sqlx.DB
}

// OpenSQLStore 打开 postgres 或 sqlite 并建表
func OpenSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// :memory: 数据库每个连接独立
		db.SetMaxOpenConns(1)
	}

	s := NewSQLStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore 使用已打开的连接
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

var _ Store = (*SQLStore)(nil)

// Migrate 创建所需的表
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) HasCollection(ctx context.Context, name string) (bool, error) {
	var n int
	q := s.db.Rebind(`SELECT COUNT(*) FROM radar_collections WHERE name = ?`)
	if err := s.db.GetContext(ctx, &n, q, name); err != nil {
		return false, fmt.Errorf("lookup collection %s: %w", name, err)
	}
	return n > 0, nil
}

func (s *SQLStore) Articles(ctx context.Context, name string) ([]model.Article, error) {
	return selectDocuments[model.Article](ctx, s.db, name)
}

func (s *SQLStore) CountArticles(ctx context.Context, name string) (int64, error) {
	var n int64
	q := s.db.Rebind(`SELECT COUNT(*) FROM radar_documents WHERE collection = ?`)
	if err := s.db.GetContext(ctx, &n, q, name); err != nil {
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

func (s *SQLStore) InsertArticles(ctx context.Context, name string, articles []model.Article) error {
	return insertDocuments(ctx, s.db, name, articles)
}

func (s *SQLStore) Mentions(ctx context.Context, name string) ([]model.Mention, error) {
	return selectDocuments[model.Mention](ctx, s.db, name)
}

func (s *SQLStore) InsertMentions(ctx context.Context, name string, mentions []model.Mention) error {
	return insertDocuments(ctx, s.db, name, mentions)
}

func (s *SQLStore) CollectionNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT name FROM radar_collections ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

func (s *SQLStore) Close(context.Context) error {
	return s.db.Close()
}

func selectDocuments[T any](ctx context.Context, db *sqlx.DB, name string) ([]T, error) {
	var bodies []string
	q := db.Rebind(`SELECT body FROM radar_documents WHERE collection = ? ORDER BY position`)
	if err := db.SelectContext(ctx, &bodies, q, name); err != nil {
		return nil, fmt.Errorf("find %s: %w", name, err)
	}

	out := make([]T, 0, len(bodies))
	for _, b := range bodies {
		var doc T
		if err := json.Unmarshal([]byte(b), &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func insertDocuments[T any](ctx context.Context, db *sqlx.DB, name string, docs []T) (err error) {
	if len(docs) == 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = fmt.Errorf("%w: %v", err, rerr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO radar_collections (name, created_at) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`),
		name, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}

	var last int
	if err = tx.GetContext(ctx, &last,
		tx.Rebind(`SELECT COALESCE(MAX(position), -1) FROM radar_documents WHERE collection = ?`), name,
	); err != nil {
		return fmt.Errorf("lookup position %s: %w", name, err)
	}

	insert := tx.Rebind(`INSERT INTO radar_documents (id, collection, position, body) VALUES (?, ?, ?, ?)`)
	for i, doc := range docs {
		body, merr := json.Marshal(doc)
		if merr != nil {
			err = fmt.Errorf("encode %s: %w", name, merr)
			return err
		}
		if _, err = tx.ExecContext(ctx, insert, uuid.NewString(), name, last+1+i, string(body)); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}

	return tx.Commit()
}
