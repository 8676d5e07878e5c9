package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/tech_radar/pkg/model"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLStore(sqlx.NewDb(db, "postgres")), mock
}

func TestSQLStore_HasCollection(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM radar_collections WHERE name = $1`)).
		WithArgs("20220704_lasers").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := s.HasCollection(context.Background(), "20220704_lasers")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_InsertMentions(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO radar_collections (name, created_at) VALUES ($1, $2)`)).
		WithArgs("20220704_lasers_prediction", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(position), -1) FROM radar_documents WHERE collection = $1`)).
		WithArgs("20220704_lasers_prediction").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(-1))
	mock.ExpectExec(`INSERT INTO radar_documents`).
		WithArgs(sqlmock.AnyArg(), "20220704_lasers_prediction", 0, `{"Name":"Coherent","Count":3}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO radar_documents`).
		WithArgs(sqlmock.AnyArg(), "20220704_lasers_prediction", 1, `{"Name":"IPG","Count":1}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.InsertMentions(context.Background(), "20220704_lasers_prediction", []model.Mention{
		{Name: "Coherent", Count: 3}, {Name: "IPG", Count: 1},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_InsertRollback(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO radar_collections`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.InsertArticles(context.Background(), "k", []model.Article{{Title: "t"}})
	assert.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Mentions(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM radar_documents WHERE collection = $1 ORDER BY position`)).
		WithArgs("k_prediction").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow(`{"Name":"Intel","Count":2}`).
			AddRow(`{"Name":"AMD","Count":2}`))

	got, err := s.Mentions(context.Background(), "k_prediction")
	require.NoError(t, err)
	assert.Equal(t, []model.Mention{{Name: "Intel", Count: 2}, {Name: "AMD", Count: 2}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
