package store

import (
	"context"
	"testing"
	"time"

	"swagplan/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDBStore(t *testing.T) (*DBStore, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewDBStore(db), mock
}

func TestDBStoreLoadMissingRow(t *testing.T) {
	s, mock := newMockDBStore(t)
	mock.ExpectQuery(`SELECT \* FROM "swagplan_documents?" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "updated_at"}))

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Activities)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBStoreLoadDecodesBody(t *testing.T) {
	s, mock := newMockDBStore(t)
	body := `{"activities":[{"id":"a1","title":"Quiz","date":"2024-03-01","status":"planned","responsible":null,"participants":[],"notes":""}],"users":[{"id":"u1","name":"Ada"}]}`
	mock.ExpectQuery(`SELECT \* FROM "swagplan_documents?" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "updated_at"}).AddRow(1, []byte(body), time.Now()))

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Activities, 1)
	assert.Equal(t, "Quiz", doc.Activities[0].Title)
	assert.Equal(t, models.StatusPlanned, doc.Activities[0].Status)
	assert.Equal(t, "Ada", doc.Users[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBStoreSaveUpserts(t *testing.T) {
	s, mock := newMockDBStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "swagplan_documents?" .*ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.Save(context.Background(), models.NewDocument())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
