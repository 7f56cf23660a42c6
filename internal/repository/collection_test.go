package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestCollection_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	coll := NewCollection[model.Tag](db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `tags` WHERE id = ?")).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id.String(), "golang"))

	tag, err := coll.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, tag.ID)
	assert.Equal(t, "golang", tag.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	coll := NewCollection[model.Tag](db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `tags` WHERE id = ?")).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := coll.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCollection_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	coll := NewCollection[model.Tag](db)

	id := uuid.New()
	// soft delete runs as an UPDATE on deleted_at
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tags` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := coll.Delete(context.Background(), id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	coll := NewCollection[model.Tag](db)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tags` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := coll.Delete(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_FindMany_NoFeatures(t *testing.T) {
	db, mock := newMockDB(t)
	coll := NewCollection[model.Tag](db)

	mock.ExpectQuery("SELECT (.+) FROM `tags`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(uuid.NewString(), "golang").
			AddRow(uuid.NewString(), "devops"))

	tags, err := coll.FindMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
