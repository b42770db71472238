package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finoteselam-court/court-portal-api/internal/models"
)

var announcementRowColumns = []string{"id", "title_en", "title_am", "content_en", "content_am", "is_published", "published_at", "created_at", "updated_at"}

func TestAnnouncementListPublishedOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(announcementRowColumns).
		AddRow("a1", "Closure", "መዘጋት", "Closed Friday", "አርብ ዝግ", true, now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM announcements WHERE is_published = TRUE ORDER BY published_at DESC")).
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), models.AnnouncementFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "መዘጋት", items[0].TitleAM)
	require.NotNil(t, items[0].PublishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementListAllIncludesDrafts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(announcementRowColumns).
		AddRow("a2", "Draft", "ረቂቅ", "", "", false, nil, now, now).
		AddRow("a1", "Closure", "መዘጋት", "", "", true, now, now.Add(-time.Hour), now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM announcements ORDER BY created_at DESC")).
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].PublishedAt)
	assert.False(t, items[0].IsPublished)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementListEmptyIsNotNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery("FROM announcements").WillReturnRows(sqlmock.NewRows(announcementRowColumns))

	items, err := repo.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAnnouncementInsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("INSERT INTO announcements").
		WithArgs(sqlmock.AnyArg(), "Closure", "መዘጋት", "", "", false, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.Insert(context.Background(), models.AnnouncementFields{TitleEN: "Closure", TitleAM: "መዘጋት"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE announcements SET title_en = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), "gone", models.AnnouncementFields{TitleEN: "x", TitleAM: "y"})
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcements WHERE id = $1")).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcements WHERE id = $1")).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "a1"))
	assert.True(t, IsNotFound(repo.Delete(context.Background(), "a1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery("FROM announcements WHERE id").WithArgs("gone").WillReturnRows(sqlmock.NewRows(announcementRowColumns))

	_, err := repo.GetByID(context.Background(), "gone")
	assert.True(t, IsNotFound(err))
}

func TestAnnouncementStats(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE is_published)")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "published"}).AddRow(5, 3))

	total, published, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 3, published)
}
