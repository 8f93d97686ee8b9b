package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regadio/regadio-api/internal/content"
)

func projectRow(id uint64, slug, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "slug", "title", "category", "description", "location",
		"project_status", "year", "scope", "image_url", "status",
		"created_by", "created_at", "updated_at",
	}).AddRow(id, slug, "Title", "residential", "Desc", "Accra",
		"ongoing", "2026", "full build", "", status, 1, now, now)
}

func imageRows(projectID uint64, urls ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "project_id", "image_url", "order_index"})
	for i, u := range urls {
		rows.AddRow(uint64(i+1), projectID, u, i)
	}
	return rows
}

func TestProjectRepoGetByIDWithGallery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+projectColumns+" FROM projects WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(projectRow(3, "harbor-view", content.StatusPublished))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, project_id, image_url, order_index FROM project_images WHERE project_id = ? ORDER BY order_index ASC")).
		WithArgs(uint64(3)).
		WillReturnRows(imageRows(3, "/a.jpg", "/b.jpg"))

	p, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, p.Images, 2)
	assert.Equal(t, 0, p.Images[0].OrderIndex)
	assert.Equal(t, "/b.jpg", p.Images[1].ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepoListAttachesGalleries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepo(db)

	rows := projectRow(2, "second", content.StatusPublished)
	rows.AddRow(uint64(1), "first", "Title", "residential", "Desc", "Accra",
		"ongoing", "2026", "full build", "", content.StatusPublished, 1,
		time.Now().UTC(), time.Now().UTC())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+projectColumns+" FROM projects WHERE status = ? ORDER BY created_at DESC, id DESC")).
		WithArgs(content.StatusPublished).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, project_id, image_url, order_index FROM project_images WHERE project_id IN (?,?) ORDER BY project_id, order_index ASC")).
		WithArgs(uint64(2), uint64(1)).
		WillReturnRows(imageRows(2, "/only.jpg"))

	items, err := repo.List(context.Background(), content.StatusPublished)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Len(t, items[0].Images, 1)
	assert.Empty(t, items[1].Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepoReplaceImages(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM projects WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM project_images WHERE project_id = ?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO project_images (project_id, image_url, order_index) VALUES (?, ?, ?),(?, ?, ?)")).
		WithArgs(uint64(3), "/new-1.jpg", 0, uint64(3), "/new-2.jpg", 1).
		WillReturnResult(sqlmock.NewResult(10, 2))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, project_id, image_url, order_index FROM project_images WHERE project_id = ? ORDER BY order_index ASC")).
		WithArgs(uint64(3)).
		WillReturnRows(imageRows(3, "/new-1.jpg", "/new-2.jpg"))

	imgs, err := repo.ReplaceImages(context.Background(), 3, []string{"/new-1.jpg", "/new-2.jpg"})
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.Equal(t, "/new-1.jpg", imgs[0].ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepoReplaceImagesMissingProject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM projects WHERE id = ?")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err = repo.ReplaceImages(context.Background(), 404, []string{"/x.jpg"})
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepoDeleteRemovesGalleryFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM project_images WHERE project_id = ?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM project_images WHERE project_id = ?")).
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects WHERE id = ?")).
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), 404), ErrProjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
