// This file defines the News model and its MySQL repository.  News rows
// carry the shared content lifecycle (draft/published/archived) plus the
// article payload: body content, a display date and a serialized tag list.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/regadio/regadio-api/internal/content"
)

// News mirrors the 'news' table.  Tags are stored as a JSON array in a TEXT
// column and unpacked on scan.
type News struct {
	ID          uint64    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	Date        string    `json:"date"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewsUpdate is a partial update: only non-nil fields are written.  Slug is
// set by the caller when the title changes, never directly by clients.
type NewsUpdate struct {
	Slug        *string
	Title       *string
	Description *string
	Content     *string
	ImageURL    *string
	Category    *string
	Author      *string
	Date        *string
	Tags        *[]string
	Status      *string
}

// Empty reports whether the update carries no fields at all.
func (u NewsUpdate) Empty() bool {
	return u.Slug == nil && u.Title == nil && u.Description == nil &&
		u.Content == nil && u.ImageURL == nil && u.Category == nil &&
		u.Author == nil && u.Date == nil && u.Tags == nil && u.Status == nil
}

// ErrNewsNotFound indicates that a news article was not located in the DB.
var ErrNewsNotFound = errors.New("news not found")

// NewsRepo manages persistence for news articles.
type NewsRepo struct {
	db *sql.DB
}

// NewNewsRepo constructs a NewsRepo with the given DB handle.
func NewNewsRepo(db *sql.DB) *NewsRepo {
	return &NewsRepo{db: db}
}

const newsColumns = "id, slug, title, description, content, image_url, category, author, date, tags, status, created_by, created_at, updated_at"

// scanNews reads one news row, unpacking the serialized tag list.
func scanNews(row interface{ Scan(...any) error }) (*News, error) {
	var n News
	var tags string
	err := row.Scan(&n.ID, &n.Slug, &n.Title, &n.Description, &n.Content,
		&n.ImageURL, &n.Category, &n.Author, &n.Date, &tags,
		&n.Status, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.Tags = decodeTags(tags)
	return &n, nil
}

func decodeTags(raw string) []string {
	out := []string{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &out)
	}
	return out
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

// List returns news ordered newest-created first.  An empty status returns
// every article; otherwise rows are filtered to the given status.  Callers
// are responsible for pinning unprivileged requests to 'published'.
func (r *NewsRepo) List(ctx context.Context, status string) ([]News, error) {
	q := "SELECT " + newsColumns + " FROM news"
	var args []any
	if status != "" {
		q += " WHERE status = ?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves an article by its ID.  It returns ErrNewsNotFound if
// there is no matching row.
func (r *NewsRepo) GetByID(ctx context.Context, id uint64) (*News, error) {
	n, err := scanNews(r.db.QueryRowContext(ctx,
		"SELECT "+newsColumns+" FROM news WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNewsNotFound
	}
	return n, err
}

// GetBySlug retrieves a published article by its slug.  Slugs are the
// public-facing lookup key, so unpublished articles never resolve here.
func (r *NewsRepo) GetBySlug(ctx context.Context, slug string) (*News, error) {
	n, err := scanNews(r.db.QueryRowContext(ctx,
		"SELECT "+newsColumns+" FROM news WHERE slug = ? AND status = ?",
		slug, content.StatusPublished))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNewsNotFound
	}
	return n, err
}

// Create inserts a new article and re-reads the row so DB defaults and
// timestamps are populated on the given struct.  A slug collision returns
// ErrSlugExists.
func (r *NewsRepo) Create(ctx context.Context, n *News) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO news (slug, title, description, content, image_url, category, author, date, tags, status, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.Slug, n.Title, n.Description, n.Content, n.ImageURL,
		n.Category, n.Author, n.Date, encodeTags(n.Tags), n.Status, n.CreatedBy)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*n = *fresh
	return nil
}

// Update applies a partial update and returns the fresh row.  An update with
// no fields is rejected with ErrNoFieldsToUpdate before touching the DB.
func (r *NewsRepo) Update(ctx context.Context, id uint64, upd NewsUpdate) (*News, error) {
	if upd.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	set := ""
	var args []any
	add := func(col string, v any) {
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, v)
	}
	if upd.Slug != nil {
		add("slug", *upd.Slug)
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Author != nil {
		add("author", *upd.Author)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.Tags != nil {
		add("tags", encodeTags(*upd.Tags))
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, "UPDATE news SET "+set+" WHERE id = ?", args...); err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes an article.  It returns ErrNewsNotFound when no row matched.
func (r *NewsRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM news WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNewsNotFound
	}
	return nil
}
