// This file defines the Project model, its ordered image gallery and the
// MySQL repository for both.  Projects share the content lifecycle with news
// but carry a different payload (location, category, scope, year).  A
// project owns its images: deletion cascades and the gallery is only ever
// replaced wholesale, never diffed.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Project mirrors the 'projects' table.  Images holds the gallery ordered by
// order_index and is populated by GetByID and List.
type Project struct {
	ID            uint64         `json:"id"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Category      string         `json:"category"`
	Description   string         `json:"description"`
	Location      string         `json:"location"`
	ProjectStatus string         `json:"project_status"`
	Year          string         `json:"year"`
	Scope         string         `json:"scope"`
	ImageURL      string         `json:"image_url"`
	Status        string         `json:"status"`
	CreatedBy     uint64         `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Images        []ProjectImage `json:"images"`
}

// ProjectImage mirrors the 'project_images' table.
type ProjectImage struct {
	ID         uint64 `json:"id"`
	ProjectID  uint64 `json:"project_id"`
	ImageURL   string `json:"image_url"`
	OrderIndex int    `json:"order_index"`
}

// ProjectUpdate is a partial update: only non-nil fields are written.
type ProjectUpdate struct {
	Slug          *string
	Title         *string
	Category      *string
	Description   *string
	Location      *string
	ProjectStatus *string
	Year          *string
	Scope         *string
	ImageURL      *string
	Status        *string
}

// Empty reports whether the update carries no fields at all.
func (u ProjectUpdate) Empty() bool {
	return u.Slug == nil && u.Title == nil && u.Category == nil &&
		u.Description == nil && u.Location == nil && u.ProjectStatus == nil &&
		u.Year == nil && u.Scope == nil && u.ImageURL == nil && u.Status == nil
}

// ErrProjectNotFound indicates that a project was not located in the DB.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepo manages persistence for projects and their galleries.
type ProjectRepo struct {
	db *sql.DB
}

// NewProjectRepo constructs a ProjectRepo with the given DB handle.
func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = "id, slug, title, category, description, location, project_status, year, scope, image_url, status, created_by, created_at, updated_at"

func scanProject(row interface{ Scan(...any) error }) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Category, &p.Description,
		&p.Location, &p.ProjectStatus, &p.Year, &p.Scope, &p.ImageURL,
		&p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Images = []ProjectImage{}
	return &p, nil
}

// List returns projects ordered newest-created first, each with its gallery
// attached.  An empty status returns every project.
func (r *ProjectRepo) List(ctx context.Context, status string) ([]Project, error) {
	q := "SELECT " + projectColumns + " FROM projects"
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

	result := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachImages(ctx, result)
}

// attachImages loads the galleries for a batch of projects in one query.
func (r *ProjectRepo) attachImages(ctx context.Context, projects []Project) ([]Project, error) {
	if len(projects) == 0 {
		return projects, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(projects)), ",")
	args := make([]any, 0, len(projects))
	index := make(map[uint64]int, len(projects))
	for i := range projects {
		args = append(args, projects[i].ID)
		index[projects[i].ID] = i
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, project_id, image_url, order_index FROM project_images WHERE project_id IN ("+placeholders+") ORDER BY project_id, order_index ASC",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var img ProjectImage
		if err := rows.Scan(&img.ID, &img.ProjectID, &img.ImageURL, &img.OrderIndex); err != nil {
			return nil, err
		}
		if i, ok := index[img.ProjectID]; ok {
			projects[i].Images = append(projects[i].Images, img)
		}
	}
	return projects, rows.Err()
}

// GetByID retrieves a project and its gallery.  It returns
// ErrProjectNotFound if there is no matching row.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (*Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	imgs, err := r.Images(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Images = imgs
	return p, nil
}

// Create inserts a new project and re-reads the row so DB defaults and
// timestamps are populated.  A slug collision returns ErrSlugExists.
func (r *ProjectRepo) Create(ctx context.Context, p *Project) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (slug, title, category, description, location, project_status, year, scope, image_url, status, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Category, p.Description, p.Location,
		p.ProjectStatus, p.Year, p.Scope, p.ImageURL, p.Status, p.CreatedBy)
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
	*p = *fresh
	return nil
}

// Update applies a partial update and returns the fresh row.  An update with
// no fields is rejected with ErrNoFieldsToUpdate before touching the DB.
func (r *ProjectRepo) Update(ctx context.Context, id uint64, upd ProjectUpdate) (*Project, error) {
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
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.ProjectStatus != nil {
		add("project_status", *upd.ProjectStatus)
	}
	if upd.Year != nil {
		add("year", *upd.Year)
	}
	if upd.Scope != nil {
		add("scope", *upd.Scope)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, "UPDATE projects SET "+set+" WHERE id = ?", args...); err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a project and its gallery in one transaction.  The FK
// cascade would cover the images on its own; the explicit delete keeps the
// invariant visible and the operation atomic regardless of schema drift.
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM project_images WHERE project_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProjectNotFound
	}
	return tx.Commit()
}

// Images returns a project's gallery ordered by order_index ascending.
func (r *ProjectRepo) Images(ctx context.Context, projectID uint64) ([]ProjectImage, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, project_id, image_url, order_index FROM project_images WHERE project_id = ? ORDER BY order_index ASC",
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []ProjectImage{}
	for rows.Next() {
		var img ProjectImage
		if err := rows.Scan(&img.ID, &img.ProjectID, &img.ImageURL, &img.OrderIndex); err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	return result, rows.Err()
}

// ReplaceImages swaps a project's gallery for the given ordered URLs.  The
// replace is all-or-nothing: existing rows are deleted and the new sequence
// inserted inside a single transaction, never a partial diff.
func (r *ProjectRepo) ReplaceImages(ctx context.Context, projectID uint64, urls []string) ([]ProjectImage, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// The project must exist before we touch its gallery.
	var exists uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM projects WHERE id = ?", projectID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM project_images WHERE project_id = ?", projectID); err != nil {
		return nil, err
	}
	if len(urls) > 0 {
		q := "INSERT INTO project_images (project_id, image_url, order_index) VALUES "
		args := make([]any, 0, len(urls)*3)
		for i, u := range urls {
			if i > 0 {
				q += ","
			}
			q += "(?, ?, ?)"
			args = append(args, projectID, u, i)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.Images(ctx, projectID)
}
