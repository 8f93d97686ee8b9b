package repository

import "context"

// The store interfaces define one persistence contract per resource.  The
// MySQL repositories in this package are the primary adapters; the in-memory
// stores are the second adapter and double as the test fixture, so the
// lifecycle and validation rules above them are written and exercised once.

// UserStore persists principals and resolves them for authentication.
type UserStore interface {
	Create(ctx context.Context, email, name, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uint64) (User, error)
}

// NewsStore persists news articles.
type NewsStore interface {
	List(ctx context.Context, status string) ([]News, error)
	GetByID(ctx context.Context, id uint64) (*News, error)
	GetBySlug(ctx context.Context, slug string) (*News, error)
	Create(ctx context.Context, n *News) error
	Update(ctx context.Context, id uint64, upd NewsUpdate) (*News, error)
	Delete(ctx context.Context, id uint64) error
}

// ProjectStore persists projects and their ordered image galleries.
type ProjectStore interface {
	List(ctx context.Context, status string) ([]Project, error)
	GetByID(ctx context.Context, id uint64) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, id uint64, upd ProjectUpdate) (*Project, error)
	Delete(ctx context.Context, id uint64) error
	Images(ctx context.Context, projectID uint64) ([]ProjectImage, error)
	ReplaceImages(ctx context.Context, projectID uint64, urls []string) ([]ProjectImage, error)
}
