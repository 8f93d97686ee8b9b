// In-memory store adapters.  These implement the same contracts as the
// MySQL repositories and back the handler tests; they also serve as the
// drop-in backend for deployments without a relational database.
package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/regadio/regadio-api/internal/content"
	"github.com/regadio/regadio-api/internal/utils"
)

// MemoryUserStore keeps users in a map guarded by a mutex.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[uint64]User{}}
}

func (s *MemoryUserStore) Create(_ context.Context, email, name, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return 0, ErrEmailExists
		}
	}
	s.nextID++
	now := time.Now().UTC()
	s.users[s.nextID] = User{
		ID: s.nextID, Email: email, Name: name, PasswordHash: hash,
		Role: role, CreatedAt: now, UpdatedAt: now,
	}
	return s.nextID, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uint64) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return User{}, ErrUserNotFound
}

// MemoryNewsStore keeps news articles in a map guarded by a mutex.
type MemoryNewsStore struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]News
}

func NewMemoryNewsStore() *MemoryNewsStore {
	return &MemoryNewsStore{items: map[uint64]News{}}
}

func (s *MemoryNewsStore) List(_ context.Context, status string) ([]News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []News{}
	for _, n := range s.items {
		if status == "" || n.Status == status {
			result = append(result, n)
		}
	}
	sortNewestFirst(result, func(n News) (time.Time, uint64) { return n.CreatedAt, n.ID })
	return result, nil
}

func (s *MemoryNewsStore) GetByID(_ context.Context, id uint64) (*News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.items[id]; ok {
		out := n
		return &out, nil
	}
	return nil, ErrNewsNotFound
}

func (s *MemoryNewsStore) GetBySlug(_ context.Context, slug string) (*News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.Slug == slug && n.Status == content.StatusPublished {
			out := n
			return &out, nil
		}
	}
	return nil, ErrNewsNotFound
}

func (s *MemoryNewsStore) Create(_ context.Context, n *News) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Slug == n.Slug {
			return ErrSlugExists
		}
	}
	s.nextID++
	n.ID = s.nextID
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.Tags == nil {
		n.Tags = []string{}
	}
	s.items[n.ID] = *n
	return nil
}

func (s *MemoryNewsStore) Update(_ context.Context, id uint64, upd NewsUpdate) (*News, error) {
	if upd.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok {
		return nil, ErrNewsNotFound
	}
	if upd.Slug != nil {
		for _, existing := range s.items {
			if existing.ID != id && existing.Slug == *upd.Slug {
				return nil, ErrSlugExists
			}
		}
		n.Slug = *upd.Slug
	}
	if upd.Title != nil {
		n.Title = *upd.Title
	}
	if upd.Description != nil {
		n.Description = *upd.Description
	}
	if upd.Content != nil {
		n.Content = *upd.Content
	}
	if upd.ImageURL != nil {
		n.ImageURL = *upd.ImageURL
	}
	if upd.Category != nil {
		n.Category = *upd.Category
	}
	if upd.Author != nil {
		n.Author = *upd.Author
	}
	if upd.Date != nil {
		n.Date = *upd.Date
	}
	if upd.Tags != nil {
		n.Tags = *upd.Tags
	}
	if upd.Status != nil {
		n.Status = *upd.Status
	}
	n.UpdatedAt = time.Now().UTC()
	s.items[id] = n
	out := n
	return &out, nil
}

func (s *MemoryNewsStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNewsNotFound
	}
	delete(s.items, id)
	return nil
}

// MemoryProjectStore keeps projects and their galleries in maps guarded by
// one mutex.
type MemoryProjectStore struct {
	mu     sync.Mutex
	nextID uint64
	imgID  uint64
	items  map[uint64]Project
	images map[uint64][]ProjectImage
}

func NewMemoryProjectStore() *MemoryProjectStore {
	return &MemoryProjectStore{
		items:  map[uint64]Project{},
		images: map[uint64][]ProjectImage{},
	}
}

func (s *MemoryProjectStore) List(_ context.Context, status string) ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []Project{}
	for _, p := range s.items {
		if status == "" || p.Status == status {
			p.Images = s.gallery(p.ID)
			result = append(result, p)
		}
	}
	sortNewestFirst(result, func(p Project) (time.Time, uint64) { return p.CreatedAt, p.ID })
	return result, nil
}

func (s *MemoryProjectStore) GetByID(_ context.Context, id uint64) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	p.Images = s.gallery(id)
	return &p, nil
}

func (s *MemoryProjectStore) Create(_ context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Slug == p.Slug {
			return ErrSlugExists
		}
	}
	s.nextID++
	p.ID = s.nextID
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Images = []ProjectImage{}
	s.items[p.ID] = *p
	return nil
}

func (s *MemoryProjectStore) Update(_ context.Context, id uint64, upd ProjectUpdate) (*Project, error) {
	if upd.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	if upd.Slug != nil {
		for _, existing := range s.items {
			if existing.ID != id && existing.Slug == *upd.Slug {
				return nil, ErrSlugExists
			}
		}
		p.Slug = *upd.Slug
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Location != nil {
		p.Location = *upd.Location
	}
	if upd.ProjectStatus != nil {
		p.ProjectStatus = *upd.ProjectStatus
	}
	if upd.Year != nil {
		p.Year = *upd.Year
	}
	if upd.Scope != nil {
		p.Scope = *upd.Scope
	}
	if upd.ImageURL != nil {
		p.ImageURL = *upd.ImageURL
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	p.UpdatedAt = time.Now().UTC()
	s.items[id] = p
	p.Images = s.gallery(id)
	return &p, nil
}

func (s *MemoryProjectStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrProjectNotFound
	}
	delete(s.items, id)
	delete(s.images, id) // gallery goes with the project
	return nil
}

func (s *MemoryProjectStore) Images(_ context.Context, projectID uint64) ([]ProjectImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[projectID]; !ok {
		return nil, ErrProjectNotFound
	}
	return s.gallery(projectID), nil
}

func (s *MemoryProjectStore) ReplaceImages(_ context.Context, projectID uint64, urls []string) ([]ProjectImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[projectID]; !ok {
		return nil, ErrProjectNotFound
	}
	imgs := make([]ProjectImage, 0, len(urls))
	for i, u := range urls {
		s.imgID++
		imgs = append(imgs, ProjectImage{
			ID: s.imgID, ProjectID: projectID, ImageURL: u, OrderIndex: i,
		})
	}
	s.images[projectID] = imgs
	return s.gallery(projectID), nil
}

// gallery returns a copy of a project's image list.  Caller holds the lock.
func (s *MemoryProjectStore) gallery(projectID uint64) []ProjectImage {
	imgs := s.images[projectID]
	out := make([]ProjectImage, len(imgs))
	copy(out, imgs)
	return out
}

// sortNewestFirst orders items by creation time descending, breaking ties by
// id descending, matching the SQL adapters' ORDER BY.
func sortNewestFirst[T any](items []T, key func(T) (time.Time, uint64)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, ii := key(items[i])
		tj, ij := key(items[j])
		if ti.Equal(tj) {
			return ii > ij
		}
		return ti.After(tj)
	})
}
