package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/regadio/regadio-api/internal/auth"
	"github.com/regadio/regadio-api/internal/config"
	"github.com/regadio/regadio-api/internal/content"
	"github.com/regadio/regadio-api/internal/middleware"
	"github.com/regadio/regadio-api/internal/queue"
	"github.com/regadio/regadio-api/internal/repository"
)

// NewsHandler bundles dependencies for the news endpoints.
type NewsHandler struct {
	Cfg    config.Config
	Store  repository.NewsStore
	Events *queue.Publisher
	Cache  *middleware.CacheBuster
}

func NewNewsHandler(cfg config.Config, store repository.NewsStore, events *queue.Publisher, cache *middleware.CacheBuster) *NewsHandler {
	return &NewsHandler{Cfg: cfg, Store: store, Events: events, Cache: cache}
}

type createNewsReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category"`
	Author      string   `json:"author"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

type updateNewsReq struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Content     *string   `json:"content"`
	ImageURL    *string   `json:"image_url"`
	Category    *string   `json:"category"`
	Author      *string   `json:"author"`
	Date        *string   `json:"date"`
	Tags        *[]string `json:"tags"`
	Status      *string   `json:"status"`
}

// List handles GET /api/news.  Anonymous and viewer callers only ever see
// published articles no matter what the query string says; editors and
// admins see everything by default and may narrow with ?status=.
func (h *NewsHandler) List(c echo.Context) error {
	priv := privileged(c)
	status := content.EffectiveFilter(priv, strings.TrimSpace(c.QueryParam("status")))
	if priv && status != "" && !content.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	items, err := h.Store.List(ctx, status)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetByID handles GET /api/news/:id.  Unpublished articles are only visible
// to privileged callers; everyone else gets the same 404 as a missing id.
func (h *NewsHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	n, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return internalError(c, err)
	}
	if !content.VisibleTo(privileged(c), n.Status) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
	}
	return c.JSON(http.StatusOK, n)
}

// GetBySlug handles GET /api/news/slug/:slug.  Slugs are the public lookup
// key: only published articles resolve.
func (h *NewsHandler) GetBySlug(c echo.Context) error {
	ctx, cancel := dbTimeout(c)
	defer cancel()

	n, err := h.Store.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

// Create handles POST /api/news (write permission).  The slug is derived
// from the title; a collision with an existing article is a 409.  Items
// start as drafts unless the caller holds publish permission and explicitly
// asks for another status.
func (h *NewsHandler) Create(c echo.Context) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
	}
	var req createNewsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.Date) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields: title, content, date"})
	}

	status := req.Status
	if status == "" {
		status = content.StatusDraft
	}
	if !content.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if status != content.StatusDraft && !auth.HasPermission(p.Role, auth.ActionPublish) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	slug := content.Slugify(req.Title)
	if slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must contain alphanumeric characters"})
	}

	n := &repository.News{
		Slug:        slug,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Author:      req.Author,
		Date:        req.Date,
		Tags:        req.Tags,
		Status:      status,
		CreatedBy:   p.ID,
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	if err := h.Store.Create(ctx, n); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "News with this slug already exists"})
		}
		return internalError(c, err)
	}

	h.Cache.Bust(ctx)
	emitEvent(h.Events, queue.ContentEvent{
		Variant: queue.VariantNews, Action: queue.ActionCreated,
		ItemID: n.ID, Slug: n.Slug, Title: n.Title, Status: n.Status, ActorID: p.ID,
	})
	return c.JSON(http.StatusCreated, n)
}

// Update handles PUT /api/news/:id (write permission).  Only fields present
// in the body change; an empty body is rejected.  A title change re-derives
// the slug.  Status changes additionally need publish permission and a legal
// transition.
func (h *NewsHandler) Update(c echo.Context) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateNewsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	upd := repository.NewsUpdate{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Author:      req.Author,
		Date:        req.Date,
		Tags:        req.Tags,
		Status:      req.Status,
	}
	if upd.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No fields to update"})
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	current, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return internalError(c, err)
	}

	transitioned := false
	if req.Status != nil && *req.Status != current.Status {
		if !content.ValidStatus(*req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		if !auth.HasPermission(p.Role, auth.ActionPublish) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if !content.CanTransition(current.Status, *req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status transition"})
		}
		transitioned = true
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must not be empty"})
		}
		slug := content.Slugify(title)
		if slug == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must contain alphanumeric characters"})
		}
		upd.Title = &title
		upd.Slug = &slug
	}

	fresh, err := h.Store.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSlugExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "News with this slug already exists"})
		case errors.Is(err, repository.ErrNewsNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		case errors.Is(err, repository.ErrNoFieldsToUpdate):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "No fields to update"})
		}
		return internalError(c, err)
	}

	h.Cache.Bust(ctx)
	if transitioned {
		action := queue.ActionPublished
		if fresh.Status == content.StatusArchived {
			action = queue.ActionArchived
		}
		emitEvent(h.Events, queue.ContentEvent{
			Variant: queue.VariantNews, Action: action,
			ItemID: fresh.ID, Slug: fresh.Slug, Title: fresh.Title, Status: fresh.Status, ActorID: p.ID,
		})
	}
	return c.JSON(http.StatusOK, fresh)
}

// Delete handles DELETE /api/news/:id (delete permission).
func (h *NewsHandler) Delete(c echo.Context) error {
	p, _ := currentPrincipal(c)
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	current, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return internalError(c, err)
	}
	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return internalError(c, err)
	}

	h.Cache.Bust(ctx)
	emitEvent(h.Events, queue.ContentEvent{
		Variant: queue.VariantNews, Action: queue.ActionDeleted,
		ItemID: current.ID, Slug: current.Slug, Title: current.Title, Status: current.Status, ActorID: p.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "News deleted successfully"})
}
