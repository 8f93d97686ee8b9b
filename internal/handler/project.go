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

// ProjectHandler bundles dependencies for the project endpoints.
type ProjectHandler struct {
	Cfg    config.Config
	Store  repository.ProjectStore
	Events *queue.Publisher
	Cache  *middleware.CacheBuster
}

func NewProjectHandler(cfg config.Config, store repository.ProjectStore, events *queue.Publisher, cache *middleware.CacheBuster) *ProjectHandler {
	return &ProjectHandler{Cfg: cfg, Store: store, Events: events, Cache: cache}
}

type createProjectReq struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	ProjectStatus string `json:"project_status"`
	Year          string `json:"year"`
	Scope         string `json:"scope"`
	ImageURL      string `json:"image_url"`
	Status        string `json:"status"`
}

type updateProjectReq struct {
	Title         *string `json:"title"`
	Category      *string `json:"category"`
	Description   *string `json:"description"`
	Location      *string `json:"location"`
	ProjectStatus *string `json:"project_status"`
	Year          *string `json:"year"`
	Scope         *string `json:"scope"`
	ImageURL      *string `json:"image_url"`
	Status        *string `json:"status"`
}

type replaceImagesReq struct {
	Images *[]string `json:"images"`
}

// List handles GET /api/projects.  Visibility follows the same rule as
// news: unprivileged callers are pinned to published projects.
func (h *ProjectHandler) List(c echo.Context) error {
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

// GetByID handles GET /api/projects/:id, returning the project with its
// gallery.  Unpublished projects 404 for unprivileged callers.
func (h *ProjectHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	p, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
		}
		return internalError(c, err)
	}
	if !content.VisibleTo(privileged(c), p.Status) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /api/projects (write permission).
func (h *ProjectHandler) Create(c echo.Context) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
	}
	var req createProjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Category) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields: title, category"})
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

	proj := &repository.Project{
		Slug:          slug,
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		Location:      req.Location,
		ProjectStatus: req.ProjectStatus,
		Year:          req.Year,
		Scope:         req.Scope,
		ImageURL:      req.ImageURL,
		Status:        status,
		CreatedBy:     p.ID,
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	if err := h.Store.Create(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Project with this slug already exists"})
		}
		return internalError(c, err)
	}

	h.Cache.Bust(ctx)
	emitEvent(h.Events, queue.ContentEvent{
		Variant: queue.VariantProject, Action: queue.ActionCreated,
		ItemID: proj.ID, Slug: proj.Slug, Title: proj.Title, Status: proj.Status, ActorID: p.ID,
	})
	return c.JSON(http.StatusCreated, proj)
}

// Update handles PUT /api/projects/:id (write permission).  Same partial
// semantics as news: present fields only, slug re-derived on title change,
// status changes gated by publish permission and transition legality.
func (h *ProjectHandler) Update(c echo.Context) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateProjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	upd := repository.ProjectUpdate{
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		Location:      req.Location,
		ProjectStatus: req.ProjectStatus,
		Year:          req.Year,
		Scope:         req.Scope,
		ImageURL:      req.ImageURL,
		Status:        req.Status,
	}
	if upd.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No fields to update"})
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	current, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
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
			return c.JSON(http.StatusConflict, echo.Map{"error": "Project with this slug already exists"})
		case errors.Is(err, repository.ErrProjectNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
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
			Variant: queue.VariantProject, Action: action,
			ItemID: fresh.ID, Slug: fresh.Slug, Title: fresh.Title, Status: fresh.Status, ActorID: p.ID,
		})
	}
	return c.JSON(http.StatusOK, fresh)
}

// Delete handles DELETE /api/projects/:id (delete permission).  The gallery
// goes with the project in the same transaction.
func (h *ProjectHandler) Delete(c echo.Context) error {
	p, _ := currentPrincipal(c)
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	current, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
		}
		return internalError(c, err)
	}
	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
		}
		return internalError(c, err)
	}

	h.Cache.Bust(ctx)
	emitEvent(h.Events, queue.ContentEvent{
		Variant: queue.VariantProject, Action: queue.ActionDeleted,
		ItemID: current.ID, Slug: current.Slug, Title: current.Title, Status: current.Status, ActorID: p.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Project deleted successfully"})
}

// Images handles GET /api/projects/:id/images, returning the gallery by
// order index ascending.  Visibility follows the owning project.
func (h *ProjectHandler) Images(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	proj, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
		}
		return internalError(c, err)
	}
	if !content.VisibleTo(privileged(c), proj.Status) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
	}
	return c.JSON(http.StatusOK, proj.Images)
}

// ReplaceImages handles PUT /api/projects/:id/images (write permission).
// The gallery is replaced wholesale with the given ordered URL list; an
// empty list clears it.  There is no partial diff.
func (h *ProjectHandler) ReplaceImages(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req replaceImagesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Images == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "images array required"})
	}

	ctx, cancel := dbTimeout(c)
	defer cancel()

	imgs, err := h.Store.ReplaceImages(ctx, id, *req.Images)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
		}
		return internalError(c, err)
	}

	h.Cache.Bust(ctx)
	return c.JSON(http.StatusOK, imgs)
}
