// ABOUTME: HTTP handlers for articles, sections and the health check.
// ABOUTME: Maps validation errors to 400, misses to 404 and store failures to 500.

package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/logger"
	"github.com/harper/catalog/internal/models"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type articleRequest struct {
	Title *string  `json:"title" binding:"required"`
	Tags  []string `json:"tags"`
}

func (r articleRequest) upsert() catalog.UpsertRequest {
	return catalog.UpsertRequest{Title: *r.Title, Tags: r.Tags}
}

type ArticleHandler struct {
	log      *logger.Logger
	articles *catalog.Service
}

func NewArticleHandler(log *logger.Logger, articles *catalog.Service) *ArticleHandler {
	return &ArticleHandler{
		log:      logger.OrNop(log).With("handler", "ArticleHandler"),
		articles: articles,
	}
}

// GET /api/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	article, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		h.internal(c, "get article", err)
		return
	}
	if article == nil {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("article %s not found", id))
		return
	}
	RespondOK(c, article)
}

// POST /api/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req articleRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	article, err := h.articles.Create(c.Request.Context(), req.upsert())
	if models.IsValidation(err) {
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	if err != nil {
		h.internal(c, "create article", err)
		return
	}

	c.Header("Location", "/api/articles/"+article.ID.String())
	c.JSON(http.StatusCreated, article)
}

// PUT /api/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req articleRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	found, err := h.articles.Update(c.Request.Context(), id, req.upsert())
	if models.IsValidation(err) {
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	if err != nil {
		h.internal(c, "update article", err)
		return
	}
	if !found {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("article %s not found", id))
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	found, err := h.articles.Delete(c.Request.Context(), id)
	if err != nil {
		h.internal(c, "delete article", err)
		return
	}
	if !found {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("article %s not found", id))
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/articles?search=q&limit=n
func (h *ArticleHandler) Search(c *gin.Context) {
	query := c.Query("search")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("search query parameter is required"))
		return
	}
	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSearchLimit {
			RespondError(c, http.StatusBadRequest, "invalid_request",
				fmt.Errorf("limit must be between 1 and %d", maxSearchLimit))
			return
		}
		limit = n
	}

	articles, err := h.articles.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.internal(c, "search articles", err)
		return
	}
	RespondOK(c, articles)
}

func (h *ArticleHandler) internal(c *gin.Context, op string, err error) {
	h.log.Error("Request failed", "op", op, "error", err)
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, "internal", errors.New(op+" failed"))
}

type SectionHandler struct {
	log      *logger.Logger
	sections *catalog.Engine
}

func NewSectionHandler(log *logger.Logger, sections *catalog.Engine) *SectionHandler {
	return &SectionHandler{
		log:      logger.OrNop(log).With("handler", "SectionHandler"),
		sections: sections,
	}
}

// GET /api/sections
func (h *SectionHandler) List(c *gin.Context) {
	sections, err := h.sections.Sections(c.Request.Context())
	if err != nil {
		h.internal(c, "list sections", err)
		return
	}
	RespondOK(c, sections)
}

// GET /api/sections/:id
func (h *SectionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	section, err := h.sections.Section(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrSectionNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("section %s not found", id))
		return
	}
	if err != nil {
		h.internal(c, "get section", err)
		return
	}
	RespondOK(c, section)
}

// GET /api/sections/:id/articles
func (h *SectionHandler) Articles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	articles, err := h.sections.SectionArticles(c.Request.Context(), id)
	if err != nil {
		h.internal(c, "list section articles", err)
		return
	}
	RespondOK(c, articles)
}

func (h *SectionHandler) internal(c *gin.Context, op string, err error) {
	h.log.Error("Request failed", "op", op, "error", err)
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, "internal", errors.New(op+" failed"))
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}
