package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quangminhduong-hustlereal/webapp-news/internal/service"
	"github.com/quangminhduong-hustlereal/webapp-news/internal/store"
)

// Response messages. The wire contract is only {success, message}; the texts
// themselves are ours to change.
const (
	msgListFailed    = "failed to fetch articles"
	msgGetFailed     = "failed to fetch article"
	msgCreateFailed  = "failed to create article"
	msgUpdateFailed  = "failed to update article"
	msgNotFound      = "article not found"
	msgBadBody       = "invalid request body"
	msgMissingFields = "title and content are required"
	msgRequiredEmpty = "title and content cannot be empty"
	msgSlugConflict  = "slug already in use, change the title"
)

type Handler struct {
	svc *service.Service
	log *zap.SugaredLogger
}

func NewHandler(svc *service.Service, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/", h.Health)

	api := r.Group("/api")
	{
		api.GET("/articles", h.List)
		api.POST("/articles", h.Create)
		api.GET("/articles/:slug", h.GetBySlug)
		api.PUT("/articles/:slug", h.Update)
	}
}

// Health: GET /
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "API is running!")
}

// List: GET /api/articles
func (h *Handler) List(c *gin.Context) {
	articles, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Errorw("list articles", "err", err)
		respondError(c, http.StatusInternalServerError, msgListFailed)
		return
	}
	respondOK(c, http.StatusOK, articles)
}

// GetBySlug: GET /api/articles/:slug
func (h *Handler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	article, err := h.svc.GetBySlug(c.Request.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.log.Errorw("get article", "slug", slug, "err", err)
		respondError(c, http.StatusInternalServerError, msgGetFailed)
		return
	}
	respondOK(c, http.StatusOK, article)
}

type createArticleRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Author      string     `json:"author"`
	Source      string     `json:"source"`
	ImageURL    string     `json:"imageUrl"`
	IsPublished *bool      `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// Create: POST /api/articles
func (h *Handler) Create(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgBadBody)
		return
	}

	article, err := h.svc.Create(c.Request.Context(), service.CreateArticleInput{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Category:    req.Category,
		Tags:        req.Tags,
		Author:      req.Author,
		Source:      req.Source,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
		PublishedAt: req.PublishedAt,
	})
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, msgMissingFields)
	case errors.Is(err, store.ErrConflict):
		respondError(c, http.StatusBadRequest, msgSlugConflict)
	case err != nil:
		h.log.Errorw("create article", "err", err)
		respondError(c, http.StatusInternalServerError, msgCreateFailed)
	default:
		respondOK(c, http.StatusCreated, article)
	}
}

// updateArticleRequest is a partial payload: nil means the field was not
// sent and must be left untouched.
type updateArticleRequest struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Excerpt     *string    `json:"excerpt"`
	Category    *string    `json:"category"`
	Tags        *[]string  `json:"tags"`
	Author      *string    `json:"author"`
	Source      *string    `json:"source"`
	ImageURL    *string    `json:"imageUrl"`
	IsPublished *bool      `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// Update: PUT /api/articles/:slug
func (h *Handler) Update(c *gin.Context) {
	slug := c.Param("slug")

	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgBadBody)
		return
	}

	article, err := h.svc.Update(c.Request.Context(), slug, service.UpdateArticleInput{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Category:    req.Category,
		Tags:        req.Tags,
		Author:      req.Author,
		Source:      req.Source,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
		PublishedAt: req.PublishedAt,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, msgNotFound)
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, msgRequiredEmpty)
	case errors.Is(err, store.ErrConflict):
		respondError(c, http.StatusBadRequest, msgSlugConflict)
	case err != nil:
		h.log.Errorw("update article", "slug", slug, "err", err)
		respondError(c, http.StatusInternalServerError, msgUpdateFailed)
	default:
		respondOK(c, http.StatusOK, article)
	}
}
