package http

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mallikarjuna-sindiri/sendy/internal/domain"
	"github.com/mallikarjuna-sindiri/sendy/internal/log"
	"github.com/mallikarjuna-sindiri/sendy/internal/service"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Svc             *service.DomainService
	Health          Pinger
	DefaultDuration time.Duration
}

func NewHandler(svc *service.DomainService, health Pinger, defaultDuration time.Duration) *Handler {
	if defaultDuration <= 0 {
		defaultDuration = time.Hour
	}
	return &Handler{Svc: svc, Health: health, DefaultDuration: defaultDuration}
}

// largest duration_ms that still fits in a time.Duration
const maxDurationMS = math.MaxInt64 / int64(time.Millisecond)

type createDomainReq struct {
	Domain     string `json:"domain"`
	Password   string `json:"password,omitempty"`
	DurationMS *int64 `json:"duration_ms,omitempty"`
}

// CreateDomain godoc
// @Summary Create a domain
// @Description Creates a domain, or recreates one whose previous lifetime has ended.
// @Tags domains
// @Accept json
// @Produce json
// @Param payload body createDomainReq true "domain, optional password, duration_ms (>= 60000)"
// @Success 201 {object} domain.Public
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /domains [post]
func (h *Handler) CreateDomain(c *gin.Context) {
	var in createDomainReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	d := h.DefaultDuration
	if in.DurationMS != nil {
		if *in.DurationMS > maxDurationMS {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration_ms is too large"})
			return
		}
		d = time.Duration(*in.DurationMS) * time.Millisecond
	}
	view, err := h.Svc.Create(c.Request.Context(), in.Domain, in.Password, d)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

type unlockReq struct {
	Password string `json:"password"`
}

// UnlockDomain godoc
// @Summary Exchange a password for an access token
// @Tags domains
// @Accept json
// @Produce json
// @Param slug path string true "domain slug"
// @Param payload body unlockReq true "password"
// @Success 200 {object} domain.AccessToken
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /domains/{slug}/unlock [post]
func (h *Handler) UnlockDomain(c *gin.Context) {
	var in unlockReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	tok, err := h.Svc.Unlock(c.Request.Context(), c.Param("slug"), in.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

// GetDomain godoc
// @Summary Read a domain
// @Tags domains
// @Produce json
// @Param slug path string true "domain slug"
// @Param X-Access-Token header string false "access token for locked domains"
// @Success 200 {object} domain.Public
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /domains/{slug} [get]
func (h *Handler) GetDomain(c *gin.Context) {
	view, err := h.Svc.Get(c.Request.Context(), c.Param("slug"), accessToken(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type updateDomainReq struct {
	Content string            `json:"content"`
	Meta    *domain.Meta      `json:"meta"`
	Files   []domain.FileMeta `json:"files"`
}

// UpdateDomain godoc
// @Summary Replace content, meta and files
// @Tags domains
// @Accept json
// @Produce json
// @Param slug path string true "domain slug"
// @Param X-Access-Token header string false "access token for locked domains"
// @Param payload body updateDomainReq true "content, meta, files"
// @Success 200 {object} domain.Public
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /domains/{slug} [put]
func (h *Handler) UpdateDomain(c *gin.Context) {
	var in updateDomainReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	meta := domain.DefaultMeta()
	if in.Meta != nil {
		meta = *in.Meta
	}
	view, err := h.Svc.Update(c.Request.Context(), c.Param("slug"), accessToken(c), domain.Contents{
		Content: in.Content,
		Meta:    meta,
		Files:   in.Files,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteDomain godoc
// @Summary Delete a domain and revoke its tokens
// @Tags domains
// @Param slug path string true "domain slug"
// @Param X-Access-Token header string false "access token for locked domains"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /domains/{slug} [delete]
func (h *Handler) DeleteDomain(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("slug"), accessToken(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type presignReq struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// PresignUpload godoc
// @Summary Get presigned URLs for one attachment
// @Tags files
// @Accept json
// @Produce json
// @Param slug path string true "domain slug"
// @Param X-Access-Token header string false "access token for locked domains"
// @Param payload body presignReq true "name, size, type"
// @Success 201 {object} domain.UploadTicket
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 501 {object} map[string]string
// @Router /domains/{slug}/files [post]
func (h *Handler) PresignUpload(c *gin.Context) {
	var in presignReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	ticket, err := h.Svc.PresignUpload(c.Request.Context(), c.Param("slug"), accessToken(c),
		domain.UploadRequest{Name: in.Name, Size: in.Size, Type: in.Type})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// Healthz godoc
// @Summary Liveness and database reachability
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if h.Health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Health.Ping(ctx); err != nil {
			log.FromContext(c.Request.Context()).Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGone):
		return http.StatusGone
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.FromContext(c.Request.Context()).Error("request failed",
			zap.String("route", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
