package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
	"github.com/jwalitptl/clinic-scheduler/pkg/httputil"
)

type Service interface {
	Export(ctx context.Context) (string, error)
}

type Handler struct {
	service Service
	dir     string
}

func NewHandler(service Service, dir string) *Handler {
	return &Handler{service: service, dir: dir}
}

func (h *Handler) Export(c *gin.Context) {
	path, err := h.service.Export(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithCreated(c, gin.H{"file": filepath.Base(path)})
}

// Download serves a previously exported report. Only files this app named
// are reachable; the base-name join keeps callers inside the report dir.
func (h *Handler) Download(c *gin.Context) {
	name := filepath.Base(c.Param("name"))
	if !strings.HasPrefix(name, "admin_report_") || !strings.HasSuffix(name, ".xlsx") {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid report name", nil))
		return
	}

	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		httputil.RespondWithError(c, apperrors.NotFound("report", err))
		return
	}
	c.FileAttachment(path, name)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.POST("", h.Export)
		reports.GET("/:name", h.Download)
	}
}
