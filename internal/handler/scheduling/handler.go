package scheduling

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	"github.com/jwalitptl/clinic-scheduler/internal/service/scheduling"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
	"github.com/jwalitptl/clinic-scheduler/pkg/httputil"
)

type Service interface {
	Doctors(ctx context.Context) ([]*model.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*model.Doctor, error)
	Dates(ctx context.Context, doctorID string) ([]string, error)
	AvailableSlots(ctx context.Context, doctorID, date string, minutes int) ([]model.SlotWindow, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.Doctors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) ListDates(c *gin.Context) {
	doctorID := c.Param("id")
	if _, err := h.service.GetDoctor(c.Request.Context(), doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.RespondWithError(c, apperrors.NotFound("doctor", err))
			return
		}
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	dates, err := h.service.Dates(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, dates)
}

// GetAvailability serves the open windows for doctor_id + date + minutes.
// An empty list is a normal response, not an error.
func (h *Handler) GetAvailability(c *gin.Context) {
	doctorID := c.Query("doctor_id")
	date := c.Query("date")
	if doctorID == "" || date == "" {
		httputil.RespondWithError(c, apperrors.BadRequest("doctor_id and date are required", nil))
		return
	}

	minutes := scheduling.SlotMinutes
	if v := c.Query("minutes"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid minutes", err))
			return
		}
		minutes = parsed
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), doctorID, date, minutes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.RespondWithError(c, apperrors.NotFound("schedule", err))
			return
		}
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if slots == nil {
		slots = []model.SlotWindow{}
	}
	httputil.RespondWithSuccess(c, slots)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/doctors", h.ListDoctors)
	r.GET("/doctors/:id/dates", h.ListDates)
	r.GET("/availability", h.GetAvailability)
}
