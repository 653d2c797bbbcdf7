package patient

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
	"github.com/jwalitptl/clinic-scheduler/pkg/httputil"
	"github.com/jwalitptl/clinic-scheduler/pkg/validator"
)

type Service interface {
	Lookup(ctx context.Context, name, dob string) (*model.Patient, error)
	Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error)
	Get(ctx context.Context, id string) (*model.Patient, error)
	List(ctx context.Context) ([]*model.Patient, error)
}

// LookupResult reports whether the caller is a returning patient, and the
// visit length that follows from it.
type LookupResult struct {
	Found           bool            `json:"found"`
	Patient         *model.Patient  `json:"patient,omitempty"`
	VisitType       model.VisitType `json:"visit_type"`
	DurationMinutes int             `json:"duration_minutes"`
}

type Handler struct {
	service   Service
	validator validator.Validator
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, validator: validator.New()}
}

func (h *Handler) Lookup(c *gin.Context) {
	var req model.LookupPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	p, err := h.service.Lookup(c.Request.Context(), req.Name, req.DOB)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.RespondWithSuccess(c, LookupResult{
				Found:           false,
				VisitType:       model.VisitTypeNew,
				DurationMinutes: model.VisitDuration(model.VisitTypeNew),
			})
			return
		}
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	httputil.RespondWithSuccess(c, LookupResult{
		Found:           true,
		Patient:         p,
		VisitType:       model.VisitTypeReturning,
		DurationMinutes: model.VisitDuration(model.VisitTypeReturning),
	})
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	p, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.RespondWithError(c, apperrors.NotFound("patient", err))
			return
		}
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) List(c *gin.Context) {
	patients, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("/lookup", h.Lookup)
		patients.POST("", h.Register)
		patients.GET("", h.List)
		patients.GET("/:id", h.Get)
	}
}
