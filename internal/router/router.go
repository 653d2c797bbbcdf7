package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/clinic-scheduler/internal/config"
	"github.com/jwalitptl/clinic-scheduler/internal/handler"
	bookingHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/booking"
	patientHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/patient"
	reportHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/report"
	schedulingHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/scheduling"
	uiHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/ui"
	"github.com/jwalitptl/clinic-scheduler/internal/middleware"
)

const templateGlob = "web/templates/*.html"

type Router struct {
	engine     *gin.Engine
	cfg        *config.Config
	base       *handler.Handler
	ui         *uiHandler.Handler
	patient    *patientHandler.Handler
	scheduling *schedulingHandler.Handler
	booking    *bookingHandler.Handler
	report     *reportHandler.Handler
}

func NewRouter(
	cfg *config.Config,
	base *handler.Handler,
	ui *uiHandler.Handler,
	patient *patientHandler.Handler,
	scheduling *schedulingHandler.Handler,
	booking *bookingHandler.Handler,
	report *reportHandler.Handler,
) *Router {
	return &Router{
		engine:     gin.New(),
		cfg:        cfg,
		base:       base,
		ui:         ui,
		patient:    patient,
		scheduling: scheduling,
		booking:    booking,
		report:     report,
	}
}

func (r *Router) Setup() {
	e := r.engine

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recovery())
	e.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if r.cfg.RateLimit.Enabled {
		e.Use(middleware.RateLimit(r.cfg.RateLimit.RequestsPerSecond, r.cfg.RateLimit.Burst))
	}

	e.LoadHTMLGlob(templateGlob)

	e.GET("/health", r.base.Health)
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.ui.RegisterRoutes(e)

	api := e.Group("/api/v1")
	r.patient.RegisterRoutes(api)
	r.scheduling.RegisterRoutes(api)
	r.booking.RegisterRoutes(api)
	r.report.RegisterRoutes(api)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
