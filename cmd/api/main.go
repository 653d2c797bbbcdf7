package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-scheduler/internal/config"
	"github.com/jwalitptl/clinic-scheduler/internal/handler"
	bookingHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/booking"
	patientHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/patient"
	reportHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/report"
	schedulingHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/scheduling"
	uiHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/ui"
	"github.com/jwalitptl/clinic-scheduler/internal/repository/sheet"
	"github.com/jwalitptl/clinic-scheduler/internal/router"
	bookingService "github.com/jwalitptl/clinic-scheduler/internal/service/booking"
	"github.com/jwalitptl/clinic-scheduler/internal/service/notification"
	patientService "github.com/jwalitptl/clinic-scheduler/internal/service/patient"
	reportService "github.com/jwalitptl/clinic-scheduler/internal/service/report"
	schedulingService "github.com/jwalitptl/clinic-scheduler/internal/service/scheduling"
	"github.com/jwalitptl/clinic-scheduler/pkg/logger"
	"github.com/jwalitptl/clinic-scheduler/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLog := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	m := metrics.NewMetrics("clinic")

	// Flat-file stores
	patientRepo := sheet.NewPatientRepository(cfg.Data.PatientsFile, cfg.Data.CacheTTL, m)
	scheduleRepo := sheet.NewScheduleRepository(cfg.Data.ScheduleFile, cfg.Data.CacheTTL, m)
	bookingRepo := sheet.NewBookingRepository(cfg.Data.BookingsFile, m)
	commRepo := sheet.NewCommunicationRepository(cfg.Data.CommunicationsFile, m)

	// Notifier: log-only stub unless SMTP is configured on
	logNotifier := notification.NewLogNotifier(commRepo, m)
	var notifier notification.Notifier = logNotifier
	if cfg.Notifier.SMTPEnabled {
		notifier = notification.NewSMTPNotifier(notification.SMTPConfig{
			Host:     cfg.Notifier.SMTPHost,
			Port:     cfg.Notifier.SMTPPort,
			Username: cfg.Notifier.SMTPUsername,
			Password: cfg.Notifier.SMTPPassword,
			From:     cfg.Notifier.SMTPFrom,
		}, logNotifier)
		appLog.Info("SMTP notifier enabled", "host", cfg.Notifier.SMTPHost)
	}
	notifSvc := notification.NewService(notifier, appLog)

	// Services
	patientSvc := patientService.NewService(patientRepo)
	schedulingSvc := schedulingService.NewService(scheduleRepo)
	bookingSvc := bookingService.NewService(scheduleRepo, bookingRepo, patientRepo, notifSvc, m, appLog)
	reportSvc := reportService.NewService(patientRepo, scheduleRepo, bookingRepo, cfg.Data.ReportDir, m)

	// Handlers
	h := handler.NewHandler()
	ui := uiHandler.NewHandler(patientSvc, schedulingSvc, bookingSvc, reportSvc, commRepo, cfg.Data.TemplateDir)
	patientH := patientHandler.NewHandler(patientSvc)
	schedulingH := schedulingHandler.NewHandler(schedulingSvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	reportH := reportHandler.NewHandler(reportSvc, cfg.Data.ReportDir)

	r := router.NewRouter(cfg, h, ui, patientH, schedulingH, bookingH, reportH)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLog.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
