package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/config"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/postgresql"
	announcementService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/announcement"
	attendanceService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/dashboard"
	documentService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/document"
	leaveService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/leave"
	noteService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/note"
	notificationService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/notification"
	userService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/user"
	"github.com/redis/go-redis/v9"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With(slog.String("app", "hr-portal"), slog.String("env", cfg.App.Env)))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancelMigrate()
	if err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	var managerCache cache.Cache = cache.NewMemoryCache()
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("error connecting to redis: %w", err)
		}
		defer redisClient.Close()
		managerCache = cache.NewRedisCache(redisClient, "hr-portal:")
		slog.Info("Using redis cache", "addr", cfg.Redis.Addr)
	}

	policy, err := attendance.NewPolicy(cfg.Location(), cfg.Attendance.LateCutoff)
	if err != nil {
		return err
	}

	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	balanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	announcementRepo := postgresql.NewAnnouncementRepository(db)
	noteRepo := postgresql.NewNoteRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	transactor := postgresql.NewTransactor(db)

	secureCookie := cfg.App.Env == "production"
	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, secureCookie)
	if err != nil {
		return fmt.Errorf("error creating jwt service: %w", err)
	}
	var GoogleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	hub := sse.NewHub(16)
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})

	onlineWindow := cfg.Attendance.OnlineWindow
	authSvc := serviceAuth.NewAuthService(userRepo, balanceRepo, JWTRepository, JWTService, transactor, serviceAuth.DefaultBalances{
		Sick:      cfg.Leave.DefaultSick,
		Annual:    cfg.Leave.DefaultAnnual,
		Emergency: cfg.Leave.DefaultEmergency,
	}, onlineWindow)
	userSvc := userService.NewUserService(userRepo, managerCache, cfg.Redis.ManagerCacheTTL, onlineWindow)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, policy, onlineWindow)
	leaveSvc := leaveService.NewLeaveService(balanceRepo, leaveRequestRepo, userRepo, transactor, notificationSvc)
	documentSvc := documentService.NewDocumentService(documentRepo, userRepo, notificationSvc)
	announcementSvc := announcementService.NewAnnouncementService(announcementRepo, userRepo, notificationSvc)
	noteSvc := noteService.NewNoteService(noteRepo)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, attendanceSvc, leaveSvc, notificationSvc, announcementSvc, policy, onlineWindow)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, userRepo, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, GoogleService, cfg.App.FrontendURL, secureCookie),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		User:         appHTTP.NewUserHandler(userSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Document:     appHTTP.NewDocumentHandler(documentSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc, JWTService),
		Announcement: appHTTP.NewAnnouncementHandler(announcementSvc),
		Note:         appHTTP.NewNoteHandler(noteSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
	})

	scheduler := cron.NewScheduler()
	cron.NewReminderJobs(attendanceRepo, notificationSvc, policy).RegisterJobs(scheduler)
	cron.NewTokenJobs(authSvc, JWTService).RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}

	scheduler.Stop()
	notificationSvc.Stop()
	hub.Close()
	return nil
}
