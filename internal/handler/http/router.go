package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the per-environment knobs of the HTTP surface.
type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Auth         AuthHandler
	Attendance   AttendanceHandler
	User         UserHandler
	Leave        LeaveHandler
	Document     DocumentHandler
	Notification NotificationHandler
	Announcement AnnouncementHandler
	Note         NoteHandler
	Dashboard    DashboardHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, users middleware.UserLookup, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-portal"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
		})

		// EventSource authenticates with a short-lived token in the query string
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService, users))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/status", h.Attendance.Status)
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/monthly", h.Attendance.Monthly)
				r.Get("/history", h.Attendance.History)

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/today", h.Attendance.Today)
			})

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.AdminOnly).Get("/", h.User.List)
				r.Get("/managers", h.User.Managers)
				r.Post("/me/heartbeat", h.User.Heartbeat)

				r.Route("/{uid}", func(r chi.Router) {
					r.Get("/", h.User.Get)
					r.Put("/", h.User.UpdateProfile)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Put("/role", h.User.UpdateRole)
						r.Put("/status", h.User.UpdateStatus)
						r.Put("/manager", h.User.UpdateManager)
						r.Delete("/", h.User.Delete)
					})
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/balance", h.Leave.GetBalance)
				r.With(middleware.RequirePermission(user.PermissionBalanceManage)).Put("/balances/{uid}", h.Leave.UpdateBalance)

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", h.Leave.Submit)
					r.Get("/", h.Leave.ListMine)
					r.Get("/assigned", h.Leave.ListAssigned)
					r.With(middleware.RequirePermission(user.PermissionRequestViewAll)).Get("/all", h.Leave.ListAll)
					r.Get("/{id}", h.Leave.Get)
					r.Put("/{id}/review", h.Leave.Review)
					r.Post("/{id}/cancel", h.Leave.Cancel)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", h.Document.Submit)
				r.Get("/", h.Document.ListMine)
				r.Get("/assigned", h.Document.ListAssigned)
				r.With(middleware.RequirePermission(user.PermissionRequestViewAll)).Get("/all", h.Document.ListAll)
				r.Get("/{id}", h.Document.Get)
				r.Put("/{id}/review", h.Document.Review)
				r.Post("/{id}/cancel", h.Document.Cancel)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Put("/read", h.Notification.MarkRead)
				r.Put("/read-all", h.Notification.MarkAllRead)
				r.Delete("/{id}", h.Notification.Delete)
				r.Post("/stream-token", h.Notification.StreamToken)
			})

			r.Route("/announcements", func(r chi.Router) {
				r.Get("/", h.Announcement.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAnnouncementPub))
					r.Post("/", h.Announcement.Create)
					r.Delete("/{id}", h.Announcement.Delete)
				})
			})

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", h.Note.List)
				r.Post("/", h.Note.Create)
				r.Get("/{id}", h.Note.Get)
				r.Put("/{id}", h.Note.Update)
				r.Delete("/{id}", h.Note.Delete)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/me", h.Dashboard.GetMyDashboard)
				r.With(middleware.RequirePermission(user.PermissionDashboardAdmin)).Get("/admin", h.Dashboard.GetAdminDashboard)
			})
		})
	})
	return r
}
