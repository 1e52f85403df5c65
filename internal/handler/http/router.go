package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/time/rate"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Company    CompanyHandler
	Stream     StreamHandler
	User       UserHandler
}

func NewRouter(cfg *config.Config, logger *slog.Logger, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	// r.Use(chiMiddleware.RealIP)
	// Forwarded headers are client-controlled without a trusted proxy in front;
	// the per-IP limiter keys on RemoteAddr.

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	// Every route below passes the gate; public paths are let through inside it.
	r.Use(middleware.Gate(jwtService.JWTAuth()))

	loginLimit := middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.LoginRPS), cfg.RateLimit.LoginBurst)
	trackLimit := middleware.RateLimitByUser(rate.Limit(cfg.RateLimit.TrackRPS), cfg.RateLimit.TrackBurst)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimit).Post("/register", h.Auth.Register)
			r.With(loginLimit).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
			r.Route("/oauth/google", func(r chi.Router) {
				r.Get("/", h.Auth.LoginWithGoogle)
				r.Get("/callback", h.Auth.OAuthCallbackGoogle)
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.Post("/check-in", h.Attendance.CheckIn)
			r.Post("/check-out", h.Attendance.CheckOut)
			r.With(trackLimit).Post("/track-location", h.Attendance.TrackLocation)
			r.Get("/track-location", h.Attendance.LocationLogs)
			r.Get("/status", h.Attendance.Status)
			r.Get("/attendance", h.Attendance.MyAttendance)
		})

		r.Route("/company", func(r chi.Router) {
			r.Get("/", h.Company.GetMyCompany)
			r.Put("/", h.Company.UpdateMyCompany)
			r.Route("/staff", func(r chi.Router) {
				r.Get("/", h.Company.ListStaff)
				r.Post("/", h.Company.AddStaff)
				r.Patch("/{id}", h.Company.UpdateStaff)
				r.Delete("/{id}", h.Company.DeactivateStaff)
			})
			r.Get("/attendance", h.Company.ListAttendance)
			r.Get("/attendance/stream", h.Stream.Attendance)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/companies", func(r chi.Router) {
				r.Get("/", h.Company.List)
				r.Post("/", h.Company.Create)
				r.Get("/{id}", h.Company.GetByID)
				r.Put("/{id}", h.Company.Update)
				r.Delete("/{id}", h.Company.Delete)
			})
			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.User.List)
				r.Post("/", h.User.Create)
				r.Get("/{id}", h.User.Get)
				r.Put("/{id}", h.User.Update)
				r.Delete("/{id}", h.User.Delete)
			})
		})
	})

	// Pages and assets of the bundled frontend, when one is deployed alongside.
	if cfg.App.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.App.StaticDir)))
	}

	return r
}
