package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/rhydle-waitlist/internal/infra/http/handlers"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/http/middleware"
)

type routes struct {
	waitlist       *handlers.WaitlistHandler
	admin          *handlers.AdminHandler
	health         *handlers.HealthHandler
	adminToken     string
	allowedOrigins []string
	// trustProxy: RemoteAddr passa a vir de X-Forwarded-For / X-Real-IP
	trustProxy bool
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if rt.trustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Post("/", rt.waitlist.Submit)
	r.Post("/waitlist", rt.waitlist.Submit)
	r.Get("/health", rt.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(rt.adminToken))
		rt.admin.Routes(r)
	})

	return r
}
