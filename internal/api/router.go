// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/confit/internal/media"
)

// NewRouter wires every endpoint onto a chi router with the global
// middleware stack.
func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogging())
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))
	r.Use(httprate.LimitByIP(h.cfg.Security.RateLimitReqs, h.cfg.Security.RateLimitWindow))

	// Health and metrics sit outside the versioned API.
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HandleHealth)
		r.Get("/live", h.HandleLive)
		r.Get("/ready", h.HandleReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	// Uploaded images. References resolve through the view builders, so a
	// URL here always points at a file that existed at render time.
	fileServer := http.StripPrefix(media.URLPrefix, http.FileServer(http.Dir(h.media.Root())))
	r.Get(media.URLPrefix+"*", fileServer.ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Metrics())

		// Public surface.
		r.Group(func(r chi.Router) {
			r.Post("/auth/login", h.HandleLogin)
			r.Post("/users", h.HandleRegister)
			r.Get("/users/{id}", h.HandleGetUser)
			r.Get("/users/{id}/recipes", h.HandleUserRecipes)
			r.Get("/recipes", h.HandleListRecipes)
			r.Get("/recipes/{id}", h.HandleGetRecipe)
		})

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(h.jwt.Middleware)

			r.Get("/users/me", h.HandleGetMe)
			r.Put("/users/me", h.HandleUpdateMe)
			r.Put("/users/me/password", h.HandleChangePassword)
			r.Post("/users/me/avatar", h.HandleUploadMyAvatar)

			r.Post("/recipes", h.HandleCreateRecipe)
			r.Put("/recipes/{id}", h.HandleUpdateRecipe)
			r.Delete("/recipes/{id}", h.HandleDeleteRecipe)
			r.Post("/recipes/{id}/avatar", h.HandleUploadRecipeAvatar)

			r.Post("/recipes/{id}/comments", h.HandleCreateComment)
			r.Delete("/comments/{id}", h.HandleDeleteComment)

			r.Post("/recipes/{id}/grade", h.HandleSubmitRecipeGrade)
			r.Get("/recipes/{id}/grade", h.HandleCheckRecipeGrade)
			r.Put("/recipes/{id}/grade", h.HandleCancelRecipeGrade)

			r.Post("/comments/{id}/grade", h.HandleSubmitCommentGrade)
			r.Get("/comments/{id}/grade", h.HandleCheckCommentGrade)
			r.Put("/comments/{id}/grade", h.HandleCancelCommentGrade)
		})
	})

	return r
}
