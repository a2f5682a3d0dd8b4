package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes sets up the routes the gallery reads without signing in
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.statusHandler.health())
		r.Get("/stats", handlers.statusHandler.stats())

		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Get("/categories", handlers.categoryHandler.listCategories())
	})
}

// setupDashboardRoutes sets up the authenticated routes
func setupDashboardRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Get("/dashboard/overview", handlers.statusHandler.overview())

		// Project Handler endpoints
		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		// Category Handler endpoints
		r.Post("/category", handlers.categoryHandler.createCategory())
		r.Put("/category/{categoryID}", handlers.categoryHandler.renameCategory())
		r.Delete("/category/{categoryID}", handlers.categoryHandler.deleteCategory())
		r.Get("/category/{categoryID}/usage", handlers.categoryHandler.categoryUsage())
	})
}
