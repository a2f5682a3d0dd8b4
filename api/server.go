package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/daffadev/pamer-backend/auth"
	"github.com/daffadev/pamer-backend/config"
	"github.com/daffadev/pamer-backend/notify"
	"github.com/daffadev/pamer-backend/portfolio"
)

const defaultMaxImageBytes = 5 << 20

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, svc Portfolio, verifier auth.Verifier) (Server, error) {
	if svc == nil || verifier == nil {
		return Server{}, fmt.Errorf("server needs a portfolio repository and a token verifier")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(svc, verifier, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type handlerSettings struct {
	pageSize      int
	maxImageBytes int64
	notifier      notify.Notifier
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(svc Portfolio, verifier auth.Verifier, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID, middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)

	settings := handlerSettings{
		pageSize:      config.GetInt(router.config, "PROJECTS_PER_PAGE", portfolio.DefaultPageSize),
		maxImageBytes: int64(config.GetInt(router.config, "MAX_IMAGE_BYTES", defaultMaxImageBytes)),
		notifier:      notify.FromConfig(router.config),
	}
	handlers := initializeHandlers(svc, settings, router.startupTime)
	authMiddleware := newAuthMiddleware(verifier)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	setupPublicRoutes(chiRouter, handlers)
	setupDashboardRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
