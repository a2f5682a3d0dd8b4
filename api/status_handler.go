package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/daffadev/pamer-backend/models"
	"github.com/daffadev/pamer-backend/notify"
	"github.com/daffadev/pamer-backend/portfolio"
)

type statusHandler struct {
	responder   Responder
	logger      zerolog.Logger
	portfolio   Portfolio
	startupTime time.Time
}

func newStatusHandler(svc Portfolio, startupTime time.Time, notifier notify.Notifier) statusHandler {
	logger := log.With().Str("handlerName", "statusHandler").Logger()

	return statusHandler{
		responder:   NewResponder(logger).WithNotifier(notifier),
		logger:      logger,
		portfolio:   svc,
		startupTime: startupTime,
	}
}

// @Summary Health check
// @Tags Status
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h statusHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, HealthResponse{
			Status:    "ok",
			StartedAt: h.startupTime.UTC().Format(time.RFC3339),
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}

// stats backs the home page's project counter
// @Summary Site stats
// @Tags Status
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /stats [get]
func (h statusHandler) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := h.portfolio.CountProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, StatsResponse{Projects: count})
	}
}

// overview loads the dashboard's project table and category list in one round trip
// @Summary Dashboard overview
// @Tags Dashboard
// @Produce json
// @Param q query string false "Search"
// @Param category query string false "Category filter"
// @Param sort query string false "newest or oldest"
// @Success 200 {object} OverviewResponse
// @Router /dashboard/overview [get]
func (h statusHandler) overview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			projects   []*models.Project
			categories []*models.Category
		)

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			projects, err = h.portfolio.ListProjects(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			categories, err = h.portfolio.ListCategories(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := r.URL.Query()
		filtered := portfolio.Filter(projects, portfolio.View{
			Query:    q.Get("q"),
			Category: q.Get("category"),
			Sort:     portfolio.ParseSortOrder(q.Get("sort")),
		})

		usage := make(map[string]int, len(categories))
		for _, c := range categories {
			usage[c.Name] = portfolio.CountInCategory(projects, c.Name)
		}
		if categories == nil {
			categories = []*models.Category{}
		}

		h.responder.WriteJSON(w, OverviewResponse{
			Projects:   projectsOrEmpty(filtered),
			Total:      len(filtered),
			Categories: categories,
			Usage:      usage,
		})
	}
}
