package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/daffadev/pamer-backend/notify"
	"github.com/daffadev/pamer-backend/portfolio"
)

const maxPageSize = 50

type projectHandler struct {
	responder     Responder
	logger        zerolog.Logger
	portfolio     Portfolio
	pageSize      int
	maxImageBytes int64
	now           func() time.Time
}

func newProjectHandler(svc Portfolio, pageSize int, maxImageBytes int64, notifier notify.Notifier) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:     NewResponder(logger).WithNotifier(notifier),
		logger:        logger,
		portfolio:     svc,
		pageSize:      pageSize,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
	}
}

// listProjects returns one page of the public gallery
// @Summary List projects
// @Description Filters, searches, sorts and paginates projects
// @Tags Projects
// @Produce json
// @Param q query string false "Case-insensitive search over title, description and tech stack"
// @Param category query string false "Exact category name, or All"
// @Param sort query string false "newest or oldest"
// @Param page query int false "1-based page number"
// @Param page_size query int false "Projects per page"
// @Success 200 {object} portfolio.Page
// @Failure 500 {object} ErrorResponse
// @Router /projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.portfolio.ListProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, portfolio.List(projects, h.viewFromQuery(r)))
	}
}

func (h projectHandler) viewFromQuery(r *http.Request) portfolio.View {
	q := r.URL.Query()
	view := portfolio.View{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Sort:     portfolio.ParseSortOrder(q.Get("sort")),
		Page:     1,
		PageSize: h.pageSize,
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		view.Page = page
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil && size > 0 {
		view.PageSize = min(size, maxPageSize)
	}
	return view
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseUUIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.portfolio.GetProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project, uploading the optional image first
// @Summary Create project
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Param project body ProjectRequest true "Project data"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 413 {object} ErrorResponse "Image too large"
// @Failure 502 {object} ErrorResponse "Image upload failed"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, image, err := decodeProjectRequest(w, r, h.maxImageBytes, h.now())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer image.Close()

		project, err := h.portfolio.CreateProject(r.Context(), input, image.imageFile())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("userID", ctxGetUserID(r.Context())).Str("projectID", project.ID.String()).Msg("project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, ProjectResponse{Project: project})
	}
}

// updateProject rewrites an existing project, replacing its image when a new one is sent
// @Summary Update project
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body ProjectRequest true "Updated project data"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseUUIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input, image, err := decodeProjectRequest(w, r, h.maxImageBytes, h.now())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer image.Close()

		project, cleanup, err := h.portfolio.UpdateProject(r.Context(), projectID, input, image.imageFile())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("userID", ctxGetUserID(r.Context())).Str("projectID", projectID.String()).Msg("project updated")
		h.responder.WriteJSON(w, ProjectResponse{Project: project, Warnings: cleanupWarnings(cleanup)})
	}
}

// deleteProject deletes a project and its stored image
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} DeleteResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseUUIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.portfolio.GetProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		cleanup, err := h.portfolio.DeleteProject(r.Context(), projectID, project.ImageURL)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("userID", ctxGetUserID(r.Context())).Str("projectID", projectID.String()).Msg("project deleted")
		h.responder.WriteJSON(w, DeleteResponse{
			Status:   "success",
			Message:  "project deleted successfully",
			Warnings: cleanupWarnings(cleanup),
		})
	}
}
