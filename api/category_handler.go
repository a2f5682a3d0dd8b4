package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/daffadev/pamer-backend/notify"
)

type categoryHandler struct {
	responder Responder
	logger    zerolog.Logger
	portfolio Portfolio
}

func newCategoryHandler(svc Portfolio, notifier notify.Notifier) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder: NewResponder(logger).WithNotifier(notifier),
		logger:    logger,
		portfolio: svc,
	}
}

// listCategories returns every category sorted by name
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h categoryHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.portfolio.ListCategories(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, categories)
	}
}

// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Param category body CategoryRequest true "Category name"
// @Success 201 {object} models.Category
// @Failure 400 {object} ErrorResponse "Bad Request - Missing name"
// @Failure 409 {object} ErrorResponse "Conflict - Name already exists"
// @Router /category [post]
func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeCategoryRequest(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.portfolio.CreateCategory(r.Context(), req.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("userID", ctxGetUserID(r.Context())).Str("category", category.Name).Msg("category created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, category)
	}
}

// renameCategory changes the category's name; projects keep the name they were saved with
// @Summary Rename category
// @Tags Categories
// @Accept json
// @Produce json
// @Param categoryID path string true "Category ID" format(uuid)
// @Param category body CategoryRequest true "New name"
// @Success 200 {object} models.Category
// @Router /category/{categoryID} [put]
func (h categoryHandler) renameCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseUUIDParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		req, err := decodeCategoryRequest(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.portfolio.RenameCategory(r.Context(), categoryID, req.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

// @Summary Delete category
// @Tags Categories
// @Produce json
// @Param categoryID path string true "Category ID" format(uuid)
// @Success 200 {object} DeleteResponse
// @Router /category/{categoryID} [delete]
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseUUIDParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.portfolio.DeleteCategory(r.Context(), categoryID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("userID", ctxGetUserID(r.Context())).Str("categoryID", categoryID.String()).Msg("category deleted")
		h.responder.WriteJSON(w, DeleteResponse{Status: "success", Message: "category deleted successfully"})
	}
}

// categoryUsage counts the projects filed under the category, for the delete confirmation
// @Summary Category usage
// @Tags Categories
// @Produce json
// @Param categoryID path string true "Category ID" format(uuid)
// @Success 200 {object} CategoryUsageResponse
// @Router /category/{categoryID}/usage [get]
func (h categoryHandler) categoryUsage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseUUIDParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.portfolio.GetCategory(r.Context(), categoryID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		count, err := h.portfolio.CountProjectsUsingCategory(r.Context(), category.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, CategoryUsageResponse{Category: category.Name, Projects: count})
	}
}
