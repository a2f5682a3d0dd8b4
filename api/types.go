package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/daffadev/pamer-backend/models"
	"github.com/daffadev/pamer-backend/portfolio"
)

// Portfolio is the repository the handlers delegate to. *portfolio.Repository implements it.
type Portfolio interface {
	ListProjects(ctx context.Context) ([]*models.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	CountProjects(ctx context.Context) (int64, error)
	CreateProject(ctx context.Context, in portfolio.ProjectInput, image *portfolio.ImageFile) (*models.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, in portfolio.ProjectInput, image *portfolio.ImageFile) (*models.Project, portfolio.Cleanup, error)
	DeleteProject(ctx context.Context, id uuid.UUID, imageURL *string) (portfolio.Cleanup, error)

	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	RenameCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountProjectsUsingCategory(ctx context.Context, name string) (int, error)
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	statusHandler   statusHandler
	projectHandler  projectHandler
	categoryHandler categoryHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectResponse wraps a project written by the dashboard. Warnings lists best-effort
// cleanups that failed without blocking the write.
type ProjectResponse struct {
	Project  *models.Project `json:"project"`
	Warnings []string        `json:"warnings,omitempty"`
}

type DeleteResponse struct {
	Status   string   `json:"status" example:"success"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

type CategoryRequest struct {
	Name string `json:"name" example:"Web Application"`
}

type CategoryUsageResponse struct {
	Category string `json:"category"`
	Projects int    `json:"projects"`
}

type StatsResponse struct {
	Projects int64 `json:"projects"`
}

type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	StartedAt string `json:"startedAt"`
	Uptime    string `json:"uptime"`
}

// OverviewResponse is the dashboard's project table: every match, unpaginated, plus the
// categories and how many projects use each.
type OverviewResponse struct {
	Projects   []*models.Project  `json:"projects"`
	Total      int                `json:"total"`
	Categories []*models.Category `json:"categories"`
	Usage      map[string]int     `json:"usage"`
}

func cleanupWarnings(cleanup portfolio.Cleanup) []string {
	if cleanup.Err == nil {
		return nil
	}
	return []string{cleanup.Err.Error()}
}
