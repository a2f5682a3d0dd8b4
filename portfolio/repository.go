// Package portfolio holds the project and category workflows of the site: the repository that
// mediates every read and write through the database and image bucket, and the pure listing
// engine behind the gallery and dashboard views.
package portfolio

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/daffadev/pamer-backend/models"
)

// ProjectStore is the projects table.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Count(ctx context.Context) (int64, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryStore is the categories table.
type CategoryStore interface {
	FindAll(ctx context.Context) ([]*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Add(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageBucket is the object storage holding preview images.
type ImageBucket interface {
	Name() string
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64, overwrite bool) (string, error)
	PublicURL(path string) string
	Remove(ctx context.Context, paths []string) error
}

// Repository keeps no state between calls; callers re-list after every mutation.
type Repository struct {
	projects   ProjectStore
	categories CategoryStore
	images     ImageBucket
	logger     zerolog.Logger
	now        func() time.Time
	token      func() string
}

type Option func(*Repository)

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithClock replaces time.Now when naming uploaded objects.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithTokenSource replaces RandomToken when naming uploaded objects.
func WithTokenSource(token func() string) Option {
	return func(r *Repository) {
		r.token = token
	}
}

func NewRepository(projects ProjectStore, categories CategoryStore, images ImageBucket, opts ...Option) *Repository {
	r := &Repository{
		projects:   projects,
		categories: categories,
		images:     images,
		logger:     log.With().Str("component", "portfolio").Logger(),
		now:        time.Now,
		token:      RandomToken,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
