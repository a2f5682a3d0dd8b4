package portfolio

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/daffadev/pamer-backend/errs"
	"github.com/daffadev/pamer-backend/models"
)

// ProjectInput carries the editable fields of a project. Empty URLs are stored as null.
type ProjectInput struct {
	Title       string
	Description string
	Year        int
	Category    string
	TechStack   []string
	GithubURL   string
	LiveURL     string
}

func (in ProjectInput) applyTo(p *models.Project) {
	p.Title = in.Title
	p.Description = in.Description
	p.Year = in.Year
	p.Category = in.Category
	p.TechStack = append([]string{}, in.TechStack...)
	p.GithubURL = nullable(in.GithubURL)
	p.LiveURL = nullable(in.LiveURL)
}

func nullable(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// ListProjects returns every project, newest year first.
func (r *Repository) ListProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := r.projects.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return projects, nil
}

func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := r.projects.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return project, nil
}

func (r *Repository) CountProjects(ctx context.Context) (int64, error) {
	count, err := r.projects.Count(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "projects", err)
	}
	return count, nil
}

// CreateProject uploads the optional image and inserts the record. A failed upload leaves
// no record behind; a failed insert leaves the uploaded image in the bucket.
func (r *Repository) CreateProject(ctx context.Context, in ProjectInput, image *ImageFile) (*models.Project, error) {
	project := &models.Project{}
	in.applyTo(project)

	if image != nil {
		imageURL, err := r.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		project.ImageURL = &imageURL
	}

	if err := r.projects.Add(ctx, project); err != nil {
		if project.ImageURL != nil {
			r.logger.Warn().Err(err).Str("imageURL", *project.ImageURL).Msg("project insert failed, uploaded image left in bucket")
		}
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	r.logger.Info().Str("projectID", project.ID.String()).Str("title", project.Title).Msg("project created")
	return project, nil
}

// UpdateProject rewrites the project's fields. When image is set the new object is uploaded
// first, then the previous one is removed best-effort, then the record is updated.
func (r *Repository) UpdateProject(ctx context.Context, id uuid.UUID, in ProjectInput, image *ImageFile) (*models.Project, Cleanup, error) {
	var cleanup Cleanup

	project, err := r.projects.FindByID(ctx, id)
	if err != nil {
		return nil, cleanup, errs.NewDatabaseError("find", "project", err)
	}

	if image != nil {
		imageURL, err := r.uploadImage(ctx, image)
		if err != nil {
			return nil, cleanup, err
		}
		if project.ImageURL != nil {
			cleanup = r.removeImage(ctx, *project.ImageURL)
		}
		project.ImageURL = &imageURL
	}

	in.applyTo(project)
	if err := r.projects.Update(ctx, project); err != nil {
		return nil, cleanup, errs.NewDatabaseError("update", "project", err)
	}

	r.logger.Info().Str("projectID", id.String()).Bool("imageReplaced", image != nil).Msg("project updated")
	return project, cleanup, nil
}

// DeleteProject removes the project's stored image (best-effort) and then the record.
// The two steps are not atomic.
func (r *Repository) DeleteProject(ctx context.Context, id uuid.UUID, imageURL *string) (Cleanup, error) {
	var cleanup Cleanup
	if imageURL != nil {
		cleanup = r.removeImage(ctx, *imageURL)
	}

	if err := r.projects.Delete(ctx, id); err != nil {
		return cleanup, errs.NewDatabaseError("delete", "project", err)
	}

	r.logger.Info().Str("projectID", id.String()).Msg("project deleted")
	return cleanup, nil
}

func (r *Repository) uploadImage(ctx context.Context, image *ImageFile) (string, error) {
	key := ObjectKey(r.now(), r.token(), image.Name)
	path, err := r.images.Upload(ctx, key, image.Body, image.ContentType, image.Size, true)
	if err != nil {
		return "", errs.NewUploadError(key, err)
	}
	return r.images.PublicURL(path), nil
}

func (r *Repository) removeImage(ctx context.Context, imageURL string) Cleanup {
	key, ok := ObjectPathFromURL(imageURL, r.images.Name())
	if !ok {
		return Cleanup{}
	}

	cleanup := Cleanup{Attempted: true, Key: key}
	if err := r.images.Remove(ctx, []string{key}); err != nil {
		cleanup.Err = errs.NewRemovalError([]string{key}, err)
		r.logger.Warn().Err(err).Str("key", key).Msg("image cleanup failed, continuing")
	}
	return cleanup
}
