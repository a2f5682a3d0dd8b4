package portfolio

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/daffadev/pamer-backend/errs"
	"github.com/daffadev/pamer-backend/models"
)

// ListCategories returns every category sorted by name.
func (r *Repository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := r.categories.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "categories", err)
	}
	return categories, nil
}

func (r *Repository) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}

	category := &models.Category{Name: name}
	if err := r.categories.Add(ctx, category); err != nil {
		return nil, errs.NewDatabaseError("create", "category", err)
	}
	return category, nil
}

// RenameCategory changes a category's name. Projects keep the old name.
func (r *Repository) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}

	category, err := r.categories.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "category", err)
	}

	category.Name = name
	if err := r.categories.Update(ctx, category); err != nil {
		return nil, errs.NewDatabaseError("update", "category", err)
	}
	return category, nil
}

// DeleteCategory removes the category only; projects filed under it keep the dangling name.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := r.categories.Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "category", err)
	}
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := r.categories.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "category", err)
	}
	return category, nil
}

// CountProjectsUsingCategory counts projects whose category equals name exactly.
// It is advisory, for delete confirmation prompts.
func (r *Repository) CountProjectsUsingCategory(ctx context.Context, name string) (int, error) {
	projects, err := r.ListProjects(ctx)
	if err != nil {
		return 0, err
	}
	return CountInCategory(projects, name), nil
}
