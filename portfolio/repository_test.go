package portfolio_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daffadev/pamer-backend/errs"
	"github.com/daffadev/pamer-backend/models"
	"github.com/daffadev/pamer-backend/portfolio"
)

func input() portfolio.ProjectInput {
	return portfolio.ProjectInput{
		Title:       "Pamer",
		Description: "Portfolio site",
		Year:        2025,
		Category:    "Web Application",
		TechStack:   []string{"Go", "Next.js"},
		GithubURL:   "https://github.com/daffadev/pamer",
	}
}

func TestCreateProjectWithoutImage(t *testing.T) {
	f := newFixture()

	p, err := f.repo.CreateProject(context.Background(), input(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"projects.Add"}, f.rec.calls)
	assert.Empty(t, f.bucket.uploaded)
	assert.Nil(t, p.ImageURL)
	assert.Nil(t, p.LiveURL)
	require.NotNil(t, p.GithubURL)
	assert.Equal(t, "https://github.com/daffadev/pamer", *p.GithubURL)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Nil(t, f.projects.rows[p.ID].ImageURL)
}

func TestCreateProjectWithImage(t *testing.T) {
	f := newFixture()

	p, err := f.repo.CreateProject(context.Background(), input(), pngImage("screenshot.final.png"))
	require.NoError(t, err)

	assert.Equal(t, []string{"bucket.Upload", "projects.Add"}, f.rec.calls)
	assert.Equal(t, []string{"1700000000000-k3j2x.png"}, f.bucket.uploaded)
	assert.Equal(t, []bool{true}, f.bucket.overwrite)
	assert.Equal(t, []string{"png"}, f.bucket.bodies)
	require.NotNil(t, p.ImageURL)
	assert.Equal(t, publicBase+"1700000000000-k3j2x.png", *p.ImageURL)
}

func TestCreateProjectDefaultsEmptyTechStack(t *testing.T) {
	f := newFixture()
	in := input()
	in.TechStack = nil

	p, err := f.repo.CreateProject(context.Background(), in, nil)
	require.NoError(t, err)
	assert.NotNil(t, p.TechStack)
	assert.Empty(t, p.TechStack)
}

func TestCreateProjectUploadFailureInsertsNothing(t *testing.T) {
	f := newFixture()
	f.bucket.uploadErr = errors.New("bucket unavailable")

	p, err := f.repo.CreateProject(context.Background(), input(), pngImage("a.png"))
	require.Error(t, err)

	assert.Nil(t, p)
	assert.True(t, errs.IsUploadError(err))
	assert.False(t, errs.IsGatewayError(err))
	assert.Equal(t, []string{"bucket.Upload"}, f.rec.calls)
	assert.Empty(t, f.projects.rows)
}

func TestCreateProjectInsertFailureKeepsUploadedImage(t *testing.T) {
	f := newFixture()
	f.projects.addErr = errors.New("connection refused")

	_, err := f.repo.CreateProject(context.Background(), input(), pngImage("a.png"))
	require.Error(t, err)

	assert.True(t, errs.IsGatewayError(err))
	assert.Equal(t, 503, errs.StatusCode(err))
	assert.Equal(t, []string{"1700000000000-k3j2x.png"}, f.bucket.uploaded)
	assert.Empty(t, f.bucket.removed)
}

func TestUpdateProjectReplacesImage(t *testing.T) {
	existing := &models.Project{ID: uuid.New(), Title: "Old", ImageURL: strPtr(publicBase + "1600000000000-old.jpg")}
	f := newFixture(existing)

	p, cleanup, err := f.repo.UpdateProject(context.Background(), existing.ID, input(), pngImage("new.png"))
	require.NoError(t, err)

	assert.Equal(t, []string{"projects.FindByID", "bucket.Upload", "bucket.Remove", "projects.Update"}, f.rec.calls)
	assert.Equal(t, [][]string{{"1600000000000-old.jpg"}}, f.bucket.removed)
	assert.Equal(t, portfolio.Cleanup{Attempted: true, Key: "1600000000000-old.jpg"}, cleanup)
	require.NotNil(t, p.ImageURL)
	assert.Equal(t, publicBase+"1700000000000-k3j2x.png", *p.ImageURL)
	assert.Equal(t, "Pamer", f.projects.rows[existing.ID].Title)
}

func TestUpdateProjectRemovalFailureIsNotFatal(t *testing.T) {
	existing := &models.Project{ID: uuid.New(), ImageURL: strPtr(publicBase + "old.png")}
	f := newFixture(existing)
	f.bucket.removeErr = errors.New("access denied")

	p, cleanup, err := f.repo.UpdateProject(context.Background(), existing.ID, input(), pngImage("new.png"))
	require.NoError(t, err)

	assert.True(t, cleanup.Attempted)
	assert.True(t, errs.IsRemovalError(cleanup.Err))
	assert.Equal(t, publicBase+"1700000000000-k3j2x.png", *p.ImageURL)
	assert.Len(t, f.projects.updated, 1)
}

func TestUpdateProjectWithoutImageKeepsURL(t *testing.T) {
	existing := &models.Project{ID: uuid.New(), ImageURL: strPtr(publicBase + "old.png")}
	f := newFixture(existing)

	p, cleanup, err := f.repo.UpdateProject(context.Background(), existing.ID, input(), nil)
	require.NoError(t, err)

	assert.False(t, cleanup.Attempted)
	assert.Empty(t, f.bucket.uploaded)
	assert.Empty(t, f.bucket.removed)
	assert.Equal(t, publicBase+"old.png", *p.ImageURL)
}

func TestUpdateProjectExternalImageIsNotRemoved(t *testing.T) {
	existing := &models.Project{ID: uuid.New(), ImageURL: strPtr("https://i.imgur.com/abc.png")}
	f := newFixture(existing)

	_, cleanup, err := f.repo.UpdateProject(context.Background(), existing.ID, input(), pngImage("new.png"))
	require.NoError(t, err)

	assert.False(t, cleanup.Attempted)
	assert.Empty(t, f.bucket.removed)
}

func TestUpdateProjectNotFound(t *testing.T) {
	f := newFixture()

	_, _, err := f.repo.UpdateProject(context.Background(), uuid.New(), input(), pngImage("new.png"))
	require.Error(t, err)

	assert.True(t, errs.IsGatewayError(err))
	assert.True(t, errs.IsNotFound(err))
	assert.Empty(t, f.bucket.uploaded)
}

func TestUpdateProjectUploadFailureLeavesRecord(t *testing.T) {
	existing := &models.Project{ID: uuid.New(), Title: "Old", ImageURL: strPtr(publicBase + "old.png")}
	f := newFixture(existing)
	f.bucket.uploadErr = errors.New("timeout")

	_, _, err := f.repo.UpdateProject(context.Background(), existing.ID, input(), pngImage("new.png"))
	require.Error(t, err)

	assert.True(t, errs.IsUploadError(err))
	assert.Empty(t, f.bucket.removed)
	assert.Empty(t, f.projects.updated)
	assert.Equal(t, "Old", f.projects.rows[existing.ID].Title)
}

func TestDeleteProjectRemovesImageThenRecord(t *testing.T) {
	tests := []struct {
		name      string
		removeErr error
	}{
		{name: "removal succeeds"},
		{name: "removal fails", removeErr: errors.New("object locked")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := &models.Project{ID: uuid.New(), ImageURL: strPtr(publicBase + "1700000000000-abc.webp")}
			f := newFixture(existing)
			f.bucket.removeErr = tt.removeErr

			cleanup, err := f.repo.DeleteProject(context.Background(), existing.ID, existing.ImageURL)
			require.NoError(t, err)

			assert.Equal(t, []string{"bucket.Remove", "projects.Delete"}, f.rec.calls)
			assert.Equal(t, [][]string{{"1700000000000-abc.webp"}}, f.bucket.removed)
			assert.Equal(t, []uuid.UUID{existing.ID}, f.projects.deleted)
			assert.True(t, cleanup.Attempted)
			assert.Equal(t, tt.removeErr != nil, errs.IsRemovalError(cleanup.Err))
			assert.NotContains(t, f.projects.rows, existing.ID)
		})
	}
}

func TestDeleteProjectWithoutStoredImage(t *testing.T) {
	for name, imageURL := range map[string]*string{
		"no image": nil,
		"external": strPtr("https://cdn.example.com/shot.png"),
	} {
		t.Run(name, func(t *testing.T) {
			existing := &models.Project{ID: uuid.New(), ImageURL: imageURL}
			f := newFixture(existing)

			cleanup, err := f.repo.DeleteProject(context.Background(), existing.ID, imageURL)
			require.NoError(t, err)

			assert.Equal(t, []string{"projects.Delete"}, f.rec.calls)
			assert.False(t, cleanup.Attempted)
		})
	}
}

func TestDeleteProjectRecordFailure(t *testing.T) {
	existing := &models.Project{ID: uuid.New(), ImageURL: strPtr(publicBase + "a.png")}
	f := newFixture(existing)
	f.projects.delErr = errors.New("statement timeout")

	cleanup, err := f.repo.DeleteProject(context.Background(), existing.ID, existing.ImageURL)
	require.Error(t, err)

	assert.True(t, errs.IsGatewayError(err))
	assert.True(t, cleanup.Attempted)
	assert.Equal(t, []string{"bucket.Remove", "projects.Delete"}, f.rec.calls)
}

func TestListProjectsGatewayError(t *testing.T) {
	f := newFixture()
	f.projects.findErr = errors.New("connection reset by peer")

	_, err := f.repo.ListProjects(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsGatewayError(err))
}

func TestCountProjects(t *testing.T) {
	f := newFixture(&models.Project{Title: "A"}, &models.Project{Title: "B"})

	n, err := f.repo.CountProjects(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCreateCategoryTrimsName(t *testing.T) {
	f := newFixture()

	c, err := f.repo.CreateCategory(context.Background(), "  Game  ")
	require.NoError(t, err)
	assert.Equal(t, "Game", c.Name)
	assert.NotNil(t, f.categories.byName("Game"))
}

func TestCreateCategoryRejectsBlankName(t *testing.T) {
	f := newFixture()

	_, err := f.repo.CreateCategory(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, errs.IsMissingRequiredFieldError(err))
	assert.Empty(t, f.rec.calls)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	f := newFixture()
	f.categories.addErr = errors.New(`ERROR: duplicate key value violates unique constraint "idx_categories_name"`)

	_, err := f.repo.CreateCategory(context.Background(), "Library")
	require.Error(t, err)
	assert.Equal(t, 409, errs.StatusCode(err))
}

func TestRenameCategory(t *testing.T) {
	f := newFixture()
	lib := f.categories.byName("Library")

	c, err := f.repo.RenameCategory(context.Background(), lib.ID, " Libraries ")
	require.NoError(t, err)
	assert.Equal(t, "Libraries", c.Name)
	assert.Equal(t, "Libraries", f.categories.rows[lib.ID].Name)

	_, err = f.repo.RenameCategory(context.Background(), uuid.New(), "Other")
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteCategoryLeavesProjectsDangling(t *testing.T) {
	f := newFixture(&models.Project{Title: "A", Category: "Library"})
	lib := f.categories.byName("Library")

	require.NoError(t, f.repo.DeleteCategory(context.Background(), lib.ID))

	projects, err := f.repo.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Library", projects[0].Category)

	n, err := f.repo.CountProjectsUsingCategory(context.Background(), "Library")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCountProjectsUsingCategoryIsExactMatch(t *testing.T) {
	f := newFixture(
		&models.Project{Title: "A", Category: "Library"},
		&models.Project{Title: "B", Category: "library"},
		&models.Project{Title: "C", Category: "Library"},
	)

	n, err := f.repo.CountProjectsUsingCategory(context.Background(), "Library")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
