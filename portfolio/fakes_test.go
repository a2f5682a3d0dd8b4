package portfolio_test

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/daffadev/pamer-backend/models"
	"github.com/daffadev/pamer-backend/portfolio"
)

const publicBase = "https://abc.supabase.co/storage/v1/object/public/project-images/"

// recorder is shared by the fakes so tests can assert cross-dependency call order.
type recorder struct {
	calls []string
}

func (r *recorder) record(call string) {
	r.calls = append(r.calls, call)
}

type fakeProjects struct {
	rec     *recorder
	rows    map[uuid.UUID]*models.Project
	order   []uuid.UUID
	addErr  error
	updErr  error
	delErr  error
	findErr error
	deleted []uuid.UUID
	updated []*models.Project
}

func newFakeProjects(rec *recorder, projects ...*models.Project) *fakeProjects {
	f := &fakeProjects{rec: rec, rows: map[uuid.UUID]*models.Project{}}
	for _, p := range projects {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		f.rows[p.ID] = p
		f.order = append(f.order, p.ID)
	}
	return f
}

func (f *fakeProjects) FindAll(context.Context) ([]*models.Project, error) {
	f.rec.record("projects.FindAll")
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]*models.Project, 0, len(f.order))
	for _, id := range f.order {
		if p, ok := f.rows[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProjects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	f.rec.record("projects.FindByID")
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) Count(context.Context) (int64, error) {
	f.rec.record("projects.Count")
	return int64(len(f.rows)), nil
}

func (f *fakeProjects) Add(_ context.Context, p *models.Project) error {
	f.rec.record("projects.Add")
	if f.addErr != nil {
		return f.addErr
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cp := *p
	f.rows[p.ID] = &cp
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakeProjects) Update(_ context.Context, p *models.Project) error {
	f.rec.record("projects.Update")
	if f.updErr != nil {
		return f.updErr
	}
	cp := *p
	f.rows[p.ID] = &cp
	f.updated = append(f.updated, &cp)
	return nil
}

func (f *fakeProjects) Delete(_ context.Context, id uuid.UUID) error {
	f.rec.record("projects.Delete")
	f.deleted = append(f.deleted, id)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.rows, id)
	return nil
}

type fakeCategories struct {
	rec    *recorder
	rows   map[uuid.UUID]*models.Category
	addErr error
}

func newFakeCategories(rec *recorder, names ...string) *fakeCategories {
	f := &fakeCategories{rec: rec, rows: map[uuid.UUID]*models.Category{}}
	for _, name := range names {
		c := &models.Category{ID: uuid.New(), Name: name}
		f.rows[c.ID] = c
	}
	return f
}

func (f *fakeCategories) byName(name string) *models.Category {
	for _, c := range f.rows {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (f *fakeCategories) FindAll(context.Context) ([]*models.Category, error) {
	f.rec.record("categories.FindAll")
	out := make([]*models.Category, 0, len(f.rows))
	for _, c := range f.rows {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.rec.record("categories.FindByID")
	c, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) Add(_ context.Context, c *models.Category) error {
	f.rec.record("categories.Add")
	if f.addErr != nil {
		return f.addErr
	}
	c.ID = uuid.New()
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCategories) Update(_ context.Context, c *models.Category) error {
	f.rec.record("categories.Update")
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) error {
	f.rec.record("categories.Delete")
	delete(f.rows, id)
	return nil
}

type fakeBucket struct {
	rec       *recorder
	uploaded  []string
	bodies    []string
	overwrite []bool
	removed   [][]string
	uploadErr error
	removeErr error
}

func (f *fakeBucket) Name() string { return "project-images" }

func (f *fakeBucket) Upload(_ context.Context, key string, body io.Reader, _ string, _ int64, overwrite bool) (string, error) {
	f.rec.record("bucket.Upload")
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, _ := io.ReadAll(body)
	f.uploaded = append(f.uploaded, key)
	f.bodies = append(f.bodies, string(b))
	f.overwrite = append(f.overwrite, overwrite)
	return key, nil
}

func (f *fakeBucket) PublicURL(path string) string {
	return publicBase + path
}

func (f *fakeBucket) Remove(_ context.Context, paths []string) error {
	f.rec.record("bucket.Remove")
	f.removed = append(f.removed, paths)
	return f.removeErr
}

type fixture struct {
	rec        *recorder
	projects   *fakeProjects
	categories *fakeCategories
	bucket     *fakeBucket
	repo       *portfolio.Repository
}

var fixedNow = time.UnixMilli(1700000000000)

func newFixture(projects ...*models.Project) *fixture {
	rec := &recorder{}
	f := &fixture{
		rec:        rec,
		projects:   newFakeProjects(rec, projects...),
		categories: newFakeCategories(rec, "Web Application", "Library"),
		bucket:     &fakeBucket{rec: rec},
	}
	f.repo = portfolio.NewRepository(f.projects, f.categories, f.bucket,
		portfolio.WithLogger(zerolog.Nop()),
		portfolio.WithClock(func() time.Time { return fixedNow }),
		portfolio.WithTokenSource(func() string { return "k3j2x" }),
	)
	return f
}

func pngImage(name string) *portfolio.ImageFile {
	return &portfolio.ImageFile{Name: name, ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
}

func strPtr(s string) *string { return &s }
