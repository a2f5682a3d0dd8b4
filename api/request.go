package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/daffadev/pamer-backend/errs"
	"github.com/daffadev/pamer-backend/models"
	"github.com/daffadev/pamer-backend/portfolio"
)

const (
	defaultCategory = "Web Application"
	firstYear       = 2018
	formOverhead    = 1 << 20
)

// ProjectRequest is the JSON form of a project edit. Multipart requests carry the same
// fields as form values, with tech_stack repeated, plus an optional image file.
type ProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Year        int      `json:"year"`
	Category    string   `json:"category"`
	TechStack   []string `json:"tech_stack"`
	GithubURL   string   `json:"github_url"`
	LiveURL     string   `json:"live_url"`
}

// uploadedImage is an image read from a multipart form. Close releases its temp file.
type uploadedImage struct {
	*portfolio.ImageFile
	file multipart.File
}

func (u *uploadedImage) Close() {
	if u != nil && u.file != nil {
		u.file.Close()
	}
}

func (u *uploadedImage) imageFile() *portfolio.ImageFile {
	if u == nil {
		return nil
	}
	return u.ImageFile
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

// decodeProjectRequest reads a JSON or multipart project form. The returned image is nil
// when no file was attached.
func decodeProjectRequest(w http.ResponseWriter, r *http.Request, maxImageBytes int64, now time.Time) (portfolio.ProjectInput, *uploadedImage, error) {
	var req ProjectRequest
	var image *uploadedImage

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+formOverhead)
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return portfolio.ProjectInput{}, nil, errs.NewMaxBodySizeExceededError(maxImageBytes)
			}
			return portfolio.ProjectInput{}, nil, errs.NewMalformedPayloadError("multipart", err)
		}
		req = projectRequestFromForm(r.MultipartForm.Value)

		var err error
		image, err = formImage(r, maxImageBytes)
		if err != nil {
			return portfolio.ProjectInput{}, nil, err
		}
	case "application/json", "":
		body := http.MaxBytesReader(w, r.Body, formOverhead)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			return portfolio.ProjectInput{}, nil, errs.NewMalformedPayloadError("JSON", err)
		}
	default:
		return portfolio.ProjectInput{}, nil, errs.NewUnsupportedMediaTypeError(mediaType, []string{"application/json", "multipart/form-data"})
	}

	req.normalize(now)
	if err := req.Validate(now); err != nil {
		image.Close()
		return portfolio.ProjectInput{}, nil, validationError(err)
	}

	return portfolio.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
		Category:    req.Category,
		TechStack:   req.TechStack,
		GithubURL:   req.GithubURL,
		LiveURL:     req.LiveURL,
	}, image, nil
}

func projectRequestFromForm(values map[string][]string) ProjectRequest {
	first := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	req := ProjectRequest{
		Title:       first("title"),
		Description: first("description"),
		Category:    first("category"),
		GithubURL:   first("github_url"),
		LiveURL:     first("live_url"),
	}
	if year := strings.TrimSpace(first("year")); year != "" {
		// An unparsable year becomes -1 so validation reports it instead of defaulting.
		req.Year = -1
		if y, err := strconv.Atoi(year); err == nil {
			req.Year = y
		}
	}
	for _, tech := range values["tech_stack"] {
		req.TechStack = append(req.TechStack, strings.Split(tech, ",")...)
	}
	return req
}

func formImage(r *http.Request, maxImageBytes int64) (*uploadedImage, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewMalformedPayloadError("image", err)
	}

	if header.Size > maxImageBytes {
		file.Close()
		return nil, errs.NewMaxBodySizeExceededError(maxImageBytes)
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		file.Close()
		return nil, errs.NewUnsupportedMediaTypeError(contentType, []string{"image/*"})
	}

	return &uploadedImage{
		ImageFile: &portfolio.ImageFile{
			Name:        header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Body:        file,
		},
		file: file,
	}, nil
}

// normalize trims text fields and fills the dashboard form's defaults.
func (req *ProjectRequest) normalize(now time.Time) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	req.GithubURL = strings.TrimSpace(req.GithubURL)
	req.LiveURL = strings.TrimSpace(req.LiveURL)

	if req.Category == "" {
		req.Category = defaultCategory
	}
	if req.Year == 0 {
		req.Year = now.Year()
	}

	techStack := make([]string, 0, len(req.TechStack))
	for _, tech := range req.TechStack {
		if tech = strings.TrimSpace(tech); tech != "" {
			techStack = append(techStack, tech)
		}
	}
	req.TechStack = techStack
}

func (req ProjectRequest) Validate(now time.Time) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.Year,
			validation.Min(firstYear),
			validation.Max(now.Year()+1),
		),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.TechStack, validation.By(uniqueStrings)),
		validation.Field(&req.GithubURL, is.URL),
		validation.Field(&req.LiveURL, is.URL),
	)
}

// uniqueStrings rejects exact (case-sensitive) duplicates.
func uniqueStrings(value interface{}) error {
	items, _ := value.([]string)
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			return fmt.Errorf("duplicate entry %q", item)
		}
		seen[item] = true
	}
	return nil
}

// validationError turns the first failing field, in name order, into an ApiErr.
func validationError(err error) error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return errs.NewBadRequestError(err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	field := fields[0]
	var ruleErr validation.Error
	if errors.As(fieldErrs[field], &ruleErr) && ruleErr.Code() == "validation_required" {
		return errs.NewMissingRequiredFieldError(field)
	}
	return errs.NewInvalidFieldError(field, fieldErrs[field].Error())
}

func decodeCategoryRequest(w http.ResponseWriter, r *http.Request) (CategoryRequest, error) {
	var req CategoryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, formOverhead)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, errs.NewMalformedPayloadError("JSON", err)
	}
	return req, nil
}

// projectsOrEmpty keeps JSON responses as [] rather than null.
func projectsOrEmpty(projects []*models.Project) []*models.Project {
	if projects == nil {
		return []*models.Project{}
	}
	return projects
}
