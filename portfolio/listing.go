package portfolio

import (
	"cmp"
	"slices"
	"strings"

	"github.com/daffadev/pamer-backend/models"
)

const (
	// AllCategories disables the category filter.
	AllCategories   = "All"
	DefaultPageSize = 6
)

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ParseSortOrder maps anything other than "oldest" to SortNewest.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortOldest)) {
		return SortOldest
	}
	return SortNewest
}

// View holds the gallery parameters. Callers reset Page to 1 whenever Query, Category or Sort change.
type View struct {
	Query    string
	Category string
	Sort     SortOrder
	Page     int
	PageSize int
}

type Page struct {
	Projects   []*models.Project `json:"projects"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
}

// Filter returns the projects matching v's category and query, sorted by year. The input
// slice is never modified. Projects sharing a year keep their input order.
func Filter(projects []*models.Project, v View) []*models.Project {
	out := make([]*models.Project, 0, len(projects))
	query := ""
	if strings.TrimSpace(v.Query) != "" {
		query = strings.ToLower(v.Query)
	}

	for _, p := range projects {
		if v.Category != "" && v.Category != AllCategories && p.Category != v.Category {
			continue
		}
		if query != "" && !matches(p, query) {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, func(a, b *models.Project) int {
		if v.Sort == SortOldest {
			return cmp.Compare(a.Year, b.Year)
		}
		return cmp.Compare(b.Year, a.Year)
	})
	return out
}

func matches(p *models.Project, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) || strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	for _, tech := range p.TechStack {
		if strings.Contains(strings.ToLower(tech), query) {
			return true
		}
	}
	return false
}

// List filters, sorts and paginates projects. TotalPages is 0 when nothing matches, and a
// page past the end yields an empty Projects slice.
func List(projects []*models.Project, v View) Page {
	if v.PageSize < 1 {
		v.PageSize = DefaultPageSize
	}
	if v.Page < 1 {
		v.Page = 1
	}

	filtered := Filter(projects, v)
	total := len(filtered)

	start := total
	if v.Page-1 <= total/v.PageSize {
		start = min((v.Page-1)*v.PageSize, total)
	}
	end := min(start+v.PageSize, total)

	return Page{
		Projects:   slices.Clone(filtered[start:end]),
		Total:      total,
		TotalPages: (total + v.PageSize - 1) / v.PageSize,
		Page:       v.Page,
		PageSize:   v.PageSize,
	}
}

// CountInCategory counts projects whose category is exactly name.
func CountInCategory(projects []*models.Project, name string) int {
	n := 0
	for _, p := range projects {
		if p.Category == name {
			n++
		}
	}
	return n
}
