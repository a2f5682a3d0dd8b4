package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"id", "title", "description", "year", "category", "tech_stack", "image_url", "github_url", "live_url", "created_at"},
		modelColumns(Project{}))
	assert.Equal(t, []string{"id", "name", "created_at"}, modelColumns(Category{}))
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches([]string{"id", "name", "slug", "created_at"}, modelColumns(Category{}))
	assert.Equal(t, []string{"slug"}, got)

	assert.Empty(t, findColumnMismatches([]string{"id", "name"}, modelColumns(Category{})))
}
