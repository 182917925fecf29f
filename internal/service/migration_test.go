package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-resources/internal/enrichment"
	"go-resources/internal/model"
)

func TestResourceService_RemapCategories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewResourceService(db, nil, nil, nil)

	a := createResource(t, db, model.Resource{Title: "A", Category: "Courses", URL: "https://a.example", Status: model.StatusApproved})
	b := createResource(t, db, model.Resource{Title: "B", Category: "testing", URL: "https://b.example", Status: model.StatusApproved})
	c := createResource(t, db, model.Resource{Title: "C", Category: "Mystery", URL: "https://c.example", Status: model.StatusApproved})

	result, err := svc.RemapCategories(ctx, DefaultCategoryMapping)
	require.NoError(t, err)
	assert.Equal(t, MigrationResult{Updated: 1, Skipped: 2}, result)

	for id, want := range map[uint]string{a.ID: "Learning & Courses", b.ID: "testing", c.ID: "Mystery"} {
		got, err := svc.FindResource(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Category)
	}
}

type fakePhotos struct {
	photos  map[string]enrichment.Image
	queries []string
}

func (f *fakePhotos) RandomPhoto(_ context.Context, query string) (enrichment.Image, error) {
	f.queries = append(f.queries, query)
	if img, ok := f.photos[query]; ok {
		return img, nil
	}
	return enrichment.Image{}, errors.New("no results")
}

func TestResourceService_BackfillImages(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewResourceService(db, nil, nil, nil)

	byTitle := createResource(t, db, model.Resource{Title: "Docker", Category: "Tools", URL: "https://a.example", Status: model.StatusApproved})
	byCategory := createResource(t, db, model.Resource{Title: "zzz", Category: "Tools", URL: "https://b.example", Status: model.StatusApproved})
	createResource(t, db, model.Resource{Title: "nothing", Category: "Nope", URL: "https://c.example", Status: model.StatusApproved})
	createResource(t, db, model.Resource{Title: "has image", Category: "Tools", URL: "https://d.example", Status: model.StatusApproved, ImageURL: "https://img.example/keep.jpg"})

	photos := &fakePhotos{photos: map[string]enrichment.Image{
		enrichment.CleanTitleForSearch("Docker"): {URL: "https://img.example/docker.jpg", PhotographerName: "Ann"},
		"Tools": {URL: "https://img.example/tools.jpg", PhotographerName: "Bob", PhotographerUsername: "bob"},
	}}

	result, err := svc.BackfillImages(ctx, photos, 0, true)
	require.NoError(t, err)
	assert.Equal(t, MigrationResult{Updated: 2, Failed: 1}, result)

	got, err := svc.FindResource(ctx, byTitle.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/docker.jpg", got.ImageURL)
	assert.Equal(t, "Photo by Ann on Unsplash", got.ImageAttribution)

	got, err = svc.FindResource(ctx, byCategory.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/tools.jpg", got.ImageURL)
	assert.Equal(t, "Photo by Bob (@bob) on Unsplash", got.ImageAttribution)

	assert.NotContains(t, photos.queries, enrichment.CleanTitleForSearch("has image"))
}
