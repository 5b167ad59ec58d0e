package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "spring-market-update", Slugify("Spring Market Update!"))
	assert.Equal(t, "what-s-next-for-yorkville", Slugify("  What's next for Yorkville?  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestBlog_CreateAndPublish(t *testing.T) {
	repo := newFakePostsRepo()
	svc := NewBlogService(repo, zap.NewNop())
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	post, err := svc.Create(context.Background(), PostInput{Title: "Spring Market Update", BodyHTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "spring-market-update", post.Slug)
	assert.Nil(t, post.PublishedAt)

	_, err = svc.GetBySlug(context.Background(), "spring-market-update")
	assert.True(t, IsNotFound(err))

	post, err = svc.Update(context.Background(), post.ID, PostInput{Title: "Spring Market Update", Published: true})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, first, *post.PublishedAt)

	// Republishing keeps the original timestamp.
	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	post, err = svc.Update(context.Background(), post.ID, PostInput{Title: "Spring Market Update", Published: true})
	require.NoError(t, err)
	assert.Equal(t, first, *post.PublishedAt)

	got, err := svc.GetBySlug(context.Background(), " Spring-Market-Update ")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

func TestBlog_Validation(t *testing.T) {
	svc := NewBlogService(newFakePostsRepo(), zap.NewNop())

	_, err := svc.Create(context.Background(), PostInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), PostInput{Title: "Hi", Slug: "Bad Slug"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), PostInput{Title: "!!!"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBlog_Delete(t *testing.T) {
	svc := NewBlogService(newFakePostsRepo(), zap.NewNop())
	post, err := svc.Create(context.Background(), PostInput{Title: "Gone soon"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), post.ID))
	assert.True(t, IsNotFound(svc.Delete(context.Background(), post.ID)))
}
