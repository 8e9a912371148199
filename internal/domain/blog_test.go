package domain

import (
	"testing"

	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newBlogDomain(storage *testutil.MockStorage) *blogDomain {
	return NewBlogDomain(
		repository.NewBlogRepository(),
		repository.NewUserRepository(),
		storage,
	)
}

func Test_blogDomain_Create(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	storage := testutil.NewMockStorage()
	d := newBlogDomain(storage)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	resp, err := d.Create(ownerCtx, &model.CreateBlogPostRequest{
		Title:     "Grand Opening",
		Content:   "<p>We are open!</p>",
		ImageName: "opening.png",
		ImageMime: "image/png",
		ImageData: []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "https://storage.example.com/blogs/opening.png", resp.Image)

	got, err := d.Get(ctx, &model.GetBlogPostRequest{ID: resp.ID})
	require.NoError(t, err)
	require.Equal(t, "Grand Opening", got.Title)
	require.Equal(t, "<p>We are open!</p>", got.Content)
	require.Equal(t, testutil.Owner1, got.AuthorID)
}

func Test_blogDomain_Create_Denied(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	d := newBlogDomain(testutil.NewMockStorage())

	followerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	_, err := d.Create(followerCtx, &model.CreateBlogPostRequest{Title: "Nope"})
	require.Error(t, err)
	require.Equal(t, "Only business owners can publish posts", err.Error())
}

func Test_blogDomain_Update(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	storage := testutil.NewMockStorage()
	d := newBlogDomain(storage)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	created, err := d.Create(ownerCtx, &model.CreateBlogPostRequest{
		Title:   "Grand Opening",
		Content: "<p>We are open!</p>",
	})
	require.NoError(t, err)

	// Only the author can edit.
	followerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	_, err = d.Update(followerCtx, &model.UpdateBlogPostRequest{ID: created.ID, Title: "Nope"})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	_, err = d.Update(ownerCtx, &model.UpdateBlogPostRequest{
		ID:      created.ID,
		Title:   "Grand Re-Opening",
		Content: "<p>New hours.</p>",
	})
	require.NoError(t, err)

	got, err := d.Get(ctx, &model.GetBlogPostRequest{ID: created.ID})
	require.NoError(t, err)
	require.Equal(t, "Grand Re-Opening", got.Title)
	require.Equal(t, "<p>New hours.</p>", got.Content)
}

func Test_blogDomain_Delete(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	d := newBlogDomain(testutil.NewMockStorage())

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	created, err := d.Create(ownerCtx, &model.CreateBlogPostRequest{Title: "Old News"})
	require.NoError(t, err)

	followerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	_, err = d.Delete(followerCtx, &model.DeleteBlogPostRequest{ID: created.ID})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	_, err = d.Delete(ownerCtx, &model.DeleteBlogPostRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = d.Get(ctx, &model.GetBlogPostRequest{ID: created.ID})
	require.Error(t, err)
	require.Equal(t, "Not found blog post", err.Error())
}

func Test_blogDomain_GetList(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	d := newBlogDomain(testutil.NewMockStorage())

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	for _, title := range []string{"First", "Second"} {
		_, err := d.Create(ownerCtx, &model.CreateBlogPostRequest{Title: title})
		require.NoError(t, err)
	}

	// Listing is public; it keys on the author.
	posts, err := d.GetList(ctx, &model.GetListBlogPostRequest{AuthorID: testutil.Owner1})
	require.NoError(t, err)
	require.Len(t, posts.Posts, 2)
}
