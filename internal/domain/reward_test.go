package domain

import (
	"testing"

	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newRewardDomain(storage *testutil.MockStorage) *rewardDomain {
	return NewRewardDomain(
		repository.NewRewardRepository(),
		repository.NewUserRepository(),
		storage,
	)
}

func Test_rewardDomain_Create(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	storage := testutil.NewMockStorage()
	d := newRewardDomain(storage)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	resp, err := d.Create(ownerCtx, &model.CreateRewardRequest{
		Title:      "Free Coffee",
		PointsCost: 5,
		Quantity:   10,
		ImageName:  "coffee.png",
		ImageMime:  "image/png",
		ImageData:  []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "https://storage.example.com/rewards/coffee.png", resp.Image)
	require.Len(t, storage.Uploads, 1)

	got, err := d.Get(ownerCtx, &model.GetRewardRequest{ID: resp.ID})
	require.NoError(t, err)
	require.Equal(t, "Free Coffee", got.Title)
	require.Equal(t, uint64(5), got.PointsCost)
	require.Equal(t, int64(10), got.Quantity)
	require.Equal(t, testutil.Owner1, got.OwnerID)
}

func Test_rewardDomain_Create_Denied(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	d := newRewardDomain(testutil.NewMockStorage())

	followerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	_, err := d.Create(followerCtx, &model.CreateRewardRequest{Title: "Nope", Quantity: 1})
	require.Error(t, err)
	require.Equal(t, "Only business owners can create rewards", err.Error())
}

func Test_rewardDomain_GetList(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 3)
	testutil.InsertReward(ctx, "reward2", testutil.Owner1, 8, 1)

	d := newRewardDomain(testutil.NewMockStorage())

	followerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	all, err := d.GetList(followerCtx, &model.GetListRewardRequest{})
	require.NoError(t, err)
	require.Len(t, all.Rewards, 2)

	owned, err := d.GetList(followerCtx, &model.GetListRewardRequest{OwnerID: testutil.Owner1})
	require.NoError(t, err)
	require.Len(t, owned.Rewards, 2)
}

func Test_rewardDomain_Update(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 3)

	storage := testutil.NewMockStorage()
	d := newRewardDomain(storage)

	// Only the owner can edit.
	followerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	_, err := d.Update(followerCtx, &model.UpdateRewardRequest{ID: "reward1", Title: "Nope"})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	resp, err := d.Update(ownerCtx, &model.UpdateRewardRequest{
		ID:          "reward1",
		Title:       "Free Espresso",
		Description: "A double shot",
		PointsCost:  0,
		ImageName:   "espresso.png",
		ImageMime:   "image/png",
		ImageData:   []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)
	require.Equal(t, "https://storage.example.com/rewards/espresso.png", resp.Image)
	require.Len(t, storage.Uploads, 1)

	got, err := d.Get(ownerCtx, &model.GetRewardRequest{ID: "reward1"})
	require.NoError(t, err)
	require.Equal(t, "Free Espresso", got.Title)
	require.Equal(t, "A double shot", got.Description)
	require.Equal(t, uint64(0), got.PointsCost)
	require.Equal(t, resp.Image, got.Image)

	// Quantity only moves through the claim path.
	require.Equal(t, int64(3), got.Quantity)
}

func Test_rewardDomain_Update_KeepsImage(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	storage := testutil.NewMockStorage()
	d := newRewardDomain(storage)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	created, err := d.Create(ownerCtx, &model.CreateRewardRequest{
		Title:     "Free Coffee",
		Quantity:  1,
		ImageName: "coffee.png",
		ImageMime: "image/png",
		ImageData: []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)

	resp, err := d.Update(ownerCtx, &model.UpdateRewardRequest{
		ID:    created.ID,
		Title: "Free Coffee",
	})
	require.NoError(t, err)
	require.Equal(t, created.Image, resp.Image)
	require.Len(t, storage.Uploads, 1)
}

func Test_rewardDomain_Delete(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 3)

	d := newRewardDomain(testutil.NewMockStorage())

	// Only the owner can delete.
	followerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	_, err := d.Delete(followerCtx, &model.DeleteRewardRequest{ID: "reward1"})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	_, err = d.Delete(ownerCtx, &model.DeleteRewardRequest{ID: "reward1"})
	require.NoError(t, err)

	_, err = d.Get(ownerCtx, &model.GetRewardRequest{ID: "reward1"})
	require.Error(t, err)
	require.Equal(t, "Not found reward", err.Error())
}
