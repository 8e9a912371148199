package domain

import (
	"testing"
	"time"

	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/jwt"
	"github.com/loyalx-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newUserDomain() *userDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		jwt.NewEngine[model.AccessToken]("test-secret", time.Hour),
	)
}

func Test_userDomain_Register(t *testing.T) {
	ctx := testutil.NewMockContext()

	d := newUserDomain()

	resp, err := d.Register(ctx, &model.RegisterRequest{
		Email: "new@example.com",
		Name:  "New User",
		Role:  "follower",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.NotEmpty(t, resp.AccessToken)

	// The issued token resolves back to the new user.
	verifier := jwt.NewVerifier[model.AccessToken]("test-secret")
	info, err := verifier.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.ID, info.ID)
	require.Equal(t, "new@example.com", info.Email)

	userCtx := testutil.NewMockContextWithUserID(ctx, resp.ID)
	got, err := d.Get(userCtx, &model.GetUserRequest{})
	require.NoError(t, err)
	require.Equal(t, "New User", got.Name)
	require.Equal(t, "follower", got.Role)

	_, err = d.Register(ctx, &model.RegisterRequest{Email: "x@example.com", Role: "admin"})
	require.Error(t, err)
	require.Equal(t, "Invalid role admin", err.Error())
}

func Test_userDomain_Follow(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	d := newUserDomain()

	resp, err := d.Register(ctx, &model.RegisterRequest{
		Email: "new@example.com",
		Role:  "follower",
	})
	require.NoError(t, err)

	userCtx := testutil.NewMockContextWithUserID(ctx, resp.ID)
	_, err = d.Follow(userCtx, &model.FollowRequest{IssuerID: testutil.Owner1})
	require.NoError(t, err)

	// Followers cannot be followed.
	_, err = d.Follow(userCtx, &model.FollowRequest{IssuerID: testutil.Follower1})
	require.Error(t, err)
	require.Equal(t, "Only business owners can be followed", err.Error())

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	followers, err := d.GetFollowers(ownerCtx, &model.GetFollowersRequest{})
	require.NoError(t, err)
	require.Len(t, followers.Followers, 4)

	// Non-owners cannot list followers.
	_, err = d.GetFollowers(userCtx, &model.GetFollowersRequest{})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())
}
