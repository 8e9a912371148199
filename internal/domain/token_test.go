package domain

import (
	"testing"

	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTokenDomain(ledger *testutil.MockLedger, storage *testutil.MockStorage) *tokenDomain {
	return NewTokenDomain(
		repository.NewTokenRepository(),
		repository.NewUserRepository(),
		NewWalletDomain(repository.NewWalletRepository(), ledger),
		ledger,
		storage,
	)
}

func Test_tokenDomain_Create(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	ledger := testutil.NewMockLedger()
	storage := testutil.NewMockStorage()
	d := newTokenDomain(ledger, storage)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	resp, err := d.Create(ownerCtx, &model.CreateTokenRequest{
		Name:        "Loyalty Coin",
		Symbol:      "LOYC",
		Description: "Coffee shop loyalty token",
		ImageName:   "loyc.png",
		ImageMime:   "image/png",
		ImageData:   []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.MintAccount)
	require.NotEmpty(t, resp.TokenAta)
	require.NotEmpty(t, resp.CreateSignature)
	require.Equal(t, "https://storage.example.com/tokens/LOYC.json", resp.MetadataURI)

	// One image, one metadata document.
	require.Len(t, storage.Uploads, 2)
	require.Len(t, ledger.CallsOf("create_mint"), 1)

	var token entity.Token
	require.NoError(t, ctx.DB().Take(&token, "owner_id=?", testutil.Owner1).Error)
	require.Equal(t, resp.MintAccount, token.MintAccount)
	require.Equal(t, uint8(9), token.Decimals)

	var metadata entity.TokenMetadata
	require.NoError(t, ctx.DB().Take(&metadata, "mint_account=?", resp.MintAccount).Error)
	require.Equal(t, "Loyalty Coin", metadata.Name)
	require.Equal(t, "LOYC", metadata.Symbol)
	require.Equal(t, "https://storage.example.com/tokens/loyc.png", metadata.Image)
}

func Test_tokenDomain_Create_OnePerIssuer(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertToken(ctx, testutil.Owner1)

	d := newTokenDomain(testutil.NewMockLedger(), testutil.NewMockStorage())

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	_, err := d.Create(ownerCtx, &model.CreateTokenRequest{Name: "Second", Symbol: "2ND"})
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func Test_tokenDomain_Create_Denied(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	d := newTokenDomain(testutil.NewMockLedger(), testutil.NewMockStorage())

	followerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	_, err := d.Create(followerCtx, &model.CreateTokenRequest{Name: "Nope", Symbol: "NOPE"})
	require.Error(t, err)
	require.Equal(t, "Only business owners can create a token", err.Error())
}

func Test_tokenDomain_List(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	token := testutil.InsertToken(ctx, testutil.Owner1)

	err := ctx.DB().Create(&entity.TokenMetadata{
		MintAccount: token.MintAccount,
		OwnerID:     testutil.Owner1,
		Name:        "Loyalty Coin",
		Symbol:      "LOYC",
	}).Error
	require.NoError(t, err)

	d := newTokenDomain(testutil.NewMockLedger(), testutil.NewMockStorage())

	followerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	resp, err := d.List(followerCtx, &model.ListTokensRequest{
		Mints: []string{token.MintAccount, "unknown-mint"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Tokens, 1)
	require.Equal(t, token.MintAccount, resp.Tokens[0].MintAccount)
	require.Equal(t, "LOYC", resp.Tokens[0].Symbol)
}
