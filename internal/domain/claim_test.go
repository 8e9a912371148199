package domain

import (
	"sync"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/testutil"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newClaimDomain(ledger *testutil.MockLedger) *claimDomain {
	return NewClaimDomain(
		repository.NewClaimRepository(),
		repository.NewRewardRepository(),
		repository.NewUserRepository(),
		repository.NewPointsConfigurationRepository(),
		repository.NewTokenRepository(),
		NewWalletDomain(repository.NewWalletRepository(), ledger),
		ledger,
	)
}

func Test_claimDomain_Claim(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 3)

	d := newClaimDomain(testutil.NewMockLedger())

	claimantCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	resp, err := d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.NoError(t, err)
	require.Equal(t, "pending", resp.Status)
	require.NotEmpty(t, resp.ID)

	var reward entity.Reward
	require.NoError(t, ctx.DB().Take(&reward, "id=?", "reward1").Error)
	require.Equal(t, int64(2), reward.Quantity)

	var claim entity.Claim
	require.NoError(t, ctx.DB().Take(&claim, "id=?", resp.ID).Error)
	require.Equal(t, testutil.Follower1, claim.UserID)
	require.Equal(t, "follower1@example.com", claim.UserEmail)
	require.Equal(t, testutil.Owner1, claim.BusinessOwnerID)
}

func Test_claimDomain_Claim_Exhausted(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 1)

	d := newClaimDomain(testutil.NewMockLedger())

	claimantCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	_, err := d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.NoError(t, err)

	// The reward is out of stock now; the next claim must leave no trace.
	claimantCtx = testutil.NewMockContextWithUserID(ctx, testutil.Follower2)
	_, err = d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.RewardExhausted, errx.Code)

	var reward entity.Reward
	require.NoError(t, ctx.DB().Take(&reward, "id=?", "reward1").Error)
	require.Equal(t, int64(0), reward.Quantity)

	var count int64
	require.NoError(t, ctx.DB().Model(&entity.Claim{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func Test_claimDomain_Claim_Conservation(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 2)

	d := newClaimDomain(testutil.NewMockLedger())

	for _, claimant := range []string{testutil.Follower1, testutil.Follower2, testutil.Follower3} {
		claimantCtx := testutil.NewMockContextWithUserID(ctx, claimant)
		d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	}

	// Whatever succeeded, stock plus outstanding claims is the initial stock.
	var reward entity.Reward
	require.NoError(t, ctx.DB().Take(&reward, "id=?", "reward1").Error)

	var count int64
	require.NoError(t, ctx.DB().Model(&entity.Claim{}).Count(&count).Error)
	require.Equal(t, int64(2), reward.Quantity+count)
	require.Equal(t, int64(0), reward.Quantity)
}

func Test_claimDomain_Claim_Concurrent(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 1)

	// The shared in-memory database must stay on a single connection so the
	// two transactions contend on the same rows.
	sqlDB, err := ctx.DB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	d := newClaimDomain(testutil.NewMockLedger())

	claimants := []string{testutil.Follower1, testutil.Follower2}
	errs := make([]error, len(claimants))

	var wg sync.WaitGroup
	for i, claimant := range claimants {
		wg.Add(1)
		go func(i int, claimant string) {
			defer wg.Done()
			claimantCtx := testutil.NewMockContextWithUserID(ctx, claimant)
			_, errs[i] = d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
		}(i, claimant)
	}
	wg.Wait()

	// Exactly one claimant wins the last unit; the loser is told the reward
	// is exhausted.
	var exhausted []error
	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		exhausted = append(exhausted, err)
	}

	require.Equal(t, 1, succeeded)
	require.Len(t, exhausted, 1)

	var errx errorx.Error
	require.ErrorAs(t, exhausted[0], &errx)
	require.Equal(t, errorx.RewardExhausted, errx.Code)

	var reward entity.Reward
	require.NoError(t, ctx.DB().Take(&reward, "id=?", "reward1").Error)
	require.Equal(t, int64(0), reward.Quantity)

	var count int64
	require.NoError(t, ctx.DB().Model(&entity.Claim{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func Test_claimDomain_Approve(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 3)

	d := newClaimDomain(testutil.NewMockLedger())

	claimantCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	resp, err := d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.NoError(t, err)

	// The claimant cannot approve their own claim.
	_, err = d.Approve(claimantCtx, &model.ApproveClaimRequest{ID: resp.ID})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	_, err = d.Approve(ownerCtx, &model.ApproveClaimRequest{ID: resp.ID})
	require.NoError(t, err)

	var claim entity.Claim
	require.NoError(t, ctx.DB().Take(&claim, "id=?", resp.ID).Error)
	require.Equal(t, entity.ClaimApproved, claim.Status)
	require.Equal(t, testutil.Owner1, claim.ApprovedBy)

	// Approving a non-pending claim fails.
	_, err = d.Approve(ownerCtx, &model.ApproveClaimRequest{ID: resp.ID})
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.ClaimNotPending, errx.Code)
}

func Test_claimDomain_Cancel(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 1)

	d := newClaimDomain(testutil.NewMockLedger())

	claimantCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	resp, err := d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.NoError(t, err)

	// A third party cannot cancel.
	otherCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower2)
	_, err = d.Cancel(otherCtx, &model.CancelClaimRequest{ID: resp.ID})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	_, err = d.Cancel(claimantCtx, &model.CancelClaimRequest{ID: resp.ID})
	require.NoError(t, err)

	// The claim is gone and the stock is back.
	err = ctx.DB().Take(&entity.Claim{}, "id=?", resp.ID).Error
	require.Error(t, err)

	var reward entity.Reward
	require.NoError(t, ctx.DB().Take(&reward, "id=?", "reward1").Error)
	require.Equal(t, int64(1), reward.Quantity)

	// The restored stock is claimable again.
	claimantCtx = testutil.NewMockContextWithUserID(ctx, testutil.Follower2)
	_, err = d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.NoError(t, err)
}

func Test_claimDomain_Cancel_Approved(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 1)

	d := newClaimDomain(testutil.NewMockLedger())

	claimantCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	resp, err := d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.NoError(t, err)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	_, err = d.Approve(ownerCtx, &model.ApproveClaimRequest{ID: resp.ID})
	require.NoError(t, err)

	_, err = d.Cancel(claimantCtx, &model.CancelClaimRequest{ID: resp.ID})
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.ClaimNotPending, errx.Code)
}

func Test_claimDomain_Complete(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	token := testutil.InsertToken(ctx, testutil.Owner1)
	testutil.InsertPointsConfig(ctx, testutil.Owner1, 3)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 1)

	ledger := testutil.NewMockLedger()
	d := newClaimDomain(ledger)

	claimantCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	resp, err := d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.NoError(t, err)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	_, err = d.Approve(ownerCtx, &model.ApproveClaimRequest{ID: resp.ID})
	require.NoError(t, err)

	// Fund the claimant's token account: 5 points at rate 3 with 9 decimals
	// is 15e9 base units.
	ata := fundClaimant(t, ctx, ledger, testutil.Follower1, token.MintAccount, 20_000_000_000)

	completed, err := d.Complete(claimantCtx, &model.CompleteClaimRequest{ID: resp.ID})
	require.NoError(t, err)
	require.Equal(t, uint64(15_000_000_000), completed.TokenAmount)
	require.NotEmpty(t, completed.BurnSignature)

	var claim entity.Claim
	require.NoError(t, ctx.DB().Take(&claim, "id=?", resp.ID).Error)
	require.Equal(t, entity.ClaimCompleted, claim.Status)
	require.Equal(t, completed.BurnSignature, claim.BurnSignature)
	require.False(t, claim.CompletedAt.IsZero())

	burns := ledger.CallsOf("burn")
	require.Len(t, burns, 1)
	require.Equal(t, uint64(15_000_000_000), burns[0].Amount)

	balance, err := ledger.TokenBalance(ctx, ata)
	require.NoError(t, err)
	require.Equal(t, uint64(5_000_000_000), balance)

	// Completion is not repeatable.
	_, err = d.Complete(claimantCtx, &model.CompleteClaimRequest{ID: resp.ID})
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.ClaimNotApproved, errx.Code)
}

func Test_claimDomain_Complete_MissingConfig(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertToken(ctx, testutil.Owner1)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 1)

	d := newClaimDomain(testutil.NewMockLedger())

	claimantCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	resp, err := d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.NoError(t, err)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	_, err = d.Approve(ownerCtx, &model.ApproveClaimRequest{ID: resp.ID})
	require.NoError(t, err)

	_, err = d.Complete(claimantCtx, &model.CompleteClaimRequest{ID: resp.ID})
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PointsConfigMissing, errx.Code)

	// The failure leaves the claim approved and retryable.
	var claim entity.Claim
	require.NoError(t, ctx.DB().Take(&claim, "id=?", resp.ID).Error)
	require.Equal(t, entity.ClaimApproved, claim.Status)
}

func Test_claimDomain_Complete_InsufficientBalance(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	token := testutil.InsertToken(ctx, testutil.Owner1)
	testutil.InsertPointsConfig(ctx, testutil.Owner1, 3)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 1)

	ledger := testutil.NewMockLedger()
	d := newClaimDomain(ledger)

	claimantCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	resp, err := d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
	require.NoError(t, err)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	_, err = d.Approve(ownerCtx, &model.ApproveClaimRequest{ID: resp.ID})
	require.NoError(t, err)

	fundClaimant(t, ctx, ledger, testutil.Follower1, token.MintAccount, 1_000_000_000)

	_, err = d.Complete(claimantCtx, &model.CompleteClaimRequest{ID: resp.ID})
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.InsufficientBalance, errx.Code)

	var claim entity.Claim
	require.NoError(t, ctx.DB().Take(&claim, "id=?", resp.ID).Error)
	require.Equal(t, entity.ClaimApproved, claim.Status)
}

func Test_claimDomain_GetList(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertReward(ctx, "reward1", testutil.Owner1, 5, 3)

	d := newClaimDomain(testutil.NewMockLedger())

	for _, claimant := range []string{testutil.Follower1, testutil.Follower2} {
		claimantCtx := testutil.NewMockContextWithUserID(ctx, claimant)
		_, err := d.Claim(claimantCtx, &model.ClaimRewardRequest{RewardID: "reward1"})
		require.NoError(t, err)
	}

	claimantCtx := testutil.NewMockContextWithUserID(ctx, testutil.Follower1)
	mine, err := d.GetListByUser(claimantCtx, &model.GetUserClaimsRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Claims, 1)
	require.Equal(t, testutil.Follower1, mine.Claims[0].UserID)

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Owner1)
	all, err := d.GetListByOwner(ownerCtx, &model.GetOwnerClaimsRequest{})
	require.NoError(t, err)
	require.Len(t, all.Claims, 2)
}

// fundClaimant resolves the claimant's associated token account the way the
// completion path will, and seeds it.
func fundClaimant(
	t *testing.T,
	ctx xcontext.Context,
	ledger *testutil.MockLedger,
	userID, mintAccount string,
	amount uint64,
) common.PublicKey {
	var wallet entity.Wallet
	require.NoError(t, ctx.DB().Take(&wallet, "user_id=?", userID).Error)

	mint := common.PublicKeyFromString(mintAccount)
	owner := common.PublicKeyFromString(wallet.PublicKey)
	ata, err := ledger.GetOrCreateAssociatedAccount(ctx, types.Account{}, owner, mint)
	require.NoError(t, err)

	ledger.SetTokenBalance(ata, amount)
	return ata
}
