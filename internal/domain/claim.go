package domain

import (
	"errors"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/solana"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// claimExpiry is how long a pending claim stays claimable before its advisory
// expiry timestamp.
const claimExpiry = 72 * time.Hour

type ClaimDomain interface {
	Claim(xcontext.Context, *model.ClaimRewardRequest) (*model.ClaimRewardResponse, error)
	Approve(xcontext.Context, *model.ApproveClaimRequest) (*model.ApproveClaimResponse, error)
	Cancel(xcontext.Context, *model.CancelClaimRequest) (*model.CancelClaimResponse, error)
	Complete(xcontext.Context, *model.CompleteClaimRequest) (*model.CompleteClaimResponse, error)
	Get(xcontext.Context, *model.GetClaimRequest) (*model.GetClaimResponse, error)
	GetListByUser(xcontext.Context, *model.GetUserClaimsRequest) (*model.GetUserClaimsResponse, error)
	GetListByOwner(xcontext.Context, *model.GetOwnerClaimsRequest) (*model.GetOwnerClaimsResponse, error)
}

type claimDomain struct {
	claimRepo  repository.ClaimRepository
	rewardRepo repository.RewardRepository
	userRepo   repository.UserRepository
	configRepo repository.PointsConfigurationRepository
	tokenRepo  repository.TokenRepository
	keystore   Keystore
	ledger     solana.Ledger
}

func NewClaimDomain(
	claimRepo repository.ClaimRepository,
	rewardRepo repository.RewardRepository,
	userRepo repository.UserRepository,
	configRepo repository.PointsConfigurationRepository,
	tokenRepo repository.TokenRepository,
	keystore Keystore,
	ledger solana.Ledger,
) *claimDomain {
	return &claimDomain{
		claimRepo:  claimRepo,
		rewardRepo: rewardRepo,
		userRepo:   userRepo,
		configRepo: configRepo,
		tokenRepo:  tokenRepo,
		keystore:   keystore,
		ledger:     ledger,
	}
}

func (d *claimDomain) Claim(
	ctx xcontext.Context, req *model.ClaimRewardRequest,
) (*model.ClaimRewardResponse, error) {
	if req.RewardID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty reward id")
	}

	reward, err := d.rewardRepo.GetByID(ctx, req.RewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		ctx.Logger().Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.GetRequestUserID(ctx)
	userEmail := "Unknown"
	if user, err := d.userRepo.GetByID(ctx, userID); err == nil {
		userEmail = user.Email
	}

	// The decrement and the claim insert are one logical unit: the guarded
	// decrement decides the race, and the insert rides the same transaction
	// so both land or neither does.
	ctx.BeginTx()
	defer ctx.RollbackTx()

	decremented, err := d.rewardRepo.DecrementQuantity(ctx, reward.ID)
	if err != nil {
		ctx.Logger().Errorf("Cannot decrement reward quantity: %v", err)
		return nil, errorx.Unknown
	}

	if !decremented {
		return nil, errorx.New(errorx.RewardExhausted, "Reward quantity is insufficient")
	}

	claim := &entity.Claim{
		Base:            entity.Base{ID: uuid.NewString()},
		RewardID:        reward.ID,
		UserID:          userID,
		UserEmail:       userEmail,
		BusinessOwnerID: reward.OwnerID,
		Status:          entity.ClaimPending,
		ExpiresAt:       time.Now().Add(claimExpiry),
	}

	if err := d.claimRepo.Create(ctx, claim); err != nil {
		ctx.Logger().Errorf("Cannot create claim: %v", err)
		return nil, errorx.Unknown
	}

	ctx.CommitTx()
	return &model.ClaimRewardResponse{
		ID:        claim.ID,
		Status:    string(claim.Status),
		ExpiresAt: claim.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func (d *claimDomain) Approve(
	ctx xcontext.Context, req *model.ApproveClaimRequest,
) (*model.ApproveClaimResponse, error) {
	claim, err := d.getClaim(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	approverID := xcontext.GetRequestUserID(ctx)
	if claim.BusinessOwnerID != approverID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if claim.Status != entity.ClaimPending {
		return nil, errorx.New(errorx.ClaimNotPending, "Claim is not pending")
	}

	updated, err := d.claimRepo.UpdateStatus(ctx, claim.ID, entity.ClaimPending, &entity.Claim{
		Status:     entity.ClaimApproved,
		ApprovedBy: approverID,
	})
	if err != nil {
		ctx.Logger().Errorf("Cannot approve claim: %v", err)
		return nil, errorx.Unknown
	}

	if !updated {
		return nil, errorx.New(errorx.ClaimNotPending, "Claim is not pending")
	}

	return &model.ApproveClaimResponse{}, nil
}

func (d *claimDomain) Cancel(
	ctx xcontext.Context, req *model.CancelClaimRequest,
) (*model.CancelClaimResponse, error) {
	claim, err := d.getClaim(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	requester := xcontext.GetRequestUserID(ctx)
	if requester != claim.BusinessOwnerID && requester != claim.UserID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	// Approved claims cannot be cancelled: once approved, the issuer has
	// committed.
	if claim.Status != entity.ClaimPending {
		return nil, errorx.New(errorx.ClaimNotPending, "Claim is not pending")
	}

	// Delete and restore quantity as one logical unit, mirroring Claim.
	ctx.BeginTx()
	defer ctx.RollbackTx()

	if err := d.claimRepo.Delete(ctx, claim.ID); err != nil {
		ctx.Logger().Errorf("Cannot delete claim: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.rewardRepo.IncrementQuantity(ctx, claim.RewardID); err != nil {
		ctx.Logger().Errorf("Cannot restore reward quantity: %v", err)
		return nil, errorx.Unknown
	}

	ctx.CommitTx()
	return &model.CancelClaimResponse{}, nil
}

func (d *claimDomain) Complete(
	ctx xcontext.Context, req *model.CompleteClaimRequest,
) (*model.CompleteClaimResponse, error) {
	claim, err := d.getClaim(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	requester := xcontext.GetRequestUserID(ctx)
	if claim.UserID != requester {
		return nil, errorx.New(errorx.PermissionDenied, "Only the claimant can complete a claim")
	}

	if claim.Status != entity.ClaimApproved {
		return nil, errorx.New(errorx.ClaimNotApproved, "Claim is not approved")
	}

	reward, err := d.rewardRepo.GetByID(ctx, claim.RewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		ctx.Logger().Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	token, err := d.tokenRepo.GetByOwnerID(ctx, reward.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NoTokenForIssuer, "The issuer has no token series")
		}

		ctx.Logger().Errorf("Cannot get token: %v", err)
		return nil, errorx.Unknown
	}

	config, err := d.configRepo.GetByIssuerID(ctx, reward.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PointsConfigMissing, "Points configuration not found")
		}

		ctx.Logger().Errorf("Cannot get points configuration: %v", err)
		return nil, errorx.Unknown
	}

	amount, err := tokenAmount(reward.PointsCost, config.PointsValue, token.Decimals)
	if err != nil {
		ctx.Logger().Errorf("Cannot compute token amount: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Token amount is too large")
	}

	wallet, err := d.keystore.SigningKey(ctx, claim.UserID)
	if err != nil {
		return nil, err
	}

	// Nothing below has touched claim state yet: any ledger failure leaves
	// the claim APPROVED and the completion retryable.
	mint := common.PublicKeyFromString(token.MintAccount)
	ata, err := d.ledger.GetOrCreateAssociatedAccount(ctx, wallet, wallet.PublicKey, mint)
	if err != nil {
		ctx.Logger().Errorf("Cannot resolve token account: %v", err)
		return nil, ledgerError(err)
	}

	sig, err := d.ledger.Burn(ctx, wallet, mint, ata, amount)
	if err != nil {
		ctx.Logger().Errorf("Cannot burn tokens: %v", err)
		return nil, ledgerError(err)
	}

	updated, err := d.claimRepo.UpdateStatus(ctx, claim.ID, entity.ClaimApproved, &entity.Claim{
		Status:        entity.ClaimCompleted,
		CompletedAt:   time.Now(),
		BurnSignature: sig,
	})
	if err != nil {
		ctx.Logger().Errorf("Cannot complete claim: %v", err)
		return nil, errorx.Unknown
	}

	if !updated {
		return nil, errorx.New(errorx.ClaimNotApproved, "Claim is not approved")
	}

	return &model.CompleteClaimResponse{BurnSignature: sig, TokenAmount: amount}, nil
}

func (d *claimDomain) Get(
	ctx xcontext.Context, req *model.GetClaimRequest,
) (*model.GetClaimResponse, error) {
	claim, err := d.getClaim(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	requester := xcontext.GetRequestUserID(ctx)
	if requester != claim.UserID && requester != claim.BusinessOwnerID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return &model.GetClaimResponse{Claim: convertClaim(claim)}, nil
}

func (d *claimDomain) GetListByUser(
	ctx xcontext.Context, req *model.GetUserClaimsRequest,
) (*model.GetUserClaimsResponse, error) {
	claims, err := d.claimRepo.GetByUserID(ctx, xcontext.GetRequestUserID(ctx))
	if err != nil {
		ctx.Logger().Errorf("Cannot get list claim: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetUserClaimsResponse{Claims: []model.Claim{}}
	for i := range claims {
		resp.Claims = append(resp.Claims, convertClaim(&claims[i]))
	}

	return resp, nil
}

func (d *claimDomain) GetListByOwner(
	ctx xcontext.Context, req *model.GetOwnerClaimsRequest,
) (*model.GetOwnerClaimsResponse, error) {
	claims, err := d.claimRepo.GetByBusinessOwnerID(ctx, xcontext.GetRequestUserID(ctx))
	if err != nil {
		ctx.Logger().Errorf("Cannot get list claim: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetOwnerClaimsResponse{Claims: []model.Claim{}}
	for i := range claims {
		resp.Claims = append(resp.Claims, convertClaim(&claims[i]))
	}

	return resp, nil
}

func (d *claimDomain) getClaim(ctx xcontext.Context, id string) (*entity.Claim, error) {
	if id == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	claim, err := d.claimRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found claim")
		}

		ctx.Logger().Errorf("Cannot get claim: %v", err)
		return nil, errorx.Unknown
	}

	return claim, nil
}

// tokenAmount converts a point cost to base units through the issuer's
// exchange rate, with integer arithmetic only.
func tokenAmount(pointsCost, pointsValue uint64, decimals uint8) (uint64, error) {
	if pointsCost != 0 && pointsValue > (^uint64(0))/pointsCost {
		return 0, solana.ErrAmountOverflow
	}

	return solana.BaseUnits(pointsCost*pointsValue, decimals)
}

// ledgerError maps a ledger client failure onto the error taxonomy. Timeout
// and balance failures keep their identity so clients can decide whether a
// retry makes sense.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, solana.ErrInsufficientBalance):
		return errorx.New(errorx.InsufficientBalance, "Insufficient token balance")
	case errors.Is(err, solana.ErrConfirmationTimeout):
		return errorx.New(errorx.ConfirmationTimeout, "The ledger did not confirm in time")
	case errors.Is(err, solana.ErrInvalidDestination):
		return errorx.New(errorx.InvalidDestination, "Invalid destination account")
	default:
		return errorx.New(errorx.LedgerRejected, "The ledger rejected the transaction")
	}
}

func convertClaim(claim *entity.Claim) model.Claim {
	completedAt := ""
	if !claim.CompletedAt.IsZero() {
		completedAt = claim.CompletedAt.Format(time.RFC3339)
	}

	return model.Claim{
		ID:              claim.ID,
		RewardID:        claim.RewardID,
		UserID:          claim.UserID,
		UserEmail:       claim.UserEmail,
		BusinessOwnerID: claim.BusinessOwnerID,
		Status:          string(claim.Status),
		CreatedAt:       claim.CreatedAt.Format(time.RFC3339),
		ExpiresAt:       claim.ExpiresAt.Format(time.RFC3339),
		ApprovedBy:      claim.ApprovedBy,
		CompletedAt:     completedAt,
	}
}
