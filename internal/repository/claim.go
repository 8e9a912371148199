package repository

import (
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/pkg/xcontext"
)

type ClaimRepository interface {
	Create(xcontext.Context, *entity.Claim) error
	GetByID(xcontext.Context, string) (*entity.Claim, error)
	GetByUserID(ctx xcontext.Context, userID string) ([]entity.Claim, error)
	GetByBusinessOwnerID(ctx xcontext.Context, ownerID string) ([]entity.Claim, error)
	Delete(ctx xcontext.Context, id string) error

	// UpdateStatus moves a claim from one status to another. The transition
	// is guarded on the current status so a concurrent transition loses. It
	// reports whether a row was updated; false means the claim left the
	// expected status.
	UpdateStatus(ctx xcontext.Context, id string, from entity.ClaimStatus, data *entity.Claim) (bool, error)
}

type claimRepository struct{}

func NewClaimRepository() ClaimRepository {
	return &claimRepository{}
}

func (r *claimRepository) Create(ctx xcontext.Context, claim *entity.Claim) error {
	return ctx.DB().Create(claim).Error
}

func (r *claimRepository) GetByID(ctx xcontext.Context, id string) (*entity.Claim, error) {
	result := &entity.Claim{}
	if err := ctx.DB().Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *claimRepository) GetByUserID(ctx xcontext.Context, userID string) ([]entity.Claim, error) {
	result := []entity.Claim{}
	err := ctx.DB().
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *claimRepository) GetByBusinessOwnerID(ctx xcontext.Context, ownerID string) ([]entity.Claim, error) {
	result := []entity.Claim{}
	err := ctx.DB().
		Joins("join rewards on rewards.id = claims.reward_id").
		Where("rewards.owner_id = ?", ownerID).
		Order("claims.created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *claimRepository) Delete(ctx xcontext.Context, id string) error {
	return ctx.DB().Delete(&entity.Claim{}, "id=?", id).Error
}

func (r *claimRepository) UpdateStatus(
	ctx xcontext.Context, id string, from entity.ClaimStatus, data *entity.Claim,
) (bool, error) {
	tx := ctx.DB().
		Model(&entity.Claim{}).
		Where("id=? AND status=?", id, from).
		Updates(data)
	if err := tx.Error; err != nil {
		return false, err
	}

	return tx.RowsAffected > 0, nil
}
