package repository

import (
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardRepository interface {
	Create(xcontext.Context, *entity.Reward) error
	GetByID(xcontext.Context, string) (*entity.Reward, error)
	GetList(ctx xcontext.Context) ([]entity.Reward, error)
	GetByOwnerID(ctx xcontext.Context, ownerID string) ([]entity.Reward, error)

	// Update applies the given column map. A map is used instead of a struct
	// so zero values like a free reward's points cost are written too.
	Update(ctx xcontext.Context, id string, updates map[string]any) error
	Delete(ctx xcontext.Context, id string) error

	// DecrementQuantity atomically decrements the quantity if it is still
	// positive. It reports whether a row was updated; false means the reward
	// is exhausted.
	DecrementQuantity(ctx xcontext.Context, id string) (bool, error)
	IncrementQuantity(ctx xcontext.Context, id string) error
}

type rewardRepository struct{}

func NewRewardRepository() RewardRepository {
	return &rewardRepository{}
}

func (r *rewardRepository) Create(ctx xcontext.Context, reward *entity.Reward) error {
	return ctx.DB().Create(reward).Error
}

func (r *rewardRepository) GetByID(ctx xcontext.Context, id string) (*entity.Reward, error) {
	result := &entity.Reward{}
	if err := ctx.DB().Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) GetList(ctx xcontext.Context) ([]entity.Reward, error) {
	result := []entity.Reward{}
	if err := ctx.DB().Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) GetByOwnerID(ctx xcontext.Context, ownerID string) ([]entity.Reward, error) {
	result := []entity.Reward{}
	if err := ctx.DB().Find(&result, "owner_id=?", ownerID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) Update(ctx xcontext.Context, id string, updates map[string]any) error {
	return ctx.DB().
		Model(&entity.Reward{}).
		Where("id=?", id).
		Updates(updates).Error
}

func (r *rewardRepository) Delete(ctx xcontext.Context, id string) error {
	return ctx.DB().Delete(&entity.Reward{}, "id=?", id).Error
}

func (r *rewardRepository) DecrementQuantity(ctx xcontext.Context, id string) (bool, error) {
	tx := ctx.DB().
		Model(&entity.Reward{}).
		Where("id=? AND quantity > 0", id).
		Update("quantity", gorm.Expr("quantity - 1"))
	if err := tx.Error; err != nil {
		return false, err
	}

	return tx.RowsAffected > 0, nil
}

func (r *rewardRepository) IncrementQuantity(ctx xcontext.Context, id string) error {
	return ctx.DB().
		Model(&entity.Reward{}).
		Where("id=?", id).
		Update("quantity", gorm.Expr("quantity + 1")).Error
}
