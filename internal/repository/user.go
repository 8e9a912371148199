package repository

import (
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(xcontext.Context, *entity.User) error
	GetByID(xcontext.Context, string) (*entity.User, error)
	GetFollowers(ctx xcontext.Context, issuerID string) ([]entity.User, error)
	Follow(ctx xcontext.Context, userID, issuerID string) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx xcontext.Context, user *entity.User) error {
	return ctx.DB().Create(user).Error
}

func (r *userRepository) GetByID(ctx xcontext.Context, id string) (*entity.User, error) {
	result := &entity.User{}
	if err := ctx.DB().Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetFollowers(ctx xcontext.Context, issuerID string) ([]entity.User, error) {
	result := []entity.User{}
	err := ctx.DB().
		Joins("join followers on followers.user_id = users.id").
		Where("followers.issuer_id = ?", issuerID).
		Order("users.created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) Follow(ctx xcontext.Context, userID, issuerID string) error {
	return ctx.DB().Create(&entity.Follower{UserID: userID, IssuerID: issuerID}).Error
}
