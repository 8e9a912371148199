package repository

import (
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/pkg/xcontext"
)

type WalletRepository interface {
	Create(xcontext.Context, *entity.Wallet) error
	GetByUserID(xcontext.Context, string) (*entity.Wallet, error)
}

type walletRepository struct{}

func NewWalletRepository() WalletRepository {
	return &walletRepository{}
}

func (r *walletRepository) Create(ctx xcontext.Context, wallet *entity.Wallet) error {
	return ctx.DB().Create(wallet).Error
}

func (r *walletRepository) GetByUserID(ctx xcontext.Context, userID string) (*entity.Wallet, error) {
	result := &entity.Wallet{}
	if err := ctx.DB().Take(result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return result, nil
}
