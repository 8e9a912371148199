package repository

import (
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/pkg/xcontext"
)

// metadataChunkSize is the store's limit for IN queries.
const metadataChunkSize = 30

type TokenRepository interface {
	Create(xcontext.Context, *entity.Token) error
	GetByOwnerID(xcontext.Context, string) (*entity.Token, error)
	CreateMetadata(xcontext.Context, *entity.TokenMetadata) error
	GetMetadataByMints(ctx xcontext.Context, mints []string) ([]entity.TokenMetadata, error)
}

type tokenRepository struct{}

func NewTokenRepository() TokenRepository {
	return &tokenRepository{}
}

func (r *tokenRepository) Create(ctx xcontext.Context, token *entity.Token) error {
	return ctx.DB().Create(token).Error
}

func (r *tokenRepository) GetByOwnerID(ctx xcontext.Context, ownerID string) (*entity.Token, error) {
	result := &entity.Token{}
	if err := ctx.DB().Take(result, "owner_id=?", ownerID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tokenRepository) CreateMetadata(ctx xcontext.Context, metadata *entity.TokenMetadata) error {
	return ctx.DB().Create(metadata).Error
}

func (r *tokenRepository) GetMetadataByMints(
	ctx xcontext.Context, mints []string,
) ([]entity.TokenMetadata, error) {
	result := []entity.TokenMetadata{}
	for start := 0; start < len(mints); start += metadataChunkSize {
		end := start + metadataChunkSize
		if end > len(mints) {
			end = len(mints)
		}

		chunk := []entity.TokenMetadata{}
		if err := ctx.DB().Find(&chunk, "mint_account IN (?)", mints[start:end]).Error; err != nil {
			return nil, err
		}

		result = append(result, chunk...)
	}

	return result, nil
}
