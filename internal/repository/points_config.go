package repository

import (
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type PointsConfigurationRepository interface {
	Upsert(xcontext.Context, *entity.PointsConfiguration) error
	GetByIssuerID(xcontext.Context, string) (*entity.PointsConfiguration, error)
}

type pointsConfigurationRepository struct{}

func NewPointsConfigurationRepository() PointsConfigurationRepository {
	return &pointsConfigurationRepository{}
}

func (r *pointsConfigurationRepository) Upsert(ctx xcontext.Context, cfg *entity.PointsConfiguration) error {
	return ctx.DB().
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "issuer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"points_value", "configured_at", "updated_at"}),
		}).
		Create(cfg).Error
}

func (r *pointsConfigurationRepository) GetByIssuerID(
	ctx xcontext.Context, issuerID string,
) (*entity.PointsConfiguration, error) {
	result := &entity.PointsConfiguration{}
	if err := ctx.DB().Take(result, "issuer_id=?", issuerID).Error; err != nil {
		return nil, err
	}

	return result, nil
}
