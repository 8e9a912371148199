package repository

import (
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/pkg/xcontext"
)

type PointAssignmentRepository interface {
	// Create appends a history entry. Entries are immutable once written;
	// there is deliberately no update or delete.
	Create(xcontext.Context, *entity.PointAssignment) error
	GetByUserID(ctx xcontext.Context, userID string) ([]entity.PointAssignment, error)
	GetByAssignerID(ctx xcontext.Context, assignerID string) ([]entity.PointAssignment, error)
}

type pointAssignmentRepository struct{}

func NewPointAssignmentRepository() PointAssignmentRepository {
	return &pointAssignmentRepository{}
}

func (r *pointAssignmentRepository) Create(ctx xcontext.Context, assignment *entity.PointAssignment) error {
	return ctx.DB().Create(assignment).Error
}

func (r *pointAssignmentRepository) GetByUserID(
	ctx xcontext.Context, userID string,
) ([]entity.PointAssignment, error) {
	result := []entity.PointAssignment{}
	err := ctx.DB().
		Where("user_id=?", userID).
		Order("assigned_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pointAssignmentRepository) GetByAssignerID(
	ctx xcontext.Context, assignerID string,
) ([]entity.PointAssignment, error) {
	result := []entity.PointAssignment{}
	err := ctx.DB().
		Where("assigned_by=?", assignerID).
		Order("assigned_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
