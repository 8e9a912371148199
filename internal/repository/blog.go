package repository

import (
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/pkg/xcontext"
)

type BlogRepository interface {
	Create(xcontext.Context, *entity.BlogPost) error
	GetByID(xcontext.Context, string) (*entity.BlogPost, error)
	GetByAuthorID(ctx xcontext.Context, authorID string) ([]entity.BlogPost, error)
	Update(ctx xcontext.Context, id string, updates map[string]any) error
	Delete(ctx xcontext.Context, id string) error
}

type blogRepository struct{}

func NewBlogRepository() BlogRepository {
	return &blogRepository{}
}

func (r *blogRepository) Create(ctx xcontext.Context, post *entity.BlogPost) error {
	return ctx.DB().Create(post).Error
}

func (r *blogRepository) GetByID(ctx xcontext.Context, id string) (*entity.BlogPost, error) {
	result := &entity.BlogPost{}
	if err := ctx.DB().Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *blogRepository) GetByAuthorID(ctx xcontext.Context, authorID string) ([]entity.BlogPost, error) {
	result := []entity.BlogPost{}
	err := ctx.DB().
		Where("author_id=?", authorID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *blogRepository) Update(ctx xcontext.Context, id string, updates map[string]any) error {
	return ctx.DB().
		Model(&entity.BlogPost{}).
		Where("id=?", id).
		Updates(updates).Error
}

func (r *blogRepository) Delete(ctx xcontext.Context, id string) error {
	return ctx.DB().Delete(&entity.BlogPost{}, "id=?", id).Error
}
