package domain

import (
	"errors"

	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/storage"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardDomain interface {
	Create(xcontext.Context, *model.CreateRewardRequest) (*model.CreateRewardResponse, error)
	Get(xcontext.Context, *model.GetRewardRequest) (*model.GetRewardResponse, error)
	GetList(xcontext.Context, *model.GetListRewardRequest) (*model.GetListRewardResponse, error)
	Update(xcontext.Context, *model.UpdateRewardRequest) (*model.UpdateRewardResponse, error)
	Delete(xcontext.Context, *model.DeleteRewardRequest) (*model.DeleteRewardResponse, error)
}

type rewardDomain struct {
	rewardRepo repository.RewardRepository
	userRepo   repository.UserRepository
	storage    storage.Storage
}

func NewRewardDomain(
	rewardRepo repository.RewardRepository,
	userRepo repository.UserRepository,
	storage storage.Storage,
) *rewardDomain {
	return &rewardDomain{rewardRepo: rewardRepo, userRepo: userRepo, storage: storage}
}

func (d *rewardDomain) Create(
	ctx xcontext.Context, req *model.CreateRewardRequest,
) (*model.CreateRewardResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	if req.Quantity < 0 {
		return nil, errorx.New(errorx.BadRequest, "Quantity must not be negative")
	}

	ownerID := xcontext.GetRequestUserID(ctx)
	owner, err := d.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if owner.Role != entity.RoleBusinessOwner {
		return nil, errorx.New(errorx.PermissionDenied, "Only business owners can create rewards")
	}

	// The image must be stored before the reward row exists, so a failed
	// upload never leaves a reward pointing at nothing.
	var imageURL string
	if len(req.ImageData) > 0 {
		resp, err := d.storage.Upload(ctx, &storage.UploadObject{
			Prefix:   "rewards",
			FileName: req.ImageName,
			Mime:     req.ImageMime,
			Data:     req.ImageData,
		})
		if err != nil {
			ctx.Logger().Errorf("Cannot upload reward image: %v", err)
			return nil, errorx.New(errorx.UploadFailed, "Cannot upload reward image")
		}

		imageURL = resp.Url
	}

	reward := &entity.Reward{
		Base:        entity.Base{ID: uuid.NewString()},
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Image:       imageURL,
		PointsCost:  req.PointsCost,
		Quantity:    req.Quantity,
	}

	if err := d.rewardRepo.Create(ctx, reward); err != nil {
		ctx.Logger().Errorf("Cannot create reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateRewardResponse{ID: reward.ID, Image: imageURL}, nil
}

func (d *rewardDomain) Get(
	ctx xcontext.Context, req *model.GetRewardRequest,
) (*model.GetRewardResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	reward, err := d.rewardRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		ctx.Logger().Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRewardResponse{Reward: convertReward(reward)}, nil
}

func (d *rewardDomain) GetList(
	ctx xcontext.Context, req *model.GetListRewardRequest,
) (*model.GetListRewardResponse, error) {
	var rewards []entity.Reward
	var err error
	if req.OwnerID != "" {
		rewards, err = d.rewardRepo.GetByOwnerID(ctx, req.OwnerID)
	} else {
		rewards, err = d.rewardRepo.GetList(ctx)
	}

	if err != nil {
		ctx.Logger().Errorf("Cannot get list reward: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetListRewardResponse{Rewards: []model.Reward{}}
	for i := range rewards {
		resp.Rewards = append(resp.Rewards, convertReward(&rewards[i]))
	}

	return resp, nil
}

func (d *rewardDomain) Update(
	ctx xcontext.Context, req *model.UpdateRewardRequest,
) (*model.UpdateRewardResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	reward, err := d.rewardRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		ctx.Logger().Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	if reward.OwnerID != xcontext.GetRequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	imageURL := reward.Image
	if len(req.ImageData) > 0 {
		resp, err := d.storage.Upload(ctx, &storage.UploadObject{
			Prefix:   "rewards",
			FileName: req.ImageName,
			Mime:     req.ImageMime,
			Data:     req.ImageData,
		})
		if err != nil {
			ctx.Logger().Errorf("Cannot upload reward image: %v", err)
			return nil, errorx.New(errorx.UploadFailed, "Cannot upload reward image")
		}

		imageURL = resp.Url
	}

	// Quantity is deliberately absent: it only moves through the claim path,
	// where the guarded decrement and restore keep it consistent.
	err = d.rewardRepo.Update(ctx, reward.ID, map[string]any{
		"title":       req.Title,
		"description": req.Description,
		"image":       imageURL,
		"points_cost": req.PointsCost,
	})
	if err != nil {
		ctx.Logger().Errorf("Cannot update reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateRewardResponse{Image: imageURL}, nil
}

func (d *rewardDomain) Delete(
	ctx xcontext.Context, req *model.DeleteRewardRequest,
) (*model.DeleteRewardResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	reward, err := d.rewardRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		ctx.Logger().Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	if reward.OwnerID != xcontext.GetRequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.rewardRepo.Delete(ctx, req.ID); err != nil {
		ctx.Logger().Errorf("Cannot delete reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteRewardResponse{}, nil
}

func convertReward(reward *entity.Reward) model.Reward {
	return model.Reward{
		ID:          reward.ID,
		OwnerID:     reward.OwnerID,
		Title:       reward.Title,
		Description: reward.Description,
		Image:       reward.Image,
		PointsCost:  reward.PointsCost,
		Quantity:    reward.Quantity,
	}
}
