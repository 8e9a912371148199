package domain

import (
	"errors"

	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/enum"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/jwt"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserDomain interface {
	Register(xcontext.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Get(xcontext.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	Follow(xcontext.Context, *model.FollowRequest) (*model.FollowResponse, error)
	GetFollowers(xcontext.Context, *model.GetFollowersRequest) (*model.GetFollowersResponse, error)
}

type userDomain struct {
	userRepo    repository.UserRepository
	tokenEngine *jwt.Engine[model.AccessToken]
}

func NewUserDomain(
	userRepo repository.UserRepository,
	tokenEngine *jwt.Engine[model.AccessToken],
) *userDomain {
	return &userDomain{userRepo: userRepo, tokenEngine: tokenEngine}
}

func (d *userDomain) Register(
	ctx xcontext.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	if req.Email == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty email")
	}

	role, err := enum.ToEnum[entity.UserRole](req.Role)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid role %s", req.Role)
	}

	user := &entity.User{
		Base:          entity.Base{ID: uuid.NewString()},
		Email:         req.Email,
		Name:          req.Name,
		Role:          role,
		PublicAddress: req.PublicAddress,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		ctx.Logger().Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	token, err := d.tokenEngine.Generate(user.ID, model.AccessToken{
		ID:    user.ID,
		Email: user.Email,
	})
	if err != nil {
		ctx.Logger().Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterResponse{ID: user.ID, AccessToken: token}, nil
}

func (d *userDomain) Get(
	ctx xcontext.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.GetRequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		ctx.Logger().Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserResponse{User: convertUser(user)}, nil
}

func (d *userDomain) Follow(
	ctx xcontext.Context, req *model.FollowRequest,
) (*model.FollowResponse, error) {
	if req.IssuerID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty issuer id")
	}

	issuer, err := d.userRepo.GetByID(ctx, req.IssuerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found issuer")
		}

		ctx.Logger().Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if issuer.Role != entity.RoleBusinessOwner {
		return nil, errorx.New(errorx.BadRequest, "Only business owners can be followed")
	}

	err = d.userRepo.Follow(ctx, xcontext.GetRequestUserID(ctx), issuer.ID)
	if err != nil {
		ctx.Logger().Errorf("Cannot follow: %v", err)
		return nil, errorx.Unknown
	}

	return &model.FollowResponse{}, nil
}

func (d *userDomain) GetFollowers(
	ctx xcontext.Context, req *model.GetFollowersRequest,
) (*model.GetFollowersResponse, error) {
	issuerID := xcontext.GetRequestUserID(ctx)
	issuer, err := d.userRepo.GetByID(ctx, issuerID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if issuer.Role != entity.RoleBusinessOwner {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	followers, err := d.userRepo.GetFollowers(ctx, issuerID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get followers: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetFollowersResponse{Followers: []model.User{}}
	for i := range followers {
		resp.Followers = append(resp.Followers, convertUser(&followers[i]))
	}

	return resp, nil
}

func convertUser(user *entity.User) model.User {
	return model.User{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          string(user.Role),
		PublicAddress: user.PublicAddress,
	}
}
