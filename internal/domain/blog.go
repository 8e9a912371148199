package domain

import (
	"errors"
	"time"

	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/storage"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlogDomain interface {
	Create(xcontext.Context, *model.CreateBlogPostRequest) (*model.CreateBlogPostResponse, error)
	Get(xcontext.Context, *model.GetBlogPostRequest) (*model.GetBlogPostResponse, error)
	GetList(xcontext.Context, *model.GetListBlogPostRequest) (*model.GetListBlogPostResponse, error)
	Update(xcontext.Context, *model.UpdateBlogPostRequest) (*model.UpdateBlogPostResponse, error)
	Delete(xcontext.Context, *model.DeleteBlogPostRequest) (*model.DeleteBlogPostResponse, error)
}

type blogDomain struct {
	blogRepo repository.BlogRepository
	userRepo repository.UserRepository
	storage  storage.Storage
}

func NewBlogDomain(
	blogRepo repository.BlogRepository,
	userRepo repository.UserRepository,
	storage storage.Storage,
) *blogDomain {
	return &blogDomain{blogRepo: blogRepo, userRepo: userRepo, storage: storage}
}

func (d *blogDomain) Create(
	ctx xcontext.Context, req *model.CreateBlogPostRequest,
) (*model.CreateBlogPostResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	authorID := xcontext.GetRequestUserID(ctx)
	author, err := d.userRepo.GetByID(ctx, authorID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if author.Role != entity.RoleBusinessOwner {
		return nil, errorx.New(errorx.PermissionDenied, "Only business owners can publish posts")
	}

	var imageURL string
	if len(req.ImageData) > 0 {
		resp, err := d.storage.Upload(ctx, &storage.UploadObject{
			Prefix:   "blogs",
			FileName: req.ImageName,
			Mime:     req.ImageMime,
			Data:     req.ImageData,
		})
		if err != nil {
			ctx.Logger().Errorf("Cannot upload blog image: %v", err)
			return nil, errorx.New(errorx.UploadFailed, "Cannot upload blog image")
		}

		imageURL = resp.Url
	}

	post := &entity.BlogPost{
		Base:     entity.Base{ID: uuid.NewString()},
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
		Image:    imageURL,
	}

	if err := d.blogRepo.Create(ctx, post); err != nil {
		ctx.Logger().Errorf("Cannot create blog post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateBlogPostResponse{ID: post.ID, Image: imageURL}, nil
}

func (d *blogDomain) Get(
	ctx xcontext.Context, req *model.GetBlogPostRequest,
) (*model.GetBlogPostResponse, error) {
	post, err := d.getPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &model.GetBlogPostResponse{BlogPost: convertBlogPost(post)}, nil
}

func (d *blogDomain) GetList(
	ctx xcontext.Context, req *model.GetListBlogPostRequest,
) (*model.GetListBlogPostResponse, error) {
	if req.AuthorID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty author id")
	}

	posts, err := d.blogRepo.GetByAuthorID(ctx, req.AuthorID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get list blog post: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetListBlogPostResponse{Posts: []model.BlogPost{}}
	for i := range posts {
		resp.Posts = append(resp.Posts, convertBlogPost(&posts[i]))
	}

	return resp, nil
}

func (d *blogDomain) Update(
	ctx xcontext.Context, req *model.UpdateBlogPostRequest,
) (*model.UpdateBlogPostResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	post, err := d.getPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != xcontext.GetRequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	imageURL := post.Image
	if len(req.ImageData) > 0 {
		resp, err := d.storage.Upload(ctx, &storage.UploadObject{
			Prefix:   "blogs",
			FileName: req.ImageName,
			Mime:     req.ImageMime,
			Data:     req.ImageData,
		})
		if err != nil {
			ctx.Logger().Errorf("Cannot upload blog image: %v", err)
			return nil, errorx.New(errorx.UploadFailed, "Cannot upload blog image")
		}

		imageURL = resp.Url
	}

	err = d.blogRepo.Update(ctx, post.ID, map[string]any{
		"title":   req.Title,
		"content": req.Content,
		"image":   imageURL,
	})
	if err != nil {
		ctx.Logger().Errorf("Cannot update blog post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateBlogPostResponse{Image: imageURL}, nil
}

func (d *blogDomain) Delete(
	ctx xcontext.Context, req *model.DeleteBlogPostRequest,
) (*model.DeleteBlogPostResponse, error) {
	post, err := d.getPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != xcontext.GetRequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.blogRepo.Delete(ctx, post.ID); err != nil {
		ctx.Logger().Errorf("Cannot delete blog post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteBlogPostResponse{}, nil
}

func (d *blogDomain) getPost(ctx xcontext.Context, id string) (*entity.BlogPost, error) {
	if id == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	post, err := d.blogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found blog post")
		}

		ctx.Logger().Errorf("Cannot get blog post: %v", err)
		return nil, errorx.Unknown
	}

	return post, nil
}

func convertBlogPost(post *entity.BlogPost) model.BlogPost {
	return model.BlogPost{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Content:   post.Content,
		Image:     post.Image,
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
	}
}
