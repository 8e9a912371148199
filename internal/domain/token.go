package domain

import (
	"errors"

	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/solana"
	"github.com/loyalx-lab/backend/pkg/storage"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TokenDomain interface {
	Create(xcontext.Context, *model.CreateTokenRequest) (*model.CreateTokenResponse, error)
	List(xcontext.Context, *model.ListTokensRequest) (*model.ListTokensResponse, error)
}

type tokenDomain struct {
	tokenRepo repository.TokenRepository
	userRepo  repository.UserRepository
	keystore  Keystore
	ledger    solana.Ledger
	storage   storage.Storage
}

func NewTokenDomain(
	tokenRepo repository.TokenRepository,
	userRepo repository.UserRepository,
	keystore Keystore,
	ledger solana.Ledger,
	storage storage.Storage,
) *tokenDomain {
	return &tokenDomain{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		keystore:  keystore,
		ledger:    ledger,
		storage:   storage,
	}
}

// tokenMetadataFile is the off-chain metadata document uploaded next to a new
// mint, in the shape wallets expect.
type tokenMetadataFile struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (d *tokenDomain) Create(
	ctx xcontext.Context, req *model.CreateTokenRequest,
) (*model.CreateTokenResponse, error) {
	if req.Name == "" || req.Symbol == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty name or symbol")
	}

	ownerID := xcontext.GetRequestUserID(ctx)
	owner, err := d.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if owner.Role != entity.RoleBusinessOwner {
		return nil, errorx.New(errorx.PermissionDenied, "Only business owners can create a token")
	}

	_, err = d.tokenRepo.GetByOwnerID(ctx, ownerID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "The issuer already has a token series")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.Logger().Errorf("Cannot get token: %v", err)
		return nil, errorx.Unknown
	}

	// Uploads happen before the mint exists. A failed upload aborts with
	// nothing to clean up on the ledger.
	var imageURL string
	if len(req.ImageData) > 0 {
		resp, err := d.storage.Upload(ctx, &storage.UploadObject{
			Prefix:   "tokens",
			FileName: req.ImageName,
			Mime:     req.ImageMime,
			Data:     req.ImageData,
		})
		if err != nil {
			ctx.Logger().Errorf("Cannot upload token image: %v", err)
			return nil, errorx.New(errorx.UploadFailed, "Cannot upload token image")
		}

		imageURL = resp.Url
	}

	metadata, err := d.storage.UploadJson(ctx, "tokens", req.Symbol+".json", tokenMetadataFile{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
		Image:       imageURL,
	})
	if err != nil {
		ctx.Logger().Errorf("Cannot upload token metadata: %v", err)
		return nil, errorx.New(errorx.UploadFailed, "Cannot upload token metadata")
	}

	authority, err := d.keystore.SigningKey(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	decimals := ctx.Configs().Solana.TokenDecimals
	mint, createSig, err := d.ledger.CreateMint(ctx, authority, decimals)
	if err != nil {
		ctx.Logger().Errorf("Cannot create mint: %v", err)
		return nil, ledgerError(err)
	}

	ata, err := d.ledger.GetOrCreateAssociatedAccount(ctx, authority, authority.PublicKey, mint)
	if err != nil {
		ctx.Logger().Errorf("Cannot create token account: %v", err)
		return nil, ledgerError(err)
	}

	ctx.BeginTx()
	defer ctx.RollbackTx()

	token := &entity.Token{
		Base:            entity.Base{ID: mint.ToBase58()},
		OwnerID:         ownerID,
		MintAccount:     mint.ToBase58(),
		TokenAta:        ata.ToBase58(),
		Decimals:        decimals,
		CreateSignature: createSig,
	}

	if err := d.tokenRepo.Create(ctx, token); err != nil {
		ctx.Logger().Errorf("Cannot create token: %v", err)
		return nil, errorx.Unknown
	}

	err = d.tokenRepo.CreateMetadata(ctx, &entity.TokenMetadata{
		MintAccount:   mint.ToBase58(),
		OwnerID:       ownerID,
		Name:          req.Name,
		Symbol:        req.Symbol,
		Description:   req.Description,
		Image:         imageURL,
		MetadataURI:   metadata.Url,
		TransactionID: createSig,
	})
	if err != nil {
		ctx.Logger().Errorf("Cannot create token metadata: %v", err)
		return nil, errorx.Unknown
	}

	ctx.CommitTx()
	return &model.CreateTokenResponse{
		MintAccount:     token.MintAccount,
		TokenAta:        token.TokenAta,
		MetadataURI:     metadata.Url,
		CreateSignature: createSig,
	}, nil
}

func (d *tokenDomain) List(
	ctx xcontext.Context, req *model.ListTokensRequest,
) (*model.ListTokensResponse, error) {
	metadata, err := d.tokenRepo.GetMetadataByMints(ctx, req.Mints)
	if err != nil {
		ctx.Logger().Errorf("Cannot get token metadata: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.ListTokensResponse{Tokens: []model.TokenInfo{}}
	for i := range metadata {
		m := &metadata[i]
		resp.Tokens = append(resp.Tokens, model.TokenInfo{
			MintAccount: m.MintAccount,
			OwnerID:     m.OwnerID,
			Name:        m.Name,
			Symbol:      m.Symbol,
			Description: m.Description,
			Image:       m.Image,
			MetadataURI: m.MetadataURI,
		})
	}

	return resp, nil
}
