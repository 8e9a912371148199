package domain

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/solana"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PointsDomain interface {
	Configure(xcontext.Context, *model.ConfigurePointsRequest) (*model.ConfigurePointsResponse, error)
	GetConfiguration(xcontext.Context, *model.GetPointsConfigurationRequest) (*model.GetPointsConfigurationResponse, error)
	Assign(xcontext.Context, *model.AssignPointsRequest) (*model.AssignPointsResponse, error)
	Airdrop(xcontext.Context, *model.AirdropPointsRequest) (*model.AirdropPointsResponse, error)
	History(xcontext.Context, *model.PointsHistoryRequest) (*model.PointsHistoryResponse, error)
}

type pointsDomain struct {
	configRepo     repository.PointsConfigurationRepository
	assignmentRepo repository.PointAssignmentRepository
	userRepo       repository.UserRepository
	tokenRepo      repository.TokenRepository
	keystore       Keystore
	ledger         solana.Ledger

	// Transactions signed by the same authority must not race: the ledger
	// rejects a transaction whose recent blockhash was consumed by another
	// one in flight. One lock per issuer authority.
	mutex       sync.Mutex
	authorities map[string]*sync.Mutex
}

func NewPointsDomain(
	configRepo repository.PointsConfigurationRepository,
	assignmentRepo repository.PointAssignmentRepository,
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	keystore Keystore,
	ledger solana.Ledger,
) *pointsDomain {
	return &pointsDomain{
		configRepo:     configRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		keystore:       keystore,
		ledger:         ledger,
		authorities:    make(map[string]*sync.Mutex),
	}
}

func (d *pointsDomain) Configure(
	ctx xcontext.Context, req *model.ConfigurePointsRequest,
) (*model.ConfigurePointsResponse, error) {
	if req.PointsValue == 0 {
		return nil, errorx.New(errorx.BadRequest, "Points value must be positive")
	}

	issuerID := xcontext.GetRequestUserID(ctx)
	issuer, err := d.userRepo.GetByID(ctx, issuerID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if issuer.Role != entity.RoleBusinessOwner {
		return nil, errorx.New(errorx.PermissionDenied, "Only business owners can configure points")
	}

	err = d.configRepo.Upsert(ctx, &entity.PointsConfiguration{
		IssuerID:     issuerID,
		PointsValue:  req.PointsValue,
		ConfiguredAt: time.Now(),
	})
	if err != nil {
		ctx.Logger().Errorf("Cannot upsert points configuration: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ConfigurePointsResponse{}, nil
}

func (d *pointsDomain) GetConfiguration(
	ctx xcontext.Context, req *model.GetPointsConfigurationRequest,
) (*model.GetPointsConfigurationResponse, error) {
	issuerID := req.IssuerID
	if issuerID == "" {
		issuerID = xcontext.GetRequestUserID(ctx)
	}

	config, err := d.configRepo.GetByIssuerID(ctx, issuerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PointsConfigMissing, "Points configuration not found")
		}

		ctx.Logger().Errorf("Cannot get points configuration: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPointsConfigurationResponse{PointsValue: config.PointsValue}, nil
}

func (d *pointsDomain) Assign(
	ctx xcontext.Context, req *model.AssignPointsRequest,
) (*model.AssignPointsResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if req.Points == 0 {
		return nil, errorx.New(errorx.BadRequest, "Points must be positive")
	}

	issuerID := xcontext.GetRequestUserID(ctx)
	issuance, err := d.prepareIssuance(ctx, issuerID)
	if err != nil {
		return nil, err
	}

	recipient, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		ctx.Logger().Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	lock := d.authorityLock(issuance.authority.PublicKey.ToBase58())
	lock.Lock()
	defer lock.Unlock()

	record, err := d.issueTo(ctx, issuance, recipient, req.Points, req.PurchaseItems, false)
	if err != nil {
		return nil, err
	}

	return &model.AssignPointsResponse{
		Tokens:            record.Tokens,
		MintSignature:     record.MintSignature,
		TransferSignature: record.TransferSignature,
	}, nil
}

// Airdrop issues the same point amount to every follower of the caller.
// Recipients are processed one at a time; a failed recipient is reported in
// the result and never rolls back the ones already settled.
func (d *pointsDomain) Airdrop(
	ctx xcontext.Context, req *model.AirdropPointsRequest,
) (*model.AirdropPointsResponse, error) {
	if req.Points == 0 {
		return nil, errorx.New(errorx.BadRequest, "Points must be positive")
	}

	issuerID := xcontext.GetRequestUserID(ctx)
	issuance, err := d.prepareIssuance(ctx, issuerID)
	if err != nil {
		return nil, err
	}

	followers, err := d.userRepo.GetFollowers(ctx, issuerID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get followers: %v", err)
		return nil, errorx.Unknown
	}

	lock := d.authorityLock(issuance.authority.PublicKey.ToBase58())
	lock.Lock()
	defer lock.Unlock()

	resp := &model.AirdropPointsResponse{Results: []model.AirdropResult{}}
	for i := range followers {
		follower := &followers[i]
		result := model.AirdropResult{UserID: follower.ID, UserEmail: follower.Email}

		record, err := d.issueTo(ctx, issuance, follower, req.Points, nil, true)
		if err != nil {
			ctx.Logger().Warnf("Airdrop to %s failed: %v", follower.ID, err)
			result.Error = err.Error()
		} else {
			result.Succeeded = true
			result.MintSignature = record.MintSignature
			result.TransferSignature = record.TransferSignature
		}

		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}

func (d *pointsDomain) History(
	ctx xcontext.Context, req *model.PointsHistoryRequest,
) (*model.PointsHistoryResponse, error) {
	requester := xcontext.GetRequestUserID(ctx)
	userID := req.UserID
	if userID == "" {
		userID = requester
	}

	if userID != requester {
		user, err := d.userRepo.GetByID(ctx, requester)
		if err != nil {
			ctx.Logger().Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		if user.Role != entity.RoleBusinessOwner {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	assignments, err := d.assignmentRepo.GetByUserID(ctx, userID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get point assignments: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.PointsHistoryResponse{Entries: []model.PointsHistoryEntry{}}
	for i := range assignments {
		resp.Entries = append(resp.Entries, convertAssignment(&assignments[i]))
	}

	return resp, nil
}

// issuance bundles everything an issuer needs resolved before minting:
// exchange rate, token series, and the decrypted authority.
type issuance struct {
	config    *entity.PointsConfiguration
	token     *entity.Token
	authority types.Account
}

func (d *pointsDomain) prepareIssuance(ctx xcontext.Context, issuerID string) (*issuance, error) {
	config, err := d.configRepo.GetByIssuerID(ctx, issuerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PointsConfigMissing, "Points configuration not found")
		}

		ctx.Logger().Errorf("Cannot get points configuration: %v", err)
		return nil, errorx.Unknown
	}

	token, err := d.tokenRepo.GetByOwnerID(ctx, issuerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NoTokenForIssuer, "The issuer has no token series")
		}

		ctx.Logger().Errorf("Cannot get token: %v", err)
		return nil, errorx.Unknown
	}

	authority, err := d.keystore.SigningKey(ctx, issuerID)
	if err != nil {
		return nil, err
	}

	return &issuance{config: config, token: token, authority: authority}, nil
}

// issueTo settles one recipient: mint to the authority's account, transfer to
// the recipient's account, then append the history record. The record is
// written only after both ledger operations confirmed.
func (d *pointsDomain) issueTo(
	ctx xcontext.Context,
	issuance *issuance,
	recipient *entity.User,
	points uint64,
	items []model.PurchaseItem,
	airdrop bool,
) (*entity.PointAssignment, error) {
	recipientKey, err := d.recipientKey(ctx, recipient)
	if err != nil {
		return nil, err
	}

	amount, err := tokenAmount(points, issuance.config.PointsValue, issuance.token.Decimals)
	if err != nil {
		ctx.Logger().Errorf("Cannot compute token amount: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Token amount is too large")
	}

	mint := common.PublicKeyFromString(issuance.token.MintAccount)
	authorityAta := common.PublicKeyFromString(issuance.token.TokenAta)

	recipientAta, err := d.ledger.GetOrCreateAssociatedAccount(
		ctx, issuance.authority, recipientKey, mint)
	if err != nil {
		ctx.Logger().Errorf("Cannot resolve recipient token account: %v", err)
		return nil, ledgerError(err)
	}

	mintSig, err := d.ledger.Mint(ctx, issuance.authority, mint, authorityAta, amount)
	if err != nil {
		ctx.Logger().Errorf("Cannot mint tokens: %v", err)
		return nil, ledgerError(err)
	}

	transferSig, err := d.ledger.Transfer(
		ctx, issuance.authority, mint, authorityAta, recipientAta, amount)
	if err != nil {
		ctx.Logger().Errorf("Cannot transfer tokens: %v", err)
		return nil, ledgerError(err)
	}

	purchaseItems := make(entity.Array[entity.PurchaseItem], 0, len(items))
	for _, item := range items {
		purchaseItems = append(purchaseItems,
			entity.PurchaseItem{ItemName: item.ItemName, Quantity: item.Quantity})
	}

	record := &entity.PointAssignment{
		ID:                fmt.Sprintf("%s_%d", recipient.ID, time.Now().UnixMilli()),
		UserID:            recipient.ID,
		UserEmail:         recipient.Email,
		UserPublicAddress: recipientKey.ToBase58(),
		Points:            points,
		Tokens:            amount,
		PurchaseItems:     purchaseItems,
		AssignedBy:        issuance.token.OwnerID,
		AssignedAt:        time.Now(),
		MintSignature:     mintSig,
		TransferSignature: transferSig,
		Airdrop:           airdrop,
	}

	if err := d.assignmentRepo.Create(ctx, record); err != nil {
		ctx.Logger().Errorf("Cannot create point assignment: %v", err)
		return nil, errorx.Unknown
	}

	return record, nil
}

// recipientKey resolves where a recipient receives tokens: their custodial
// wallet if they have one, otherwise the external address on their profile.
func (d *pointsDomain) recipientKey(
	ctx xcontext.Context, recipient *entity.User,
) (common.PublicKey, error) {
	account, err := d.keystore.SigningKey(ctx, recipient.ID)
	if err == nil {
		return account.PublicKey, nil
	}

	var errx errorx.Error
	if !errors.As(err, &errx) || errx.Code != errorx.KeyNotFound {
		return common.PublicKey{}, err
	}

	if recipient.PublicAddress == "" {
		return common.PublicKey{}, errorx.New(
			errorx.InvalidDestination, "User %s has no wallet or public address", recipient.ID)
	}

	return common.PublicKeyFromString(recipient.PublicAddress), nil
}

func (d *pointsDomain) authorityLock(authority string) *sync.Mutex {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	lock, ok := d.authorities[authority]
	if !ok {
		lock = &sync.Mutex{}
		d.authorities[authority] = lock
	}

	return lock
}

func convertAssignment(assignment *entity.PointAssignment) model.PointsHistoryEntry {
	items := make([]model.PurchaseItem, 0, len(assignment.PurchaseItems))
	for _, item := range assignment.PurchaseItems {
		items = append(items, model.PurchaseItem{ItemName: item.ItemName, Quantity: item.Quantity})
	}

	return model.PointsHistoryEntry{
		ID:                assignment.ID,
		UserID:            assignment.UserID,
		UserEmail:         assignment.UserEmail,
		Points:            assignment.Points,
		Tokens:            assignment.Tokens,
		PurchaseItems:     items,
		AssignedBy:        assignment.AssignedBy,
		AssignedAt:        assignment.AssignedAt.Format(time.RFC3339),
		MintSignature:     assignment.MintSignature,
		TransferSignature: assignment.TransferSignature,
		Airdrop:           assignment.Airdrop,
	}
}
