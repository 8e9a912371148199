package domain

import (
	"errors"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/crypto"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/solana"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Keystore decrypts a user's custodial signing credential on demand. Each
// call may re-fetch and re-decrypt; decrypted keys never outlive the
// operation that asked for them.
type Keystore interface {
	SigningKey(ctx xcontext.Context, userID string) (types.Account, error)
}

type WalletDomain interface {
	Keystore

	Ensure(xcontext.Context, *model.EnsureWalletRequest) (*model.EnsureWalletResponse, error)
	Balance(xcontext.Context, *model.GetBalanceRequest) (*model.GetBalanceResponse, error)
	RequestTestFunds(xcontext.Context, *model.RequestTestFundsRequest) (*model.RequestTestFundsResponse, error)
}

type walletDomain struct {
	walletRepo repository.WalletRepository
	ledger     solana.Ledger
}

func NewWalletDomain(walletRepo repository.WalletRepository, ledger solana.Ledger) *walletDomain {
	return &walletDomain{walletRepo: walletRepo, ledger: ledger}
}

func (d *walletDomain) SigningKey(ctx xcontext.Context, userID string) (types.Account, error) {
	wallet, err := d.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Account{}, errorx.New(errorx.KeyNotFound, "No wallet found for this user")
		}

		ctx.Logger().Errorf("Cannot get wallet: %v", err)
		return types.Account{}, errorx.Unknown
	}

	key := walletKey(ctx, userID)
	secret, err := crypto.Open(wallet.SecretKey, key)
	if err != nil {
		ctx.Logger().Errorf("Cannot decrypt wallet of %s: %v", userID, err)
		return types.Account{}, errorx.New(errorx.DecryptionFailed, "Cannot decrypt signing key")
	}

	account, err := types.AccountFromBytes(secret)
	if err != nil {
		ctx.Logger().Errorf("Decrypted key of %s is not parseable: %v", userID, err)
		return types.Account{}, errorx.New(errorx.DecryptionFailed, "Cannot decrypt signing key")
	}

	return account, nil
}

// Ensure lazily creates the caller's wallet on first use. A wallet is created
// at most once and never rotated.
func (d *walletDomain) Ensure(
	ctx xcontext.Context, req *model.EnsureWalletRequest,
) (*model.EnsureWalletResponse, error) {
	userID := xcontext.GetRequestUserID(ctx)

	existing, err := d.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return &model.EnsureWalletResponse{PublicKey: existing.PublicKey, Created: false}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.Logger().Errorf("Cannot get wallet: %v", err)
		return nil, errorx.Unknown
	}

	account := types.NewAccount()
	sealed, err := crypto.Seal(account.PrivateKey, walletKey(ctx, userID))
	if err != nil {
		ctx.Logger().Errorf("Cannot seal new wallet: %v", err)
		return nil, errorx.Unknown
	}

	wallet := &entity.Wallet{
		UserID:    userID,
		SecretKey: sealed,
		PublicKey: account.PublicKey.ToBase58(),
	}

	if err := d.walletRepo.Create(ctx, wallet); err != nil {
		ctx.Logger().Errorf("Cannot create wallet: %v", err)
		return nil, errorx.Unknown
	}

	return &model.EnsureWalletResponse{PublicKey: wallet.PublicKey, Created: true}, nil
}

func (d *walletDomain) Balance(
	ctx xcontext.Context, req *model.GetBalanceRequest,
) (*model.GetBalanceResponse, error) {
	account, err := d.SigningKey(ctx, xcontext.GetRequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	lamports, err := d.ledger.Balance(ctx, account.PublicKey)
	if err != nil {
		ctx.Logger().Errorf("Cannot get balance: %v", err)
		return nil, errorx.New(errorx.LedgerRejected, "Cannot get balance")
	}

	return &model.GetBalanceResponse{Lamports: lamports}, nil
}

func (d *walletDomain) RequestTestFunds(
	ctx xcontext.Context, req *model.RequestTestFundsRequest,
) (*model.RequestTestFundsResponse, error) {
	account, err := d.SigningKey(ctx, xcontext.GetRequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	sig, err := d.ledger.RequestTestFunds(ctx, account.PublicKey)
	if err != nil {
		ctx.Logger().Errorf("Cannot request test funds: %v", err)
		return nil, errorx.New(errorx.LedgerRejected, "Cannot request test funds")
	}

	return &model.RequestTestFundsResponse{Signature: sig}, nil
}

func walletKey(ctx xcontext.Context, userID string) []byte {
	return crypto.DeriveKey(ctx.Configs().Keystore.Secret, "wallet:"+userID)
}
