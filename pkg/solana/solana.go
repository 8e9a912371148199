package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

var (
	ErrLedgerRejected      = errors.New("transaction rejected by the ledger")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrInvalidDestination  = errors.New("invalid destination account")
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
	ErrAmountOverflow      = errors.New("token amount overflows base units")
)

// Ledger wraps the token ledger operations this backend consumes. All amounts
// crossing this interface are base units; callers convert display amounts
// with BaseUnits. Every mutating operation returns only after the ledger
// reports the transaction confirmed.
type Ledger interface {
	// CreateMint creates a new mint account with the given decimals and the
	// authority as its mint authority.
	CreateMint(ctx context.Context, authority types.Account, decimals uint8) (common.PublicKey, string, error)

	// GetOrCreateAssociatedAccount resolves the associated token account of
	// owner for mint, creating it if absent. Calling it twice for the same
	// owner/mint returns the same account both times.
	GetOrCreateAssociatedAccount(ctx context.Context, payer types.Account, owner, mint common.PublicKey) (common.PublicKey, error)

	Mint(ctx context.Context, authority types.Account, mint, dest common.PublicKey, amount uint64) (string, error)
	Transfer(ctx context.Context, authority types.Account, mint, from, to common.PublicKey, amount uint64) (string, error)
	Burn(ctx context.Context, authority types.Account, mint, account common.PublicKey, amount uint64) (string, error)

	Balance(ctx context.Context, account common.PublicKey) (uint64, error)
	TokenBalance(ctx context.Context, tokenAccount common.PublicKey) (uint64, error)

	// RequestTestFunds asks the cluster faucet for lamports. Non-production
	// utility.
	RequestTestFunds(ctx context.Context, account common.PublicKey) (string, error)
}

// BaseUnits converts a display amount to base units with integer arithmetic
// only. Floating point would drift for large amounts.
func BaseUnits(display uint64, decimals uint8) (uint64, error) {
	scale := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		scale *= 10
	}

	if display != 0 && scale > (^uint64(0))/display {
		return 0, fmt.Errorf("%w: %d with %d decimals", ErrAmountOverflow, display, decimals)
	}

	return display * scale, nil
}
