package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/loyalx-lab/backend/pkg/solana"
)

// LedgerCall records one mutating ledger operation.
type LedgerCall struct {
	Op        string
	Authority string
	Mint      string
	Account   string
	To        string
	Amount    uint64
}

// MockLedger is an in-memory token ledger. Token balances are tracked per
// account so transfer and burn enforce sufficiency the way the real ledger
// does. Failures can be injected per destination or per operation.
type MockLedger struct {
	mutex sync.Mutex

	balances map[string]uint64
	lamports map[string]uint64
	atas     map[string]common.PublicKey

	sigCounter int

	Calls []LedgerCall

	// TransferErrors fails Transfer calls to the given destination account.
	TransferErrors map[string]error
	// BurnError fails every Burn call.
	BurnError error
}

func NewMockLedger() *MockLedger {
	return &MockLedger{
		balances:       make(map[string]uint64),
		lamports:       make(map[string]uint64),
		atas:           make(map[string]common.PublicKey),
		TransferErrors: make(map[string]error),
	}
}

func (l *MockLedger) CreateMint(
	ctx context.Context, authority types.Account, decimals uint8,
) (common.PublicKey, string, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	mint := types.NewAccount().PublicKey
	l.record("create_mint", authority.PublicKey, mint, common.PublicKey{}, 0)
	return mint, l.signature(), nil
}

func (l *MockLedger) GetOrCreateAssociatedAccount(
	ctx context.Context, payer types.Account, owner, mint common.PublicKey,
) (common.PublicKey, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	key := owner.ToBase58() + "/" + mint.ToBase58()
	ata, ok := l.atas[key]
	if !ok {
		ata = types.NewAccount().PublicKey
		l.atas[key] = ata
	}

	return ata, nil
}

func (l *MockLedger) Mint(
	ctx context.Context, authority types.Account, mint, dest common.PublicKey, amount uint64,
) (string, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.balances[dest.ToBase58()] += amount
	l.record("mint", authority.PublicKey, mint, dest, amount)
	return l.signature(), nil
}

func (l *MockLedger) Transfer(
	ctx context.Context, authority types.Account, mint, from, to common.PublicKey, amount uint64,
) (string, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if err, ok := l.TransferErrors[to.ToBase58()]; ok {
		return "", err
	}

	if l.balances[from.ToBase58()] < amount {
		return "", solana.ErrInsufficientBalance
	}

	l.balances[from.ToBase58()] -= amount
	l.balances[to.ToBase58()] += amount
	l.record("transfer", authority.PublicKey, mint, from, amount)
	return l.signature(), nil
}

func (l *MockLedger) Burn(
	ctx context.Context, authority types.Account, mint, account common.PublicKey, amount uint64,
) (string, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.BurnError != nil {
		return "", l.BurnError
	}

	if l.balances[account.ToBase58()] < amount {
		return "", solana.ErrInsufficientBalance
	}

	l.balances[account.ToBase58()] -= amount
	l.record("burn", authority.PublicKey, mint, account, amount)
	return l.signature(), nil
}

func (l *MockLedger) Balance(ctx context.Context, account common.PublicKey) (uint64, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.lamports[account.ToBase58()], nil
}

func (l *MockLedger) TokenBalance(ctx context.Context, tokenAccount common.PublicKey) (uint64, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.balances[tokenAccount.ToBase58()], nil
}

func (l *MockLedger) RequestTestFunds(ctx context.Context, account common.PublicKey) (string, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.lamports[account.ToBase58()] += 1_000_000_000
	return l.signature(), nil
}

// SetTokenBalance seeds a token account balance.
func (l *MockLedger) SetTokenBalance(account common.PublicKey, amount uint64) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.balances[account.ToBase58()] = amount
}

// AssociatedAccount returns the account GetOrCreateAssociatedAccount resolved
// for owner/mint, if any.
func (l *MockLedger) AssociatedAccount(owner, mint common.PublicKey) (common.PublicKey, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	ata, ok := l.atas[owner.ToBase58()+"/"+mint.ToBase58()]
	return ata, ok
}

// CallsOf filters the recorded calls by operation.
func (l *MockLedger) CallsOf(op string) []LedgerCall {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	result := []LedgerCall{}
	for _, call := range l.Calls {
		if call.Op == op {
			result = append(result, call)
		}
	}

	return result
}

func (l *MockLedger) record(op string, authority, mint, account common.PublicKey, amount uint64) {
	l.Calls = append(l.Calls, LedgerCall{
		Op:        op,
		Authority: authority.ToBase58(),
		Mint:      mint.ToBase58(),
		Account:   account.ToBase58(),
		Amount:    amount,
	})
}

func (l *MockLedger) signature() string {
	l.sigCounter++
	return fmt.Sprintf("mock-signature-%d", l.sigCounter)
}
