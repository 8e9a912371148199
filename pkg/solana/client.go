package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
)

const testFundsLamports = 1_000_000_000

// rpcLedger is the default Ledger over a JSON-RPC endpoint.
type rpcLedger struct {
	client *client.Client

	confirmAttempts int
	confirmInterval time.Duration
}

func NewRpcLedger(endpoint string, confirmAttempts int, confirmInterval time.Duration) Ledger {
	if endpoint == "" {
		endpoint = rpc.DevnetRPCEndpoint
	}

	return &rpcLedger{
		client:          client.NewClient(endpoint),
		confirmAttempts: confirmAttempts,
		confirmInterval: confirmInterval,
	}
}

func (l *rpcLedger) CreateMint(
	ctx context.Context, authority types.Account, decimals uint8,
) (common.PublicKey, string, error) {
	mint := types.NewAccount()

	rent, err := l.client.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return common.PublicKey{}, "", fmt.Errorf("%w: %v", ErrLedgerRejected, err)
	}

	sig, err := l.sendAndConfirm(ctx, authority, []types.Account{mint},
		system.CreateAccount(system.CreateAccountParam{
			From:     authority.PublicKey,
			New:      mint.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: rent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals: decimals,
			Mint:     mint.PublicKey,
			MintAuth: authority.PublicKey,
		}),
	)
	if err != nil {
		return common.PublicKey{}, "", err
	}

	return mint.PublicKey, sig, nil
}

func (l *rpcLedger) GetOrCreateAssociatedAccount(
	ctx context.Context, payer types.Account, owner, mint common.PublicKey,
) (common.PublicKey, error) {
	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidDestination, err)
	}

	info, err := l.client.GetAccountInfo(ctx, ata.ToBase58())
	if err == nil && info.Owner != (common.PublicKey{}) {
		return ata, nil
	}

	_, err = l.sendAndConfirm(ctx, payer, nil,
		associated_token_account.Create(associated_token_account.CreateParam{
			Funder:                 payer.PublicKey,
			Owner:                  owner,
			Mint:                   mint,
			AssociatedTokenAccount: ata,
		}),
	)
	if err != nil {
		return common.PublicKey{}, err
	}

	return ata, nil
}

func (l *rpcLedger) Mint(
	ctx context.Context, authority types.Account, mint, dest common.PublicKey, amount uint64,
) (string, error) {
	return l.sendAndConfirm(ctx, authority, nil,
		token.MintTo(token.MintToParam{
			Mint:   mint,
			To:     dest,
			Auth:   authority.PublicKey,
			Amount: amount,
		}),
	)
}

func (l *rpcLedger) Transfer(
	ctx context.Context, authority types.Account, mint, from, to common.PublicKey, amount uint64,
) (string, error) {
	if err := l.checkBalance(ctx, from, amount); err != nil {
		return "", err
	}

	return l.sendAndConfirm(ctx, authority, nil,
		token.Transfer(token.TransferParam{
			From:   from,
			To:     to,
			Auth:   authority.PublicKey,
			Amount: amount,
		}),
	)
}

func (l *rpcLedger) Burn(
	ctx context.Context, authority types.Account, mint, account common.PublicKey, amount uint64,
) (string, error) {
	if err := l.checkBalance(ctx, account, amount); err != nil {
		return "", err
	}

	return l.sendAndConfirm(ctx, authority, nil,
		token.Burn(token.BurnParam{
			Account: account,
			Mint:    mint,
			Auth:    authority.PublicKey,
			Amount:  amount,
		}),
	)
}

func (l *rpcLedger) Balance(ctx context.Context, account common.PublicKey) (uint64, error) {
	balance, err := l.client.GetBalance(ctx, account.ToBase58())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLedgerRejected, err)
	}

	return balance, nil
}

func (l *rpcLedger) TokenBalance(ctx context.Context, tokenAccount common.PublicKey) (uint64, error) {
	balance, err := l.client.GetTokenAccountBalance(ctx, tokenAccount.ToBase58())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLedgerRejected, err)
	}

	return balance.Amount, nil
}

func (l *rpcLedger) RequestTestFunds(ctx context.Context, account common.PublicKey) (string, error) {
	sig, err := l.client.RequestAirdrop(ctx, account.ToBase58(), testFundsLamports)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLedgerRejected, err)
	}

	return sig, l.waitForConfirmation(ctx, sig)
}

func (l *rpcLedger) checkBalance(ctx context.Context, tokenAccount common.PublicKey, amount uint64) error {
	balance, err := l.TokenBalance(ctx, tokenAccount)
	if err != nil {
		return err
	}

	if balance < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, balance, amount)
	}

	return nil
}

func (l *rpcLedger) sendAndConfirm(
	ctx context.Context, feePayer types.Account, extraSigners []types.Account, instructions ...types.Instruction,
) (string, error) {
	blockhash, err := l.client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLedgerRejected, err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        feePayer.PublicKey,
			RecentBlockhash: blockhash.Blockhash,
			Instructions:    instructions,
		}),
		Signers: append([]types.Account{feePayer}, extraSigners...),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLedgerRejected, err)
	}

	sig, err := l.client.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLedgerRejected, err)
	}

	return sig, l.waitForConfirmation(ctx, sig)
}

// waitForConfirmation polls the signature status until the ledger reports it
// confirmed or the attempt budget runs out.
func (l *rpcLedger) waitForConfirmation(ctx context.Context, sig string) error {
	for attempt := 0; attempt < l.confirmAttempts; attempt++ {
		status, err := l.client.GetSignatureStatus(ctx, sig)
		if err == nil && status != nil && status.ConfirmationStatus != nil {
			switch *status.ConfirmationStatus {
			case rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.confirmInterval):
		}
	}

	return fmt.Errorf("%w: %s", ErrConfirmationTimeout, sig)
}
