package testutil

import (
	"context"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/loyalx-lab/backend/config"
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/pkg/crypto"
	"github.com/loyalx-lab/backend/pkg/logger"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// KeystoreSecret is the server-held keystore secret of every mock context.
const KeystoreSecret = "fixture-keystore-secret"

// Fixture ids. Owner1 is followed by Follower1..3; Follower3 has no custodial
// wallet, only an external address.
const (
	Owner1    = "owner1"
	Follower1 = "follower1"
	Follower2 = "follower2"
	Follower3 = "follower3"
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Solana: config.SolanaConfigs{
			TokenDecimals:   9,
			ConfirmAttempts: 3,
			ConfirmInterval: time.Millisecond,
		},
		Keystore: config.KeystoreConfigs{Secret: KeystoreSecret},
	}
}

// NewMockContext returns a context over a fresh in-memory database with the
// schema migrated and nothing else.
func NewMockContext() xcontext.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	return xcontext.NewContext(
		context.Background(), nil, nil,
		MockConfigs(),
		logger.NewLogger(logger.SILENCE),
		db,
	)
}

// NewMockContextWithUserID returns a context sharing ctx's database,
// authenticated as userID.
func NewMockContextWithUserID(ctx xcontext.Context, userID string) xcontext.Context {
	newCtx := xcontext.NewContext(
		context.Background(), nil, nil,
		ctx.Configs(), ctx.Logger(), ctx.DB(),
	)
	xcontext.SetRequestUserID(newCtx, userID)
	return newCtx
}

// CreateFixtureDb populates ctx's database with the fixture users, follower
// graph, and custodial wallets.
func CreateFixtureDb(ctx xcontext.Context) {
	db := ctx.DB()

	users := []entity.User{
		{
			Base:  entity.Base{ID: Owner1},
			Email: "owner1@example.com",
			Name:  "Owner One",
			Role:  entity.RoleBusinessOwner,
		},
		{
			Base:  entity.Base{ID: Follower1},
			Email: "follower1@example.com",
			Name:  "Follower One",
			Role:  entity.RoleFollower,
		},
		{
			Base:  entity.Base{ID: Follower2},
			Email: "follower2@example.com",
			Name:  "Follower Two",
			Role:  entity.RoleFollower,
		},
		{
			Base:          entity.Base{ID: Follower3},
			Email:         "follower3@example.com",
			Name:          "Follower Three",
			Role:          entity.RoleFollower,
			PublicAddress: types.NewAccount().PublicKey.ToBase58(),
		},
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			panic(err)
		}
	}

	for _, followerID := range []string{Follower1, Follower2, Follower3} {
		err := db.Create(&entity.Follower{UserID: followerID, IssuerID: Owner1}).Error
		if err != nil {
			panic(err)
		}
	}

	for _, userID := range []string{Owner1, Follower1, Follower2} {
		InsertWallet(ctx, userID)
	}
}

// InsertWallet creates and seals a custodial wallet for userID the way the
// wallet domain would, and returns the account it sealed.
func InsertWallet(ctx xcontext.Context, userID string) types.Account {
	account := types.NewAccount()
	key := crypto.DeriveKey(KeystoreSecret, "wallet:"+userID)

	sealed, err := crypto.Seal(account.PrivateKey, key)
	if err != nil {
		panic(err)
	}

	err = ctx.DB().Create(&entity.Wallet{
		UserID:    userID,
		SecretKey: sealed,
		PublicKey: account.PublicKey.ToBase58(),
	}).Error
	if err != nil {
		panic(err)
	}

	return account
}

// InsertToken gives ownerID a token series with a fresh mint.
func InsertToken(ctx xcontext.Context, ownerID string) *entity.Token {
	mint := types.NewAccount().PublicKey.ToBase58()
	token := &entity.Token{
		Base:        entity.Base{ID: mint},
		OwnerID:     ownerID,
		MintAccount: mint,
		TokenAta:    types.NewAccount().PublicKey.ToBase58(),
		Decimals:    9,
	}

	if err := ctx.DB().Create(token).Error; err != nil {
		panic(err)
	}

	return token
}

// InsertPointsConfig sets ownerID's exchange rate.
func InsertPointsConfig(ctx xcontext.Context, ownerID string, pointsValue uint64) {
	err := ctx.DB().Create(&entity.PointsConfiguration{
		IssuerID:     ownerID,
		PointsValue:  pointsValue,
		ConfiguredAt: time.Now(),
	}).Error
	if err != nil {
		panic(err)
	}
}

// InsertReward creates a reward owned by ownerID with the given cost and
// stock.
func InsertReward(ctx xcontext.Context, id, ownerID string, pointsCost uint64, quantity int64) *entity.Reward {
	reward := &entity.Reward{
		Base:       entity.Base{ID: id},
		OwnerID:    ownerID,
		Title:      "Fixture Reward",
		PointsCost: pointsCost,
		Quantity:   quantity,
	}

	if err := ctx.DB().Create(reward).Error; err != nil {
		panic(err)
	}

	return reward
}
