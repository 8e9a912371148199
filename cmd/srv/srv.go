package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/loyalx-lab/backend/config"
	"github.com/loyalx-lab/backend/internal/domain"
	"github.com/loyalx-lab/backend/internal/entity"
	"github.com/loyalx-lab/backend/internal/middleware"
	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/internal/repository"
	"github.com/loyalx-lab/backend/pkg/jwt"
	"github.com/loyalx-lab/backend/pkg/logger"
	"github.com/loyalx-lab/backend/pkg/router"
	"github.com/loyalx-lab/backend/pkg/solana"
	"github.com/loyalx-lab/backend/pkg/storage"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	configs *config.Configs
	logger  logger.Logger

	db      *gorm.DB
	storage storage.Storage
	ledger  solana.Ledger

	userRepo       repository.UserRepository
	rewardRepo     repository.RewardRepository
	claimRepo      repository.ClaimRepository
	configRepo     repository.PointsConfigurationRepository
	assignmentRepo repository.PointAssignmentRepository
	walletRepo     repository.WalletRepository
	tokenRepo      repository.TokenRepository
	blogRepo       repository.BlogRepository

	userDomain   domain.UserDomain
	walletDomain domain.WalletDomain
	rewardDomain domain.RewardDomain
	claimDomain  domain.ClaimDomain
	pointsDomain domain.PointsDomain
	tokenDomain  domain.TokenDomain
	blogDomain   domain.BlogDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	tokenExpiration, err := time.ParseDuration(getEnv("TOKEN_EXPIRATION", "24h"))
	if err != nil {
		panic(err)
	}

	confirmInterval, err := time.ParseDuration(getEnv("SOLANA_CONFIRM_INTERVAL", "2s"))
	if err != nil {
		panic(err)
	}

	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		ApiServer: config.ServerConfigs{
			Host: getEnv("HOST", "localhost"),
			Port: getEnv("PORT", "8080"),
			Cert: getEnv("SERVER_CERT", ""),
			Key:  getEnv("SERVER_KEY", ""),
		},
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "loyalx"),
			Password: getEnv("MYSQL_PASSWORD", "loyalx"),
			Database: getEnv("MYSQL_DATABASE", "loyalx"),
		},
		Auth: config.AuthConfigs{
			TokenSecret:     getEnv("TOKEN_SECRET", "token-secret"),
			AccessTokenName: "access_token",
			TokenExpiration: tokenExpiration,
		},
		Storage: storage.S3Configs{
			Region:         getEnv("STORAGE_REGION", "auto"),
			Endpoint:       getEnv("STORAGE_ENDPOINT", ""),
			PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", ""),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:         getEnv("STORAGE_BUCKET", "loyalx"),
			SSLDisabled:    getEnv("STORAGE_SSL_DISABLE", "false") == "true",
		},
		Solana: config.SolanaConfigs{
			RPCEndpoint:     getEnv("SOLANA_RPC_ENDPOINT", "https://api.devnet.solana.com"),
			TokenDecimals:   uint8(getIntEnv("SOLANA_TOKEN_DECIMALS", 9)),
			ConfirmAttempts: getIntEnv("SOLANA_CONFIRM_ATTEMPTS", 30),
			ConfirmInterval: confirmInterval,
		},
		Keystore: config.KeystoreConfigs{
			Secret: getEnv("KEYSTORE_SECRET", ""),
		},
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	if err := entity.MigrateTable(s.db); err != nil {
		panic(err)
	}
}

func (s *srv) loadStorage() {
	s.storage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadLedger() {
	s.ledger = solana.NewRpcLedger(
		s.configs.Solana.RPCEndpoint,
		s.configs.Solana.ConfirmAttempts,
		s.configs.Solana.ConfirmInterval,
	)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.rewardRepo = repository.NewRewardRepository()
	s.claimRepo = repository.NewClaimRepository()
	s.configRepo = repository.NewPointsConfigurationRepository()
	s.assignmentRepo = repository.NewPointAssignmentRepository()
	s.walletRepo = repository.NewWalletRepository()
	s.tokenRepo = repository.NewTokenRepository()
	s.blogRepo = repository.NewBlogRepository()
}

func (s *srv) loadDomains() {
	tokenEngine := jwt.NewEngine[model.AccessToken](
		s.configs.Auth.TokenSecret, s.configs.Auth.TokenExpiration)

	s.userDomain = domain.NewUserDomain(s.userRepo, tokenEngine)
	s.walletDomain = domain.NewWalletDomain(s.walletRepo, s.ledger)
	s.rewardDomain = domain.NewRewardDomain(s.rewardRepo, s.userRepo, s.storage)
	s.claimDomain = domain.NewClaimDomain(
		s.claimRepo, s.rewardRepo, s.userRepo, s.configRepo, s.tokenRepo,
		s.walletDomain, s.ledger)
	s.pointsDomain = domain.NewPointsDomain(
		s.configRepo, s.assignmentRepo, s.userRepo, s.tokenRepo,
		s.walletDomain, s.ledger)
	s.tokenDomain = domain.NewTokenDomain(
		s.tokenRepo, s.userRepo, s.walletDomain, s.ledger, s.storage)
	s.blogDomain = domain.NewBlogDomain(s.blogRepo, s.userRepo, s.storage)
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Public API
	publicRouter := s.router.Branch()
	{
		router.POST(publicRouter, "/register", s.userDomain.Register)
		router.GET(publicRouter, "/getListReward", s.rewardDomain.GetList)
		router.GET(publicRouter, "/getListToken", s.tokenDomain.List)
		router.GET(publicRouter, "/getBlogPost", s.blogDomain.Get)
		router.GET(publicRouter, "/getListBlogPost", s.blogDomain.GetList)
	}

	// These following APIs need authentication with an access token.
	authRouter := s.router.Branch()
	verifier := jwt.NewVerifier[model.AccessToken](s.configs.Auth.TokenSecret)
	authRouter.Before(middleware.Authenticate(verifier))
	{
		// User API
		router.GET(authRouter, "/getUser", s.userDomain.Get)
		router.POST(authRouter, "/follow", s.userDomain.Follow)
		router.GET(authRouter, "/getFollowers", s.userDomain.GetFollowers)

		// Wallet API
		router.POST(authRouter, "/ensureWallet", s.walletDomain.Ensure)
		router.GET(authRouter, "/getBalance", s.walletDomain.Balance)
		router.POST(authRouter, "/requestTestFunds", s.walletDomain.RequestTestFunds)

		// Reward API
		router.POST(authRouter, "/createReward", s.rewardDomain.Create)
		router.GET(authRouter, "/getReward", s.rewardDomain.Get)
		router.POST(authRouter, "/updateReward", s.rewardDomain.Update)
		router.POST(authRouter, "/deleteReward", s.rewardDomain.Delete)

		// Claim API
		router.POST(authRouter, "/claimReward", s.claimDomain.Claim)
		router.POST(authRouter, "/approveClaim", s.claimDomain.Approve)
		router.POST(authRouter, "/cancelClaim", s.claimDomain.Cancel)
		router.POST(authRouter, "/completeClaim", s.claimDomain.Complete)
		router.GET(authRouter, "/getClaim", s.claimDomain.Get)
		router.GET(authRouter, "/getMyClaims", s.claimDomain.GetListByUser)
		router.GET(authRouter, "/getClaimsToReview", s.claimDomain.GetListByOwner)

		// Points API
		router.POST(authRouter, "/configurePoints", s.pointsDomain.Configure)
		router.GET(authRouter, "/getPointsConfiguration", s.pointsDomain.GetConfiguration)
		router.POST(authRouter, "/assignPoints", s.pointsDomain.Assign)
		router.POST(authRouter, "/airdropPoints", s.pointsDomain.Airdrop)
		router.GET(authRouter, "/getPointsHistory", s.pointsDomain.History)

		// Token API
		router.POST(authRouter, "/createToken", s.tokenDomain.Create)

		// Blog API
		router.POST(authRouter, "/createBlogPost", s.blogDomain.Create)
		router.POST(authRouter, "/updateBlogPost", s.blogDomain.Update)
		router.POST(authRouter, "/deleteBlogPost", s.blogDomain.Delete)
	}
}

func (s *srv) startServer() {
	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on %s", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("invalid value of %s: %v", key, err))
	}

	return parsed
}
