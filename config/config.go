package config

import (
	"fmt"
	"time"

	"github.com/loyalx-lab/backend/pkg/storage"
)

type Configs struct {
	Env string

	ApiServer ServerConfigs
	Database  DatabaseConfigs
	Auth      AuthConfigs
	Storage   storage.S3Configs
	Solana    SolanaConfigs
	Keystore  KeystoreConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret     string
	AccessTokenName string
	TokenExpiration time.Duration
}

type SolanaConfigs struct {
	RPCEndpoint string

	// TokenDecimals applies to token series created by this backend.
	TokenDecimals uint8

	// ConfirmAttempts and ConfirmInterval bound the confirmation wait of
	// every mutating ledger operation.
	ConfirmAttempts int
	ConfirmInterval time.Duration
}

type KeystoreConfigs struct {
	// Secret is the server-held secret the per-wallet encryption keys are
	// derived from.
	Secret string
}
