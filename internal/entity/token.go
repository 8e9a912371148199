package entity

import "time"

// Token is an issuer's mintable token series. One per issuer, enforced by an
// existence check at creation plus the unique index on owner_id.
type Token struct {
	Base

	OwnerID string `gorm:"uniqueIndex"`
	Owner   User   `gorm:"foreignKey:OwnerID"`

	MintAccount string `gorm:"uniqueIndex"`
	TokenAta    string

	Decimals uint8

	CreateSignature string
}

// TokenMetadata is the off-chain display metadata of a mint, keyed by its
// mint account.
type TokenMetadata struct {
	MintAccount string `gorm:"primaryKey"`

	OwnerID string `gorm:"index"`

	Name        string
	Symbol      string
	Description string
	Image       string
	MetadataURI string

	TransactionID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
