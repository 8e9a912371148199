package entity

import "time"

type PurchaseItem struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// PointAssignment is an append-only history entry, one per assignment or
// airdrop recipient, immutable once written. The primary key follows the
// store contract: "<userID>_<unix millis>".
type PointAssignment struct {
	ID string `gorm:"primaryKey"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	UserEmail         string
	UserPublicAddress string

	Points uint64
	Tokens uint64

	PurchaseItems Array[PurchaseItem]

	AssignedBy string
	AssignedAt time.Time

	MintSignature     string
	TransferSignature string

	Airdrop bool

	CreatedAt time.Time
}
