package entity

import (
	"time"

	"github.com/loyalx-lab/backend/pkg/enum"
)

type ClaimStatus string

var (
	ClaimPending   = enum.New(ClaimStatus("pending"))
	ClaimApproved  = enum.New(ClaimStatus("approved"))
	ClaimCompleted = enum.New(ClaimStatus("completed"))
)

type Claim struct {
	Base

	RewardID string `gorm:"index"`
	Reward   Reward `gorm:"foreignKey:RewardID"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	UserEmail       string
	BusinessOwnerID string `gorm:"index"`

	Status ClaimStatus

	// ExpiresAt is advisory only; no sweeper transitions expired claims.
	ExpiresAt time.Time

	ApprovedBy    string
	CompletedAt   time.Time
	BurnSignature string
}
