package entity

import (
	"time"

	"github.com/loyalx-lab/backend/pkg/enum"
)

type UserRole string

var (
	RoleBusinessOwner = enum.New(UserRole("business_owner"))
	RoleFollower      = enum.New(UserRole("follower"))
)

type User struct {
	Base

	Email         string `gorm:"index"`
	Name          string
	Role          UserRole
	PublicAddress string
}

// Follower links a follower account to the business owner it follows. The
// follower set of an issuer is the airdrop audience.
type Follower struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	IssuerID string `gorm:"primaryKey"`
	Issuer   User   `gorm:"foreignKey:IssuerID"`

	CreatedAt time.Time
}
