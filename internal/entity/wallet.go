package entity

import "time"

// Wallet holds a user's custodial signing credential. One per user, created
// lazily on first use, never rotated or deleted.
type Wallet struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	// SecretKey is the AES-GCM sealed ed25519 secret key.
	SecretKey string `gorm:"type:text"`

	PublicKey string `gorm:"index"`

	CreatedAt time.Time
}
