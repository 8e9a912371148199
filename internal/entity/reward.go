package entity

type Reward struct {
	Base

	OwnerID string `gorm:"index"`
	Owner   User   `gorm:"foreignKey:OwnerID"`

	Title       string
	Description string
	Image       string

	// PointsCost is the point price a claimant settles when the claim
	// completes.
	PointsCost uint64

	// Quantity never goes negative. It is decremented exactly once per
	// created claim and incremented exactly once per cancelled claim.
	Quantity int64
}
