package entity

import "time"

// PointsConfiguration is the issuer-set exchange rate converting points to
// token display units. At most one row per issuer; upserted, never
// historized.
type PointsConfiguration struct {
	IssuerID string `gorm:"primaryKey"`
	Issuer   User   `gorm:"foreignKey:IssuerID"`

	PointsValue uint64

	ConfiguredAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
