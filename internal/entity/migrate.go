package entity

import "gorm.io/gorm"

func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Follower{},
		&Reward{},
		&Claim{},
		&PointsConfiguration{},
		&PointAssignment{},
		&Wallet{},
		&Token{},
		&TokenMetadata{},
		&BlogPost{},
	)
}
