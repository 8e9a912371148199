package entity

// BlogPost is a business owner's announcement post. Content is stored as the
// editor produced it (HTML).
type BlogPost struct {
	Base

	AuthorID string `gorm:"index"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	Title   string
	Content string `gorm:"type:text"`
	Image   string
}
