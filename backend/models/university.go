package models

// University is seeded data and read-only over the API.
type University struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:300;not null" json:"name"`
	ShortName string `gorm:"size:50;uniqueIndex" json:"short_name"`
}
