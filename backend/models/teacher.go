package models

type Teacher struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:300;not null" json:"name"`
	Role         string      `gorm:"size:300" json:"role"`
	Org          string      `gorm:"size:300" json:"org"`
	Website      string      `gorm:"size:300" json:"website"`
	UniversityID *uint       `json:"university"`
	University   *University `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	Privacy      Privacy     `gorm:"default:0;not null" json:"privacy"`

	AuthorizedUsers []User `gorm:"many2many:teacher_authorized_users;" json:"-"`
}

type TeacherAuthorizedUser struct {
	TeacherID uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey;index"`
}

func (TeacherAuthorizedUser) TableName() string {
	return "teacher_authorized_users"
}
