package models

type Course struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	Name           string   `gorm:"size:200;not null" json:"name"`
	TeacherID      *uint    `gorm:"index" json:"-"`
	Teacher        *Teacher `gorm:"constraint:OnDelete:SET NULL;" json:"teacher"`
	ParentCourseID *uint    `gorm:"index" json:"parent_course"`
	ParentCourse   *Course  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Privacy        Privacy  `gorm:"default:0;not null" json:"privacy"`

	AuthorizedUsers []User `gorm:"many2many:course_authorized_users;" json:"-"`
}

type CourseAuthorizedUser struct {
	CourseID uint `gorm:"primaryKey"`
	UserID   uint `gorm:"primaryKey;index"`
}

func (CourseAuthorizedUser) TableName() string {
	return "course_authorized_users"
}
