package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsStaff      bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt    time.Time `json:"date_joined"`

	Profile *Profile `json:"-"`
}

// Profile is created together with its User and holds the shared-sets.
type Profile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user"`

	SharedRecordings []Recording `gorm:"many2many:profile_shared_recordings;" json:"-"`
	SharedCourses    []Course    `gorm:"many2many:profile_shared_courses;" json:"-"`
}

// ProfileSharedCourse is the join row between a Profile and a Course shared with it.
type ProfileSharedCourse struct {
	ProfileID uint `gorm:"primaryKey"`
	CourseID  uint `gorm:"primaryKey;index"`
}

func (ProfileSharedCourse) TableName() string {
	return "profile_shared_courses"
}

// ProfileSharedRecording is the join row between a Profile and a Recording shared with it.
type ProfileSharedRecording struct {
	ProfileID   uint `gorm:"primaryKey"`
	RecordingID uint `gorm:"primaryKey;index"`
}

func (ProfileSharedRecording) TableName() string {
	return "profile_shared_recordings"
}
