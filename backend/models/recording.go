package models

import "time"

const RecordingStatusSubmitted = "SUBMITTED"

type Recording struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Date        time.Time `json:"date"`
	Status      string    `gorm:"size:200;default:SUBMITTED" json:"status"`
	IsOnline    bool      `gorm:"default:false" json:"is_online"`
	IsConverted bool      `gorm:"default:false" json:"is_converted"`
	CourseID    *uint     `gorm:"index" json:"-"`
	Course      *Course   `gorm:"constraint:OnDelete:CASCADE;" json:"course"`
	UserID      uint      `gorm:"index;not null" json:"user"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Privacy     Privacy   `gorm:"default:0;not null" json:"privacy"`

	Pins []Pin          `gorm:"foreignKey:RecordingID;constraint:OnDelete:CASCADE;" json:"pin_set,omitempty"`
	File *RecordingFile `gorm:"foreignKey:RecordingID;constraint:OnDelete:CASCADE;" json:"-"`
}

// RecordingFile is the uploaded audio of a Recording; at most one per recording.
type RecordingFile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecordingID uint      `gorm:"uniqueIndex;not null" json:"recording"`
	UploadDate  time.Time `gorm:"autoUpdateTime" json:"upload_date"`
	FileURL     string    `gorm:"size:500;not null" json:"file_url"`
}

// Pin marks a moment of a recording. (recording, time) is unique.
type Pin struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	RecordingID uint   `gorm:"uniqueIndex:idx_pin_recording_time;not null" json:"-"`
	Time        int    `gorm:"uniqueIndex:idx_pin_recording_time;not null" json:"time"`
	Text        string `gorm:"size:500" json:"text"`
	MediaURL    string `gorm:"size:500" json:"media_url"`
}
