package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pincorder/backend/models"
)

func orderedPins(db *gorm.DB) *gorm.DB {
	return db.Order("pins.time ASC")
}

func (s *Store) recordingsQuery(withPins bool) *gorm.DB {
	q := s.DB.Model(&models.Recording{}).Preload("Course").Preload("Course.Teacher")
	if withPins {
		q = q.Preload("Pins", orderedPins)
	}
	return q
}

func (s *Store) GetRecording(id uint) (*models.Recording, error) {
	var r models.Recording
	if err := s.recordingsQuery(false).First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *Store) RecordingExists(id uint) (bool, error) {
	return exists(s.DB.Model(&models.Recording{}).Where("id = ?", id))
}

func (s *Store) CreateRecording(r *models.Recording) error {
	return translate(s.DB.Omit(clause.Associations).Create(r).Error)
}

func (s *Store) SaveRecording(r *models.Recording) error {
	return translate(s.DB.Omit(clause.Associations).Save(r).Error)
}

func (s *Store) IsRecordingAuthor(recordingID, userID uint) (bool, error) {
	return exists(s.DB.Model(&models.Recording{}).
		Where("id = ? AND user_id = ?", recordingID, userID))
}

// OwnedRecordings returns the recordings whose author is userID.
func (s *Store) OwnedRecordings(userID uint, withPins bool) ([]models.Recording, error) {
	var recs []models.Recording
	err := s.recordingsQuery(withPins).
		Where("recordings.user_id = ?", userID).
		Order("recordings.id").
		Find(&recs).Error
	return recs, err
}

// SharedRecordings returns the union of the user's shared-set recordings
// with privacy above PRIVATE and every recording belonging to one of
// visibleCourseIDs, whatever its own privacy.
func (s *Store) SharedRecordings(userID uint, visibleCourseIDs []uint, withPins bool) ([]models.Recording, error) {
	linked := s.DB.Model(&models.ProfileSharedRecording{}).
		Select("profile_shared_recordings.recording_id").
		Joins("JOIN profiles p ON p.id = profile_shared_recordings.profile_id").
		Where("p.user_id = ?", userID)

	cond := s.DB.Where("recordings.id IN (?) AND recordings.privacy > ?", linked, models.PrivacyPrivate)
	if len(visibleCourseIDs) > 0 {
		cond = cond.Or("recordings.course_id IN ?", visibleCourseIDs)
	}

	var recs []models.Recording
	err := s.recordingsQuery(withPins).
		Where(cond).
		Order("recordings.id").
		Find(&recs).Error
	return recs, err
}

// SearchRecordingsByName matches name case-insensitively among the user's
// own recordings.
func (s *Store) SearchRecordingsByName(userID uint, name string) ([]models.Recording, error) {
	var recs []models.Recording
	err := s.recordingsQuery(false).
		Where("recordings.user_id = ? AND LOWER(recordings.name) LIKE ?"+likeEscape, userID, containsPattern(name)).
		Order("recordings.id").
		Find(&recs).Error
	return recs, err
}

// AddSharedRecording links the recording into the profile's shared-set.
// Adding a present recording is a no-op.
func (s *Store) AddSharedRecording(profileID, recordingID uint) error {
	return translate(insertIgnore(s.DB, &models.ProfileSharedRecording{ProfileID: profileID, RecordingID: recordingID}))
}

// SharedRecordingLinks returns every recording ID in the user's shared-set.
func (s *Store) SharedRecordingLinks(userID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.ProfileSharedRecording{}).
		Joins("JOIN profiles p ON p.id = profile_shared_recordings.profile_id").
		Where("p.user_id = ?", userID).
		Order("profile_shared_recordings.recording_id").
		Pluck("profile_shared_recordings.recording_id", &ids).Error
	return ids, err
}

// DeleteRecording removes the recording with its pins, file and shared-set
// rows. It returns the storage paths those rows referenced.
func (s *Store) DeleteRecording(id uint) ([]string, error) {
	var files []string
	err := s.Transaction(func(tx *Store) error {
		ok, err := tx.RecordingExists(id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		files, err = tx.deleteRecordings([]uint{id})
		return err
	})
	return files, err
}

// deleteRecordings removes the recordings and their dependent rows and
// returns the audio and pin image paths they held.
func (s *Store) deleteRecordings(ids []uint) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var audio, images []string
	if err := s.DB.Model(&models.RecordingFile{}).Where("recording_id IN ?", ids).Pluck("file_url", &audio).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Pin{}).Where("recording_id IN ? AND media_url <> ''", ids).Pluck("media_url", &images).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Where("recording_id IN ?", ids).Delete(&models.Pin{}).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("recording_id IN ?", ids).Delete(&models.RecordingFile{}).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("recording_id IN ?", ids).Delete(&models.ProfileSharedRecording{}).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("id IN ?", ids).Delete(&models.Recording{}).Error; err != nil {
		return nil, err
	}
	return append(audio, images...), nil
}

func (s *Store) GetRecordingFile(recordingID uint) (*models.RecordingFile, error) {
	var f models.RecordingFile
	if err := s.DB.Where("recording_id = ?", recordingID).First(&f).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *Store) RecordingFileExists(recordingID uint) (bool, error) {
	return exists(s.DB.Model(&models.RecordingFile{}).Where("recording_id = ?", recordingID))
}

// AttachRecordingFile stores the file row and flips the recording online.
func (s *Store) AttachRecordingFile(f *models.RecordingFile) error {
	return s.Transaction(func(tx *Store) error {
		if err := tx.DB.Create(f).Error; err != nil {
			return translate(err)
		}
		return tx.DB.Model(&models.Recording{}).Where("id = ?", f.RecordingID).Update("is_online", true).Error
	})
}

// DetachRecordingFile deletes the file row and flips the recording offline.
func (s *Store) DetachRecordingFile(recordingID uint) error {
	return s.Transaction(func(tx *Store) error {
		res := tx.DB.Where("recording_id = ?", recordingID).Delete(&models.RecordingFile{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.DB.Model(&models.Recording{}).Where("id = ?", recordingID).Update("is_online", false).Error
	})
}
