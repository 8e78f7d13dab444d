package store

import (
	"fmt"

	"pincorder/backend/models"
)

// CreateUser inserts the user and its Profile in one transaction.
func (s *Store) CreateUser(u *models.User) error {
	return translate(s.Transaction(func(tx *Store) error {
		if err := tx.DB.Omit("Profile").Create(u).Error; err != nil {
			return translate(err)
		}
		profile := &models.Profile{UserID: u.ID}
		if err := tx.DB.Omit("SharedCourses", "SharedRecordings").Create(profile).Error; err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		u.Profile = profile
		return nil
	}))
}

func (s *Store) GetUser(id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	if err := s.DB.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetProfile(userID uint) (*models.Profile, error) {
	var p models.Profile
	if err := s.DB.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// DeleteUser removes the user, the recordings they own, their ownership
// rows and their Profile with its shared-sets. It returns the storage paths
// of the removed recordings.
func (s *Store) DeleteUser(id uint) ([]string, error) {
	var files []string
	err := s.Transaction(func(tx *Store) error {
		var recordingIDs []uint
		if err := tx.DB.Model(&models.Recording{}).Where("user_id = ?", id).Pluck("id", &recordingIDs).Error; err != nil {
			return err
		}
		var err error
		if files, err = tx.deleteRecordings(recordingIDs); err != nil {
			return err
		}

		var profileIDs []uint
		if err := tx.DB.Model(&models.Profile{}).Where("user_id = ?", id).Pluck("id", &profileIDs).Error; err != nil {
			return err
		}
		if len(profileIDs) > 0 {
			if err := tx.DB.Where("profile_id IN ?", profileIDs).Delete(&models.ProfileSharedCourse{}).Error; err != nil {
				return err
			}
			if err := tx.DB.Where("profile_id IN ?", profileIDs).Delete(&models.ProfileSharedRecording{}).Error; err != nil {
				return err
			}
			if err := tx.DB.Where("id IN ?", profileIDs).Delete(&models.Profile{}).Error; err != nil {
				return err
			}
		}

		if err := tx.DB.Where("user_id = ?", id).Delete(&models.CourseAuthorizedUser{}).Error; err != nil {
			return err
		}
		if err := tx.DB.Where("user_id = ?", id).Delete(&models.TeacherAuthorizedUser{}).Error; err != nil {
			return err
		}

		res := tx.DB.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
