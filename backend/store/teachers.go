package store

import (
	"gorm.io/gorm/clause"

	"pincorder/backend/models"
)

func (s *Store) GetTeacher(id uint) (*models.Teacher, error) {
	var t models.Teacher
	if err := s.DB.First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) TeacherExists(id uint) (bool, error) {
	return exists(s.DB.Model(&models.Teacher{}).Where("id = ?", id))
}

// CreateTeacher inserts the teacher and records authorIDs as its authorized users.
func (s *Store) CreateTeacher(t *models.Teacher, authorIDs ...uint) error {
	return s.Transaction(func(tx *Store) error {
		if err := tx.DB.Omit(clause.Associations).Create(t).Error; err != nil {
			return translate(err)
		}
		for _, uid := range authorIDs {
			row := &models.TeacherAuthorizedUser{TeacherID: t.ID, UserID: uid}
			if err := insertIgnore(tx.DB, row); err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (s *Store) SaveTeacher(t *models.Teacher) error {
	return translate(s.DB.Omit(clause.Associations).Save(t).Error)
}

func (s *Store) IsTeacherAuthor(teacherID, userID uint) (bool, error) {
	return exists(s.DB.Model(&models.TeacherAuthorizedUser{}).
		Where("teacher_id = ? AND user_id = ?", teacherID, userID))
}

// DeleteTeacher removes the teacher; courses that referenced it keep
// existing with no teacher.
func (s *Store) DeleteTeacher(id uint) error {
	return s.Transaction(func(tx *Store) error {
		if err := tx.DB.Model(&models.Course{}).Where("teacher_id = ?", id).Update("teacher_id", nil).Error; err != nil {
			return err
		}
		if err := tx.DB.Where("teacher_id = ?", id).Delete(&models.TeacherAuthorizedUser{}).Error; err != nil {
			return err
		}
		res := tx.DB.Delete(&models.Teacher{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AuthoredTeachers returns the teachers userID is an authorized user of.
func (s *Store) AuthoredTeachers(userID uint) ([]models.Teacher, error) {
	var teachers []models.Teacher
	err := s.DB.Model(&models.Teacher{}).
		Joins("JOIN teacher_authorized_users tau ON tau.teacher_id = teachers.id").
		Where("tau.user_id = ?", userID).
		Order("teachers.id").
		Find(&teachers).Error
	return teachers, err
}

func (s *Store) TeachersByIDs(ids []uint) ([]models.Teacher, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var teachers []models.Teacher
	err := s.DB.Where("id IN ?", ids).Order("id").Find(&teachers).Error
	return teachers, err
}

// SearchTeachers matches name case-insensitively among teachers that are
// either in ids or at least minPrivacy, most visible first.
func (s *Store) SearchTeachers(name string, ids []uint, minPrivacy models.Privacy, limit int) ([]models.Teacher, error) {
	pattern := containsPattern(name)
	scope := s.DB.Where("privacy >= ?", minPrivacy)
	if len(ids) > 0 {
		scope = scope.Or("id IN ?", ids)
	}

	var teachers []models.Teacher
	q := s.DB.Model(&models.Teacher{}).
		Where("LOWER(name) LIKE ?"+likeEscape, pattern).
		Where(scope).
		Order("privacy DESC").
		Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&teachers).Error
	return teachers, err
}

// SetTeacherPrivacy raises or lowers a teacher's level without touching other fields.
func (s *Store) SetTeacherPrivacy(id uint, p models.Privacy) error {
	return s.DB.Model(&models.Teacher{}).Where("id = ?", id).Update("privacy", p).Error
}
