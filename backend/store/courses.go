package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pincorder/backend/models"
)

func (s *Store) coursesQuery() *gorm.DB {
	return s.DB.Model(&models.Course{}).Preload("Teacher")
}

func (s *Store) GetCourse(id uint) (*models.Course, error) {
	var c models.Course
	if err := s.coursesQuery().First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) CourseExists(id uint) (bool, error) {
	return exists(s.DB.Model(&models.Course{}).Where("id = ?", id))
}

// CreateCourse inserts the course and records authorIDs as its authorized users.
func (s *Store) CreateCourse(c *models.Course, authorIDs ...uint) error {
	return s.Transaction(func(tx *Store) error {
		if err := tx.DB.Omit(clause.Associations).Create(c).Error; err != nil {
			return translate(err)
		}
		for _, uid := range authorIDs {
			if err := tx.AddCourseAuthor(c.ID, uid); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) SaveCourse(c *models.Course) error {
	return translate(s.DB.Omit(clause.Associations).Save(c).Error)
}

func (s *Store) AddCourseAuthor(courseID, userID uint) error {
	return translate(insertIgnore(s.DB, &models.CourseAuthorizedUser{CourseID: courseID, UserID: userID}))
}

func (s *Store) IsCourseAuthor(courseID, userID uint) (bool, error) {
	return exists(s.DB.Model(&models.CourseAuthorizedUser{}).
		Where("course_id = ? AND user_id = ?", courseID, userID))
}

// ChildCourseIDs returns the direct children of a course.
func (s *Store) ChildCourseIDs(courseID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.Course{}).
		Where("parent_course_id = ?", courseID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// SubtreeIDs returns courseID followed by every descendant, breadth first.
func (s *Store) SubtreeIDs(courseID uint) ([]uint, error) {
	seen := map[uint]bool{courseID: true}
	out := []uint{courseID}
	for i := 0; i < len(out); i++ {
		children, err := s.ChildCourseIDs(out[i])
		if err != nil {
			return nil, err
		}
		for _, id := range children {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out, nil
}

// OwnedCourses returns the courses userID is an authorized user of.
func (s *Store) OwnedCourses(userID uint) ([]models.Course, error) {
	var courses []models.Course
	err := s.coursesQuery().
		Joins("JOIN course_authorized_users cau ON cau.course_id = courses.id").
		Where("cau.user_id = ?", userID).
		Order("courses.id").
		Find(&courses).Error
	return courses, err
}

// SharedCourses returns the courses in the user's shared-set whose privacy
// is currently above PRIVATE. The link alone does not grant visibility.
func (s *Store) SharedCourses(userID uint) ([]models.Course, error) {
	var courses []models.Course
	err := s.coursesQuery().
		Joins("JOIN profile_shared_courses psc ON psc.course_id = courses.id").
		Joins("JOIN profiles p ON p.id = psc.profile_id").
		Where("p.user_id = ? AND courses.privacy > ?", userID, models.PrivacyPrivate).
		Order("courses.id").
		Find(&courses).Error
	return courses, err
}

// SharedCourseLinks returns every course ID in the user's shared-set,
// regardless of current privacy.
func (s *Store) SharedCourseLinks(userID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.ProfileSharedCourse{}).
		Joins("JOIN profiles p ON p.id = profile_shared_courses.profile_id").
		Where("p.user_id = ?", userID).
		Order("profile_shared_courses.course_id").
		Pluck("profile_shared_courses.course_id", &ids).Error
	return ids, err
}

// AddSharedCourse links the course into the profile's shared-set. Adding a
// present course is a no-op.
func (s *Store) AddSharedCourse(profileID, courseID uint) error {
	return translate(insertIgnore(s.DB, &models.ProfileSharedCourse{ProfileID: profileID, CourseID: courseID}))
}

// ProfilesSharingCourse returns the IDs of profiles holding courseID in their shared-set.
func (s *Store) ProfilesSharingCourse(courseID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.ProfileSharedCourse{}).
		Where("course_id = ?", courseID).
		Order("profile_id").
		Pluck("profile_id", &ids).Error
	return ids, err
}

// DeleteCourse removes the course, its descendants, every recording that
// references any of them (with pins and files) and all ownership and
// shared-set rows. It returns the deleted course IDs and the storage paths
// of the removed recordings.
func (s *Store) DeleteCourse(id uint) ([]uint, []string, error) {
	var (
		deleted []uint
		files   []string
	)
	err := s.Transaction(func(tx *Store) error {
		ok, err := tx.CourseExists(id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		ids, err := tx.SubtreeIDs(id)
		if err != nil {
			return err
		}

		var recordingIDs []uint
		if err := tx.DB.Model(&models.Recording{}).Where("course_id IN ?", ids).Pluck("id", &recordingIDs).Error; err != nil {
			return err
		}
		if files, err = tx.deleteRecordings(recordingIDs); err != nil {
			return err
		}

		if err := tx.DB.Where("course_id IN ?", ids).Delete(&models.ProfileSharedCourse{}).Error; err != nil {
			return err
		}
		if err := tx.DB.Where("course_id IN ?", ids).Delete(&models.CourseAuthorizedUser{}).Error; err != nil {
			return err
		}
		// Deepest first so a parent is never removed while a child still points at it.
		for i := len(ids) - 1; i >= 0; i-- {
			if err := tx.DB.Delete(&models.Course{}, ids[i]).Error; err != nil {
				return err
			}
		}
		deleted = ids
		return nil
	})
	return deleted, files, err
}
