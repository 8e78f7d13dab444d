package services

import (
	"log"

	"pincorder/backend/metrics"
	"pincorder/backend/models"
	"pincorder/backend/store"
)

// Sharing mutates privacy levels and per-user shared-sets.
//
// Sharing a course walks its subtree with an explicit queue. Each node is
// committed on its own, so a failure part way leaves the already visited
// nodes shared.
type Sharing struct {
	store      *store.Store
	visibility *Visibility
	logger     *log.Logger
	metrics    *metrics.Metrics
}

func NewSharing(s *store.Store, v *Visibility, logger *log.Logger, m *metrics.Metrics) *Sharing {
	return &Sharing{store: s, visibility: v, logger: logger, metrics: m}
}

// ShareCourseWithUser shares the course and all of its descendants with
// the user identified by sharedUserID. Only an authorized user of the
// course may share it.
func (s *Sharing) ShareCourseWithUser(actor *models.User, courseID uint, sharedUserID *uint) error {
	if _, err := s.visibility.CheckUserIsAuthorOf(KindCourse, courseID, actor, true); err != nil {
		return err
	}
	profile, err := s.targetProfile(sharedUserID)
	if err != nil {
		return err
	}

	queue := []uint{courseID}
	visited := map[uint]bool{courseID: true}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if err := s.shareCourseNode(id, profile.ID); err != nil {
			return err
		}

		children, err := s.store.ChildCourseIDs(id)
		if err != nil {
			return err
		}
		for _, child := range children {
			if !visited[child] {
				visited[child] = true
				queue = append(queue, child)
			}
		}
	}

	s.metrics.SharesTotal.WithLabelValues(string(KindCourse)).Add(float64(len(visited)))
	s.logger.Printf("course %d shared by user %d with user %d (%d courses)", courseID, actor.ID, profile.UserID, len(visited))
	return nil
}

// shareCourseNode raises a private course to SHARED, lifts its teacher to
// the course's level and links the course into the profile's shared-set.
func (s *Sharing) shareCourseNode(courseID, profileID uint) error {
	return s.store.Transaction(func(tx *store.Store) error {
		course, err := tx.GetCourse(courseID)
		if err != nil {
			return storeErr(err)
		}

		if course.Privacy == models.PrivacyPrivate {
			course.Privacy = models.PrivacyShared
			if err := tx.SaveCourse(course); err != nil {
				return err
			}
		}

		if course.Teacher != nil && course.Teacher.Privacy < course.Privacy {
			if err := tx.SetTeacherPrivacy(course.Teacher.ID, course.Privacy); err != nil {
				return err
			}
		}

		return tx.AddSharedCourse(profileID, course.ID)
	})
}

// ShareRecordingWithUser shares a single recording. Only its author may share it.
func (s *Sharing) ShareRecordingWithUser(actor *models.User, recordingID uint, sharedUserID *uint) error {
	if _, err := s.visibility.CheckUserIsAuthorOf(KindRecording, recordingID, actor, true); err != nil {
		return err
	}
	profile, err := s.targetProfile(sharedUserID)
	if err != nil {
		return err
	}

	err = s.store.Transaction(func(tx *store.Store) error {
		rec, err := tx.GetRecording(recordingID)
		if err != nil {
			return storeErr(err)
		}
		if rec.Privacy == models.PrivacyPrivate {
			rec.Privacy = models.PrivacyShared
			if err := tx.SaveRecording(rec); err != nil {
				return err
			}
		}
		return tx.AddSharedRecording(profile.ID, rec.ID)
	})
	if err != nil {
		return err
	}

	s.metrics.SharesTotal.WithLabelValues(string(KindRecording)).Inc()
	s.logger.Printf("recording %d shared by user %d with user %d", recordingID, actor.ID, profile.UserID)
	return nil
}

// PropagateFromParent grants course to every user holding its parent in
// their shared-set, as long as the parent is above PRIVATE. It runs after a
// course is created or moved under a new parent.
func (s *Sharing) PropagateFromParent(course *models.Course) error {
	if course.ParentCourseID == nil {
		return nil
	}
	parent, err := s.store.GetCourse(*course.ParentCourseID)
	if err != nil {
		return storeErr(err)
	}
	if parent.Privacy == models.PrivacyPrivate {
		return nil
	}

	profiles, err := s.store.ProfilesSharingCourse(parent.ID)
	if err != nil {
		return err
	}
	for _, profileID := range profiles {
		if err := s.store.AddSharedCourse(profileID, course.ID); err != nil {
			return err
		}
	}
	if len(profiles) > 0 {
		s.metrics.SharesTotal.WithLabelValues(string(KindCourse)).Add(float64(len(profiles)))
		s.logger.Printf("course %d inherited %d shares from parent %d", course.ID, len(profiles), parent.ID)
	}
	return nil
}

func (s *Sharing) targetProfile(sharedUserID *uint) (*models.Profile, error) {
	if sharedUserID == nil {
		return nil, invalid("shared_user", "You must specify the 'shared_user' parameter")
	}
	profile, err := s.store.GetProfile(*sharedUserID)
	if err != nil {
		return nil, storeErr(err)
	}
	return profile, nil
}
