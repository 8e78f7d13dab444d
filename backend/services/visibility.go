package services

import (
	"sort"

	"pincorder/backend/models"
	"pincorder/backend/store"
)

// EntityKind names the entities guarded by CheckUserIsAuthorOf.
type EntityKind string

const (
	KindCourse    EntityKind = "course"
	KindRecording EntityKind = "recording"
	KindTeacher   EntityKind = "teacher"
)

// Visibility answers which courses, recordings and teachers a user may
// see. It never mutates state. Shared-set links are only candidates: each
// query re-applies the current privacy of the linked entity.
type Visibility struct {
	store *store.Store
}

func NewVisibility(s *store.Store) *Visibility {
	return &Visibility{store: s}
}

// CheckUserIsAuthorOf reports whether user may modify the entity. For
// courses and teachers that means being an authorized user, for recordings
// being the author. With throwNotFound a negative answer, including a
// missing entity, becomes ErrNotFound.
func (v *Visibility) CheckUserIsAuthorOf(kind EntityKind, id uint, user *models.User, throwNotFound bool) (bool, error) {
	if user == nil {
		return false, ErrUnauthenticated
	}

	var (
		ok  bool
		err error
	)
	switch kind {
	case KindCourse:
		ok, err = v.store.IsCourseAuthor(id, user.ID)
	case KindRecording:
		ok, err = v.store.IsRecordingAuthor(id, user.ID)
	case KindTeacher:
		ok, err = v.store.IsTeacherAuthor(id, user.ID)
	default:
		return false, invalid("kind", "unknown entity kind "+string(kind))
	}
	if err != nil {
		return false, err
	}
	if !ok && throwNotFound {
		return false, ErrNotFound
	}
	return ok, nil
}

func (v *Visibility) CoursesForUser(user *models.User, includeShared bool) ([]models.Course, error) {
	owned, err := v.store.OwnedCourses(user.ID)
	if err != nil {
		return nil, err
	}
	if !includeShared {
		return owned, nil
	}
	shared, err := v.SharedCoursesForUser(user)
	if err != nil {
		return nil, err
	}
	return unionCourses(owned, shared), nil
}

// SharedCoursesForUser returns the user's shared-set courses that are
// still above PRIVATE.
func (v *Visibility) SharedCoursesForUser(user *models.User) ([]models.Course, error) {
	return v.store.SharedCourses(user.ID)
}

func (v *Visibility) RecordingsForUser(user *models.User, includeShared bool) ([]models.Recording, error) {
	return v.recordingsForUser(user, includeShared, false)
}

func (v *Visibility) recordingsForUser(user *models.User, includeShared, withPins bool) ([]models.Recording, error) {
	owned, err := v.store.OwnedRecordings(user.ID, withPins)
	if err != nil {
		return nil, err
	}
	if !includeShared {
		return owned, nil
	}
	shared, err := v.sharedRecordingsForUser(user, nil, withPins)
	if err != nil {
		return nil, err
	}
	return unionRecordings(owned, shared), nil
}

// SharedRecordingsForUser returns the user's shared-set recordings above
// PRIVATE plus every recording in one of the visible shared courses. Pass
// sharedCourses to reuse an earlier SharedCoursesForUser result; nil
// recomputes it.
func (v *Visibility) SharedRecordingsForUser(user *models.User, sharedCourses []models.Course) ([]models.Recording, error) {
	return v.sharedRecordingsForUser(user, sharedCourses, false)
}

func (v *Visibility) sharedRecordingsForUser(user *models.User, sharedCourses []models.Course, withPins bool) ([]models.Recording, error) {
	if sharedCourses == nil {
		var err error
		if sharedCourses, err = v.SharedCoursesForUser(user); err != nil {
			return nil, err
		}
	}
	return v.store.SharedRecordings(user.ID, courseIDs(sharedCourses), withPins)
}

// TeachersForUser returns the teachers the user authors plus the teachers
// of every course visible to the user.
func (v *Visibility) TeachersForUser(user *models.User, includeShared bool) ([]models.Teacher, error) {
	authored, err := v.store.AuthoredTeachers(user.ID)
	if err != nil {
		return nil, err
	}
	courses, err := v.CoursesForUser(user, includeShared)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(authored))
	for _, t := range authored {
		seen[t.ID] = true
	}
	var extra []uint
	for _, c := range courses {
		if c.TeacherID != nil && !seen[*c.TeacherID] {
			seen[*c.TeacherID] = true
			extra = append(extra, *c.TeacherID)
		}
	}
	fromCourses, err := v.store.TeachersByIDs(extra)
	if err != nil {
		return nil, err
	}

	teachers := append(authored, fromCourses...)
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return teachers, nil
}

// SearchTeachersByName matches name among the user's visible teachers and
// every PUBLIC or FEATURED teacher, most visible first, at most limit rows.
func (v *Visibility) SearchTeachersByName(name string, user *models.User, limit int) ([]models.Teacher, error) {
	visible, err := v.TeachersForUser(user, true)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(visible))
	for i, t := range visible {
		ids[i] = t.ID
	}
	return v.store.SearchTeachers(name, ids, models.PrivacyPublic, limit)
}

// VisibleCourse returns the course if the user owns it, holds it in a
// shared-set while it is above PRIVATE, or it is PUBLIC.
func (v *Visibility) VisibleCourse(user *models.User, id uint) (*models.Course, error) {
	course, err := v.store.GetCourse(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if course.Privacy >= models.PrivacyPublic {
		return course, nil
	}
	ok, err := v.CheckUserIsAuthorOf(KindCourse, id, user, false)
	if err != nil {
		return nil, err
	}
	if ok {
		return course, nil
	}
	shared, err := v.SharedCoursesForUser(user)
	if err != nil {
		return nil, err
	}
	if containsCourse(shared, id) {
		return course, nil
	}
	return nil, ErrNotFound
}

// VisibleRecording returns the recording if the user authored it, it is
// PUBLIC, or it is reachable through the user's shared recordings.
func (v *Visibility) VisibleRecording(user *models.User, id uint) (*models.Recording, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	rec, err := v.store.GetRecording(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if rec.UserID == user.ID || rec.Privacy >= models.PrivacyPublic {
		return rec, nil
	}
	shared, err := v.SharedRecordingsForUser(user, nil)
	if err != nil {
		return nil, err
	}
	for _, r := range shared {
		if r.ID == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

func courseIDs(courses []models.Course) []uint {
	ids := make([]uint, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	return ids
}

func containsCourse(courses []models.Course, id uint) bool {
	for _, c := range courses {
		if c.ID == id {
			return true
		}
	}
	return false
}

func unionCourses(a, b []models.Course) []models.Course {
	seen := make(map[uint]bool, len(a)+len(b))
	out := make([]models.Course, 0, len(a)+len(b))
	for _, list := range [][]models.Course{a, b} {
		for _, c := range list {
			if !seen[c.ID] {
				seen[c.ID] = true
				out = append(out, c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func unionRecordings(a, b []models.Recording) []models.Recording {
	seen := make(map[uint]bool, len(a)+len(b))
	out := make([]models.Recording, 0, len(a)+len(b))
	for _, list := range [][]models.Recording{a, b} {
		for _, r := range list {
			if !seen[r.ID] {
				seen[r.ID] = true
				out = append(out, r)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
