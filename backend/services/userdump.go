package services

import "pincorder/backend/models"

// UserDump is everything a client needs to sync in one response.
type UserDump struct {
	User             *models.User       `json:"user"`
	Teachers         []models.Teacher   `json:"teachers"`
	Courses          []models.Course    `json:"courses"`
	Recordings       []models.Recording `json:"recordings"`
	SharedCourses    []models.Course    `json:"shared_courses"`
	SharedRecordings []models.Recording `json:"shared_recordings"`
}

// Dump assembles the user's view. Courses and recordings are the ones the
// user owns; shared ones are listed apart and carry their pins. Empty
// sections are empty arrays, never null.
func (v *Visibility) Dump(user *models.User) (*UserDump, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	teachers, err := v.TeachersForUser(user, true)
	if err != nil {
		return nil, err
	}
	courses, err := v.CoursesForUser(user, false)
	if err != nil {
		return nil, err
	}
	recordings, err := v.recordingsForUser(user, false, true)
	if err != nil {
		return nil, err
	}
	sharedCourses, err := v.SharedCoursesForUser(user)
	if err != nil {
		return nil, err
	}
	if sharedCourses == nil {
		sharedCourses = []models.Course{}
	}
	sharedRecordings, err := v.sharedRecordingsForUser(user, sharedCourses, true)
	if err != nil {
		return nil, err
	}

	return &UserDump{
		User:             user,
		Teachers:         nonNil(teachers),
		Courses:          nonNil(courses),
		Recordings:       nonNil(recordings),
		SharedCourses:    sharedCourses,
		SharedRecordings: nonNil(sharedRecordings),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
