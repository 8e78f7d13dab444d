// Package services holds the domain logic behind the HTTP handlers: the
// sharing engine, the visibility resolver and the per-entity services
// built on them.
package services

import (
	"log"

	"pincorder/backend/config"
	"pincorder/backend/metrics"
	"pincorder/backend/storage"
	"pincorder/backend/store"
)

// Services bundles every service sharing one store.
type Services struct {
	Visibility   *Visibility
	Sharing      *Sharing
	Users        *UserService
	Courses      *CourseService
	Recordings   *RecordingService
	Pins         *PinService
	Teachers     *TeacherService
	Universities *UniversityService
}

func New(s *store.Store, files storage.FileStorage, cfg *config.Config, logger *log.Logger, m *metrics.Metrics) *Services {
	v := NewVisibility(s)
	sh := NewSharing(s, v, logger, m)
	return &Services{
		Visibility:   v,
		Sharing:      sh,
		Users:        NewUserService(s),
		Courses:      NewCourseService(s, v, sh, files, logger, m),
		Recordings:   NewRecordingService(s, v, files, logger, m),
		Pins:         NewPinService(s, v, files, logger),
		Teachers:     NewTeacherService(s, v, logger, m, cfg.TeacherSearchLimit),
		Universities: NewUniversityService(s, cfg.UniversitySearchLimit),
	}
}
