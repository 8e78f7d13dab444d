package services_test

import (
	"io"
	"log"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"pincorder/backend/config"
	"pincorder/backend/metrics"
	"pincorder/backend/models"
	"pincorder/backend/services"
	"pincorder/backend/storage"
	"pincorder/backend/store"
	"pincorder/backend/store/storetest"
)

type fixture struct {
	store *store.Store
	svc   *services.Services
	m     *metrics.Metrics
	root  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := storetest.New(t)
	root := t.TempDir()
	m := metrics.New(prometheus.NewRegistry())
	cfg := &config.Config{TeacherSearchLimit: 10, UniversitySearchLimit: 10}
	logger := log.New(io.Discard, "", 0)
	return &fixture{
		store: s,
		svc:   services.New(s, storage.NewLocalStorage(root), cfg, logger, m),
		m:     m,
		root:  root,
	}
}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }

func privacyPtr(p models.Privacy) *models.Privacy { return &p }

func (f *fixture) course(t *testing.T, owner *models.User, name string, parent *models.Course, p models.Privacy) *models.Course {
	t.Helper()
	in := services.CourseInput{Name: strPtr(name), Privacy: privacyPtr(p)}
	if parent != nil {
		in.ParentCourseID = uintPtr(parent.ID)
	}
	c, err := f.svc.Courses.Create(owner, in)
	if err != nil {
		t.Fatalf("create course %s: %v", name, err)
	}
	return c
}

func (f *fixture) recording(t *testing.T, owner *models.User, name string, course *models.Course) *models.Recording {
	t.Helper()
	in := services.RecordingInput{Name: strPtr(name)}
	if course != nil {
		in.CourseID = uintPtr(course.ID)
	}
	r, err := f.svc.Recordings.Create(owner, in)
	if err != nil {
		t.Fatalf("create recording %s: %v", name, err)
	}
	return r
}

func courseNames(courses []models.Course) []string {
	names := make([]string, len(courses))
	for i, c := range courses {
		names[i] = c.Name
	}
	return names
}

func recordingNames(recs []models.Recording) []string {
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	return names
}
