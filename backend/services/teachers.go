package services

import (
	"log"
	"strings"

	"pincorder/backend/metrics"
	"pincorder/backend/models"
	"pincorder/backend/store"
)

// TeacherInput carries the writable teacher fields. Nil leaves a field
// unchanged; on update a zero UniversityID clears it.
type TeacherInput struct {
	Name         *string
	Role         *string
	Org          *string
	Website      *string
	UniversityID *uint
	Privacy      *models.Privacy
}

type TeacherService struct {
	store       *store.Store
	visibility  *Visibility
	logger      *log.Logger
	metrics     *metrics.Metrics
	searchLimit int
}

func NewTeacherService(s *store.Store, v *Visibility, logger *log.Logger, m *metrics.Metrics, searchLimit int) *TeacherService {
	return &TeacherService{store: s, visibility: v, logger: logger, metrics: m, searchLimit: searchLimit}
}

func (ts *TeacherService) List(actor *models.User) ([]models.Teacher, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return ts.visibility.TeachersForUser(actor, true)
}

// Get returns a teacher known to the user or one that is PUBLIC or FEATURED.
func (ts *TeacherService) Get(actor *models.User, id uint) (*models.Teacher, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	teacher, err := ts.store.GetTeacher(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if teacher.Privacy >= models.PrivacyPublic {
		return teacher, nil
	}
	visible, err := ts.visibility.TeachersForUser(actor, true)
	if err != nil {
		return nil, err
	}
	for _, t := range visible {
		if t.ID == id {
			return teacher, nil
		}
	}
	return nil, ErrNotFound
}

// Create stores a teacher with actor as its authorized user. FEATURED is
// clamped to PUBLIC unless actor is staff.
func (ts *TeacherService) Create(actor *models.User, in TeacherInput) (*models.Teacher, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, invalid("name", "This field is required.")
	}
	teacher := &models.Teacher{}
	if err := ts.apply(actor, teacher, in); err != nil {
		return nil, err
	}
	if err := ts.store.CreateTeacher(teacher, actor.ID); err != nil {
		return nil, storeErr(err)
	}
	return teacher, nil
}

func (ts *TeacherService) Update(actor *models.User, id uint, in TeacherInput) (*models.Teacher, error) {
	if _, err := ts.visibility.CheckUserIsAuthorOf(KindTeacher, id, actor, true); err != nil {
		return nil, err
	}
	teacher, err := ts.store.GetTeacher(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, invalid("name", "This field may not be blank.")
	}
	if err := ts.apply(actor, teacher, in); err != nil {
		return nil, err
	}
	if err := ts.store.SaveTeacher(teacher); err != nil {
		return nil, storeErr(err)
	}
	return teacher, nil
}

// Delete removes a teacher the actor is authorized on. Courses taught by
// it keep existing without a teacher. Authoring one of those courses does
// not grant the right to delete the teacher.
func (ts *TeacherService) Delete(actor *models.User, id uint) error {
	if _, err := ts.visibility.CheckUserIsAuthorOf(KindTeacher, id, actor, true); err != nil {
		return err
	}
	if err := ts.store.DeleteTeacher(id); err != nil {
		return storeErr(err)
	}
	ts.metrics.CascadeDeletesTotal.WithLabelValues(string(KindTeacher)).Inc()
	ts.logger.Printf("teacher %d deleted by user %d", id, actor.ID)
	return nil
}

// Search matches name among the user's teachers and every PUBLIC or
// FEATURED teacher.
func (ts *TeacherService) Search(actor *models.User, name *string) ([]models.Teacher, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if name == nil {
		return nil, invalid("name", "You must specify the 'name' parameter")
	}
	return ts.visibility.SearchTeachersByName(*name, actor, ts.searchLimit)
}

func (ts *TeacherService) apply(actor *models.User, t *models.Teacher, in TeacherInput) error {
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		t.Role = *in.Role
	}
	if in.Org != nil {
		t.Org = *in.Org
	}
	if in.Website != nil {
		t.Website = *in.Website
	}
	if in.UniversityID != nil {
		if *in.UniversityID == 0 {
			t.UniversityID = nil
		} else {
			ok, err := ts.store.UniversityExists(*in.UniversityID)
			if err != nil {
				return err
			}
			if !ok {
				return invalid("university", "Invalid pk - object does not exist.")
			}
			id := *in.UniversityID
			t.UniversityID = &id
		}
	}
	if in.Privacy != nil {
		if !in.Privacy.ValidForTeacher() {
			return invalid("privacy", "Not a valid choice.")
		}
		t.Privacy = models.ClampTeacherPrivacy(*in.Privacy, actor.IsStaff)
	}
	return nil
}
