package services

import (
	"log"
	"strings"

	"pincorder/backend/metrics"
	"pincorder/backend/models"
	"pincorder/backend/storage"
	"pincorder/backend/store"
)

// CourseInput carries the writable course fields. Nil leaves a field
// unchanged; on update a zero TeacherID or ParentCourseID clears it.
type CourseInput struct {
	Name           *string
	TeacherID      *uint
	ParentCourseID *uint
	Privacy        *models.Privacy
}

type CourseService struct {
	store      *store.Store
	visibility *Visibility
	sharing    *Sharing
	files      storage.FileStorage
	logger     *log.Logger
	metrics    *metrics.Metrics
}

func NewCourseService(s *store.Store, v *Visibility, sh *Sharing, files storage.FileStorage, logger *log.Logger, m *metrics.Metrics) *CourseService {
	return &CourseService{store: s, visibility: v, sharing: sh, files: files, logger: logger, metrics: m}
}

// List returns the courses the user owns or that are shared with them.
func (cs *CourseService) List(actor *models.User) ([]models.Course, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return cs.visibility.CoursesForUser(actor, true)
}

func (cs *CourseService) Get(actor *models.User, id uint) (*models.Course, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return cs.visibility.VisibleCourse(actor, id)
}

// Create stores a new course owned by actor. A private course under a
// shared or public parent takes the parent's level, and users the parent
// was shared with receive the new course too.
func (cs *CourseService) Create(actor *models.User, in CourseInput) (*models.Course, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	course := &models.Course{}
	if err := cs.validate(in, true); err != nil {
		return nil, err
	}
	course.Name = strings.TrimSpace(*in.Name)
	if in.Privacy != nil {
		course.Privacy = *in.Privacy
	}
	if in.TeacherID != nil && *in.TeacherID != 0 {
		course.TeacherID = in.TeacherID
	}

	var parent *models.Course
	if in.ParentCourseID != nil && *in.ParentCourseID != 0 {
		var err error
		if parent, err = cs.editableParent(actor, *in.ParentCourseID); err != nil {
			return nil, err
		}
		course.ParentCourseID = &parent.ID
	}
	course.Privacy = models.InheritPrivacy(course.Privacy, parent)

	if err := cs.store.CreateCourse(course, actor.ID); err != nil {
		return nil, storeErr(err)
	}
	if err := cs.sharing.PropagateFromParent(course); err != nil {
		return nil, err
	}
	return cs.reload(course.ID)
}

// Update applies in to a course the actor is authorized on. Moving a
// course re-checks the new parent, refuses cycles and propagates the new
// parent's shares.
func (cs *CourseService) Update(actor *models.User, id uint, in CourseInput) (*models.Course, error) {
	if _, err := cs.visibility.CheckUserIsAuthorOf(KindCourse, id, actor, true); err != nil {
		return nil, err
	}
	if err := cs.validate(in, false); err != nil {
		return nil, err
	}
	course, err := cs.store.GetCourse(id)
	if err != nil {
		return nil, storeErr(err)
	}

	if in.Name != nil {
		course.Name = strings.TrimSpace(*in.Name)
	}
	if in.Privacy != nil {
		course.Privacy = *in.Privacy
	}
	if in.TeacherID != nil {
		course.TeacherID = nil
		if *in.TeacherID != 0 {
			course.TeacherID = in.TeacherID
		}
		course.Teacher = nil
	}

	reparented := false
	if in.ParentCourseID != nil && !sameParent(course.ParentCourseID, *in.ParentCourseID) {
		reparented = true
		course.ParentCourseID = nil
		if newParent := *in.ParentCourseID; newParent != 0 {
			if _, err := cs.editableParent(actor, newParent); err != nil {
				return nil, err
			}
			subtree, err := cs.store.SubtreeIDs(id)
			if err != nil {
				return nil, err
			}
			for _, sid := range subtree {
				if sid == newParent {
					return nil, invalid("parent_course", "a course cannot be moved below itself")
				}
			}
			course.ParentCourseID = &newParent
		}
	}

	var parent *models.Course
	if course.ParentCourseID != nil {
		if parent, err = cs.store.GetCourse(*course.ParentCourseID); err != nil {
			return nil, storeErr(err)
		}
	}
	course.Privacy = models.InheritPrivacy(course.Privacy, parent)

	if err := cs.store.SaveCourse(course); err != nil {
		return nil, storeErr(err)
	}
	if reparented {
		if err := cs.sharing.PropagateFromParent(course); err != nil {
			return nil, err
		}
	}
	return cs.reload(course.ID)
}

// Delete removes the course with its subtree and recordings, then the
// audio and pin images those recordings stored.
func (cs *CourseService) Delete(actor *models.User, id uint) error {
	if _, err := cs.visibility.CheckUserIsAuthorOf(KindCourse, id, actor, true); err != nil {
		return err
	}
	deleted, files, err := cs.store.DeleteCourse(id)
	if err != nil {
		return storeErr(err)
	}
	removeFiles(cs.files, cs.logger, files)
	cs.metrics.CascadeDeletesTotal.WithLabelValues(string(KindCourse)).Add(float64(len(deleted)))
	cs.logger.Printf("course %d deleted by user %d (%d courses removed)", id, actor.ID, len(deleted))
	return nil
}

// CreateWithTeacher creates a teacher authored by actor and a course taught by it.
func (cs *CourseService) CreateWithTeacher(actor *models.User, teacherName *string, in CourseInput) (*models.Course, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	name, err := requireTeacherName(teacherName)
	if err != nil {
		return nil, err
	}
	in.TeacherID = nil
	if err := cs.validate(in, true); err != nil {
		return nil, err
	}
	if in.ParentCourseID != nil && *in.ParentCourseID != 0 {
		if _, err := cs.editableParent(actor, *in.ParentCourseID); err != nil {
			return nil, err
		}
	}

	teacher := &models.Teacher{Name: name}
	if err := cs.store.CreateTeacher(teacher, actor.ID); err != nil {
		return nil, storeErr(err)
	}
	in.TeacherID = &teacher.ID
	return cs.Create(actor, in)
}

// AddTeacher creates a teacher authored by actor and assigns it to the course.
func (cs *CourseService) AddTeacher(actor *models.User, courseID uint, teacherName *string) (*models.Course, error) {
	if _, err := cs.visibility.CheckUserIsAuthorOf(KindCourse, courseID, actor, true); err != nil {
		return nil, err
	}
	name, err := requireTeacherName(teacherName)
	if err != nil {
		return nil, err
	}
	course, err := cs.store.GetCourse(courseID)
	if err != nil {
		return nil, storeErr(err)
	}

	teacher := &models.Teacher{Name: name}
	if err := cs.store.CreateTeacher(teacher, actor.ID); err != nil {
		return nil, storeErr(err)
	}
	course.TeacherID = &teacher.ID
	course.Teacher = nil
	if err := cs.store.SaveCourse(course); err != nil {
		return nil, storeErr(err)
	}
	return cs.reload(course.ID)
}

func (cs *CourseService) validate(in CourseInput, creating bool) error {
	if creating && in.Name == nil {
		return invalid("name", "This field is required.")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name", "This field may not be blank.")
	}
	if in.Privacy != nil && !in.Privacy.ValidForContent() {
		return invalid("privacy", "must be 0 (private), 1 (shared) or 2 (public)")
	}
	if in.TeacherID != nil && *in.TeacherID != 0 {
		ok, err := cs.store.TeacherExists(*in.TeacherID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("teacher", "Invalid pk - object does not exist.")
		}
	}
	return nil
}

// editableParent loads a course the actor may attach children to.
func (cs *CourseService) editableParent(actor *models.User, id uint) (*models.Course, error) {
	if _, err := cs.visibility.CheckUserIsAuthorOf(KindCourse, id, actor, true); err != nil {
		return nil, err
	}
	parent, err := cs.store.GetCourse(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return parent, nil
}

func (cs *CourseService) reload(id uint) (*models.Course, error) {
	course, err := cs.store.GetCourse(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return course, nil
}

func sameParent(current *uint, requested uint) bool {
	if current == nil {
		return requested == 0
	}
	return *current == requested
}

func requireTeacherName(name *string) (string, error) {
	if name == nil {
		return "", invalid("teacher", "You must specify the 'teacher' parameter")
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return "", invalid("teacher", "The teacher name can't be blank")
	}
	return trimmed, nil
}
