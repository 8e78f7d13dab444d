package store_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pincorder/backend/models"
	"pincorder/backend/store"
	"pincorder/backend/store/storetest"
)

func uintPtr(v uint) *uint { return &v }

func TestCreateUserCreatesProfile(t *testing.T) {
	s := storetest.New(t)
	u := storetest.User(t, s, "testuser")

	require.NotNil(t, u.Profile)
	p, err := s.GetProfile(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := storetest.New(t)
	storetest.User(t, s, "testuser")

	err := s.CreateUser(&models.User{Username: "testuser", PasswordHash: "x"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestDeleteUserRemovesProfileAndRecordings(t *testing.T) {
	s := storetest.New(t)
	u := storetest.User(t, s, "testuser")
	rec := &models.Recording{Name: "r", Date: time.Now(), UserID: u.ID}
	require.NoError(t, s.CreateRecording(rec))
	require.NoError(t, s.CreatePin(&models.Pin{RecordingID: rec.ID, Time: 10, MediaURL: "raw_upload/a.png"}))

	files, err := s.DeleteUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"raw_upload/a.png"}, files)

	_, err = s.GetProfile(u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetRecording(rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	pins, err := s.Pins(rec.ID)
	require.NoError(t, err)
	assert.Empty(t, pins)

	_, err = s.DeleteUser(u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteCourseCascades(t *testing.T) {
	s := storetest.New(t)
	owner := storetest.User(t, s, "owner")
	other := storetest.User(t, s, "other")

	parent := &models.Course{Name: "P"}
	require.NoError(t, s.CreateCourse(parent, owner.ID))
	child := &models.Course{Name: "Q", ParentCourseID: uintPtr(parent.ID)}
	require.NoError(t, s.CreateCourse(child, owner.ID))
	unrelated := &models.Course{Name: "U"}
	require.NoError(t, s.CreateCourse(unrelated, owner.ID))

	rec := &models.Recording{Name: "R", Date: time.Now(), UserID: owner.ID, CourseID: uintPtr(parent.ID)}
	require.NoError(t, s.CreateRecording(rec))
	require.NoError(t, s.CreatePin(&models.Pin{RecordingID: rec.ID, Time: 5}))
	require.NoError(t, s.CreatePin(&models.Pin{RecordingID: rec.ID, Time: 15, MediaURL: "raw_upload/slide.png"}))
	require.NoError(t, s.AttachRecordingFile(&models.RecordingFile{RecordingID: rec.ID, FileURL: "raw_upload/talk.mp3", UploadDate: time.Now()}))

	require.NoError(t, s.AddSharedCourse(other.Profile.ID, parent.ID))
	require.NoError(t, s.AddSharedCourse(other.Profile.ID, unrelated.ID))
	require.NoError(t, s.AddSharedRecording(other.Profile.ID, rec.ID))

	deleted, files, err := s.DeleteCourse(parent.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{parent.ID, child.ID}, deleted)
	assert.ElementsMatch(t, []string{"raw_upload/talk.mp3", "raw_upload/slide.png"}, files)

	for _, id := range []uint{parent.ID, child.ID} {
		ok, err := s.CourseExists(id)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err := s.RecordingExists(rec.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	var pinCount int64
	require.NoError(t, s.DB.Model(&models.Pin{}).Where("recording_id = ?", rec.ID).Count(&pinCount).Error)
	assert.Zero(t, pinCount)

	links, err := s.SharedCourseLinks(other.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{unrelated.ID}, links)

	recLinks, err := s.SharedRecordingLinks(other.ID)
	require.NoError(t, err)
	assert.Empty(t, recLinks)

	_, _, err = s.DeleteCourse(parent.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubtreeIDs(t *testing.T) {
	s := storetest.New(t)
	owner := storetest.User(t, s, "owner")

	p := &models.Course{Name: "P"}
	require.NoError(t, s.CreateCourse(p, owner.ID))
	a := &models.Course{Name: "A", ParentCourseID: uintPtr(p.ID)}
	require.NoError(t, s.CreateCourse(a, owner.ID))
	b := &models.Course{Name: "B", ParentCourseID: uintPtr(p.ID)}
	require.NoError(t, s.CreateCourse(b, owner.ID))
	g := &models.Course{Name: "G", ParentCourseID: uintPtr(a.ID)}
	require.NoError(t, s.CreateCourse(g, owner.ID))

	ids, err := s.SubtreeIDs(p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{p.ID, a.ID, b.ID, g.ID}, ids)
}

func TestPinUniqueness(t *testing.T) {
	s := storetest.New(t)
	u := storetest.User(t, s, "testuser")
	rec := &models.Recording{Name: "r", Date: time.Now(), UserID: u.ID}
	require.NoError(t, s.CreateRecording(rec))

	require.NoError(t, s.CreatePin(&models.Pin{RecordingID: rec.ID, Time: 100}))
	err := s.CreatePin(&models.Pin{RecordingID: rec.ID, Time: 100, Text: "again"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	pins, err := s.Pins(rec.ID)
	require.NoError(t, err)
	assert.Len(t, pins, 1)
}

func TestPinsOrderedByTime(t *testing.T) {
	s := storetest.New(t)
	u := storetest.User(t, s, "testuser")
	rec := &models.Recording{Name: "r", Date: time.Now(), UserID: u.ID}
	require.NoError(t, s.CreateRecording(rec))
	for _, tm := range []int{50, 10, 100} {
		require.NoError(t, s.CreatePin(&models.Pin{RecordingID: rec.ID, Time: tm}))
	}

	pins, err := s.Pins(rec.ID)
	require.NoError(t, err)
	require.Len(t, pins, 3)
	assert.Equal(t, 10, pins[0].Time)
	assert.Equal(t, 50, pins[1].Time)
	assert.Equal(t, 100, pins[2].Time)
}

func TestSharedCoursesFiltersPrivate(t *testing.T) {
	s := storetest.New(t)
	owner := storetest.User(t, s, "owner")
	other := storetest.User(t, s, "other")

	c := &models.Course{Name: "OS", Privacy: models.PrivacyShared}
	require.NoError(t, s.CreateCourse(c, owner.ID))
	require.NoError(t, s.AddSharedCourse(other.Profile.ID, c.ID))
	require.NoError(t, s.AddSharedCourse(other.Profile.ID, c.ID))

	shared, err := s.SharedCourses(other.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)

	c.Privacy = models.PrivacyPrivate
	require.NoError(t, s.SaveCourse(c))

	shared, err = s.SharedCourses(other.ID)
	require.NoError(t, err)
	assert.Empty(t, shared)

	links, err := s.SharedCourseLinks(other.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, links, "the link survives revocation")
}

func TestDeleteTeacherKeepsCourses(t *testing.T) {
	s := storetest.New(t)
	owner := storetest.User(t, s, "owner")
	teacher := &models.Teacher{Name: "Anna Rossi"}
	require.NoError(t, s.CreateTeacher(teacher, owner.ID))
	c := &models.Course{Name: "OS", TeacherID: uintPtr(teacher.ID)}
	require.NoError(t, s.CreateCourse(c, owner.ID))

	require.NoError(t, s.DeleteTeacher(teacher.ID))

	got, err := s.GetCourse(c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TeacherID)
	assert.Nil(t, got.Teacher)
}

func TestImportUniversities(t *testing.T) {
	s := storetest.New(t)
	csvData := "name,short_name\nUniversità di Bologna,UNIBO\nUniversità di Firenze,UNIFI\n"

	n, err := s.ImportUniversities(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.ImportUniversities(strings.NewReader("Alma Mater Studiorum,UNIBO\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	unis, err := s.ListUniversities()
	require.NoError(t, err)
	require.Len(t, unis, 2)
	assert.Equal(t, "Alma Mater Studiorum", unis[0].Name)

	found, err := s.SearchUniversities("uNi", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestImportUniversitiesRejectsBlankFields(t *testing.T) {
	s := storetest.New(t)
	_, err := s.ImportUniversities(strings.NewReader("Bologna,\n"))
	assert.Error(t, err)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	s := storetest.New(t)
	owner := storetest.User(t, s, "owner")
	for _, name := range []string{"Anna Rossi", "Carlo 100% Bianchi", `Dir\Verdi`} {
		require.NoError(t, s.CreateTeacher(&models.Teacher{Name: name, Privacy: models.PrivacyPublic}, owner.ID))
	}
	rec := &models.Recording{Name: "Lecture1", Date: time.Now(), UserID: owner.ID}
	require.NoError(t, s.CreateRecording(rec))
	_, err := s.ImportUniversities(strings.NewReader("Politecnico di Milano,POLIMI\n"))
	require.NoError(t, err)

	teacherNames := func(term string) []string {
		t.Helper()
		found, err := s.SearchTeachers(term, nil, models.PrivacyPublic, 10)
		require.NoError(t, err)
		names := make([]string, len(found))
		for i, tc := range found {
			names[i] = tc.Name
		}
		return names
	}
	assert.Empty(t, teacherNames("R_ssi"))
	assert.Equal(t, []string{"Carlo 100% Bianchi"}, teacherNames("%"))
	assert.Equal(t, []string{"Carlo 100% Bianchi"}, teacherNames("100%"))
	assert.Equal(t, []string{`Dir\Verdi`}, teacherNames(`r\v`))
	assert.Equal(t, []string{"Anna Rossi"}, teacherNames("ROSSI"))

	recs, err := s.SearchRecordingsByName(owner.ID, "L_cture")
	require.NoError(t, err)
	assert.Empty(t, recs)
	recs, err = s.SearchRecordingsByName(owner.ID, "lecture")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	unis, err := s.SearchUniversities("_", 10)
	require.NoError(t, err)
	assert.Empty(t, unis)
	unis, err = s.SearchUniversities("polimi", 10)
	require.NoError(t, err)
	assert.Len(t, unis, 1)
}
