package services

import (
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"pincorder/backend/metrics"
	"pincorder/backend/models"
	"pincorder/backend/storage"
	"pincorder/backend/store"
)

var (
	audioExtensions = []string{".mp3", ".aac"}
	imageExtensions = []string{".jpg", ".png"}
)

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Body     io.Reader
}

// RecordingInput carries the writable recording fields. Nil leaves a field
// unchanged; on update a zero CourseID detaches the recording.
type RecordingInput struct {
	Name     *string
	Date     *time.Time
	CourseID *uint
	Privacy  *models.Privacy
	Status   *string
}

type RecordingService struct {
	store      *store.Store
	visibility *Visibility
	files      storage.FileStorage
	logger     *log.Logger
	metrics    *metrics.Metrics
}

func NewRecordingService(s *store.Store, v *Visibility, files storage.FileStorage, logger *log.Logger, m *metrics.Metrics) *RecordingService {
	return &RecordingService{store: s, visibility: v, files: files, logger: logger, metrics: m}
}

// List returns the recordings the user authored or that are shared with them.
func (rs *RecordingService) List(actor *models.User) ([]models.Recording, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return rs.visibility.RecordingsForUser(actor, true)
}

func (rs *RecordingService) Get(actor *models.User, id uint) (*models.Recording, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return rs.visibility.VisibleRecording(actor, id)
}

// Create stores a recording authored by actor. Filing it under a course
// requires being one of the course's authorized users.
func (rs *RecordingService) Create(actor *models.User, in RecordingInput) (*models.Recording, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if in.Name == nil {
		return nil, invalid("name", "This field is required.")
	}
	if err := validateRecordingInput(in); err != nil {
		return nil, err
	}

	rec := &models.Recording{
		Name:   strings.TrimSpace(*in.Name),
		Date:   time.Now().UTC(),
		Status: models.RecordingStatusSubmitted,
		UserID: actor.ID,
	}
	if err := rs.apply(actor, rec, in); err != nil {
		return nil, err
	}
	if err := rs.store.CreateRecording(rec); err != nil {
		return nil, storeErr(err)
	}
	return rs.reload(rec.ID)
}

func (rs *RecordingService) Update(actor *models.User, id uint, in RecordingInput) (*models.Recording, error) {
	if _, err := rs.visibility.CheckUserIsAuthorOf(KindRecording, id, actor, true); err != nil {
		return nil, err
	}
	if err := validateRecordingInput(in); err != nil {
		return nil, err
	}
	rec, err := rs.store.GetRecording(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := rs.apply(actor, rec, in); err != nil {
		return nil, err
	}
	rec.Course = nil
	if err := rs.store.SaveRecording(rec); err != nil {
		return nil, storeErr(err)
	}
	return rs.reload(rec.ID)
}

// Delete removes the recording, its pins and its file.
func (rs *RecordingService) Delete(actor *models.User, id uint) error {
	if _, err := rs.visibility.CheckUserIsAuthorOf(KindRecording, id, actor, true); err != nil {
		return err
	}
	files, err := rs.store.DeleteRecording(id)
	if err != nil {
		return storeErr(err)
	}
	removeFiles(rs.files, rs.logger, files)
	rs.metrics.CascadeDeletesTotal.WithLabelValues(string(KindRecording)).Inc()
	rs.logger.Printf("recording %d deleted by user %d (%d files)", id, actor.ID, len(files))
	return nil
}

// SearchByName returns the actor's own recordings whose name contains name.
func (rs *RecordingService) SearchByName(actor *models.User, name *string) ([]models.Recording, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if name == nil {
		return nil, invalid("name", "You must specify the 'name' parameter")
	}
	return rs.store.SearchRecordingsByName(actor.ID, *name)
}

// Status returns the pipeline status of a visible recording.
func (rs *RecordingService) Status(actor *models.User, id uint) (string, error) {
	rec, err := rs.Get(actor, id)
	if err != nil {
		return "", err
	}
	return rec.Status, nil
}

// UploadFile attaches the audio file of a recording and marks it online.
func (rs *RecordingService) UploadFile(actor *models.User, id uint, upload *Upload) (*models.RecordingFile, error) {
	if _, err := rs.visibility.CheckUserIsAuthorOf(KindRecording, id, actor, true); err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, invalid("file_url", "No file was submitted.")
	}
	if err := checkExtension("file_url", upload.Filename, audioExtensions); err != nil {
		return nil, err
	}
	present, err := rs.store.RecordingFileExists(id)
	if err != nil {
		return nil, err
	}
	if present {
		return nil, conflict("The File already exists")
	}

	path, err := rs.files.Save(upload.Filename, upload.Body)
	if err != nil {
		return nil, err
	}
	file := &models.RecordingFile{RecordingID: id, FileURL: path, UploadDate: time.Now().UTC()}
	if err := rs.store.AttachRecordingFile(file); err != nil {
		rs.removeFile(path)
		return nil, storeErr(err)
	}
	rs.logger.Printf("recording %d is online (%s)", id, path)
	return file, nil
}

// DeleteFile removes the audio file of a recording and marks it offline.
func (rs *RecordingService) DeleteFile(actor *models.User, id uint) error {
	if _, err := rs.visibility.CheckUserIsAuthorOf(KindRecording, id, actor, true); err != nil {
		return err
	}
	file, err := rs.store.GetRecordingFile(id)
	if err != nil {
		return storeErr(err)
	}
	if err := rs.store.DetachRecordingFile(id); err != nil {
		return storeErr(err)
	}
	rs.removeFile(file.FileURL)
	return nil
}

// File returns the audio file metadata of a recording the actor authored.
func (rs *RecordingService) File(actor *models.User, id uint) (*models.RecordingFile, error) {
	if _, err := rs.visibility.CheckUserIsAuthorOf(KindRecording, id, actor, true); err != nil {
		return nil, err
	}
	file, err := rs.store.GetRecordingFile(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return file, nil
}

func (rs *RecordingService) apply(actor *models.User, rec *models.Recording, in RecordingInput) error {
	if in.Name != nil {
		rec.Name = strings.TrimSpace(*in.Name)
	}
	if in.Date != nil {
		rec.Date = *in.Date
	}
	if in.Privacy != nil {
		rec.Privacy = *in.Privacy
	}
	if in.Status != nil {
		rec.Status = *in.Status
	}
	if in.CourseID != nil {
		rec.CourseID = nil
		if *in.CourseID != 0 {
			if _, err := rs.visibility.CheckUserIsAuthorOf(KindCourse, *in.CourseID, actor, true); err != nil {
				return err
			}
			courseID := *in.CourseID
			rec.CourseID = &courseID
		}
	}
	return nil
}

func (rs *RecordingService) reload(id uint) (*models.Recording, error) {
	rec, err := rs.store.GetRecording(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return rec, nil
}

func (rs *RecordingService) removeFile(path string) {
	removeFiles(rs.files, rs.logger, []string{path})
}

// removeFiles deletes stored files after their rows are gone. Failures are
// logged; the rows cannot be restored.
func removeFiles(files storage.FileStorage, logger *log.Logger, paths []string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := files.Delete(path); err != nil {
			logger.Printf("could not delete %s: %v", path, err)
		}
	}
}

func validateRecordingInput(in RecordingInput) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name", "This field may not be blank.")
	}
	if in.Privacy != nil && !in.Privacy.ValidForContent() {
		return invalid("privacy", "must be 0 (private), 1 (shared) or 2 (public)")
	}
	if in.Status != nil && strings.TrimSpace(*in.Status) == "" {
		return invalid("status", "This field may not be blank.")
	}
	return nil
}

func checkExtension(field, filename string, allowed []string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return invalid(field, "Wrong file format! Allowed: "+strings.Join(allowed, ", "))
}
