package services

import (
	"errors"
	"fmt"
	"log"

	"pincorder/backend/models"
	"pincorder/backend/storage"
	"pincorder/backend/store"
)

// PinInput identifies a pin by time and carries its optional content.
type PinInput struct {
	Time  *int
	Text  *string
	Image *Upload
}

// PinBatchEntry is one element of an add_pin_batch request.
type PinBatchEntry struct {
	Time     *int    `json:"time"`
	Text     *string `json:"text"`
	MediaURL *string `json:"media_url"`
	Deleted  *bool   `json:"deleted"`
}

type PinService struct {
	store      *store.Store
	visibility *Visibility
	files      storage.FileStorage
	logger     *log.Logger
}

func NewPinService(s *store.Store, v *Visibility, files storage.FileStorage, logger *log.Logger) *PinService {
	return &PinService{store: s, visibility: v, files: files, logger: logger}
}

// List returns the pins of a visible recording ordered by time.
func (ps *PinService) List(actor *models.User, recordingID uint) ([]models.Pin, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if _, err := ps.visibility.VisibleRecording(actor, recordingID); err != nil {
		return nil, err
	}
	return ps.store.Pins(recordingID)
}

// Add creates a pin. A pin already present at the same time is a conflict.
func (ps *PinService) Add(actor *models.User, recordingID uint, in PinInput) (*models.Pin, error) {
	if _, err := ps.visibility.CheckUserIsAuthorOf(KindRecording, recordingID, actor, true); err != nil {
		return nil, err
	}
	if in.Time == nil {
		return nil, invalid("time", "This field is required.")
	}
	if in.Image != nil {
		if err := checkExtension("media_url", in.Image.Filename, imageExtensions); err != nil {
			return nil, err
		}
	}

	if _, err := ps.store.PinAt(recordingID, *in.Time); err == nil {
		return nil, conflict(fmt.Sprintf("a pin already exists at time %d", *in.Time))
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	pin := &models.Pin{RecordingID: recordingID, Time: *in.Time}
	if in.Text != nil {
		pin.Text = *in.Text
	}
	if in.Image != nil {
		path, err := ps.files.Save(in.Image.Filename, in.Image.Body)
		if err != nil {
			return nil, err
		}
		pin.MediaURL = path
	}

	if err := ps.store.CreatePin(pin); err != nil {
		ps.removeFile(pin.MediaURL)
		return nil, storeErr(err)
	}
	return pin, nil
}

// Update replaces the text of the pin at in.Time and, when given, its image.
// An omitted text clears it.
func (ps *PinService) Update(actor *models.User, recordingID uint, in PinInput) (*models.Pin, error) {
	if _, err := ps.visibility.CheckUserIsAuthorOf(KindRecording, recordingID, actor, true); err != nil {
		return nil, err
	}
	if in.Time == nil {
		return nil, invalid("time", "This field is required.")
	}
	if in.Image != nil {
		if err := checkExtension("media_url", in.Image.Filename, imageExtensions); err != nil {
			return nil, err
		}
	}
	pin, err := ps.store.PinAt(recordingID, *in.Time)
	if err != nil {
		return nil, storeErr(err)
	}

	pin.Text = ""
	if in.Text != nil {
		pin.Text = *in.Text
	}
	old := ""
	if in.Image != nil {
		path, err := ps.files.Save(in.Image.Filename, in.Image.Body)
		if err != nil {
			return nil, err
		}
		old, pin.MediaURL = pin.MediaURL, path
	}

	if err := ps.store.SavePin(pin); err != nil {
		if in.Image != nil {
			ps.removeFile(pin.MediaURL)
		}
		return nil, storeErr(err)
	}
	ps.removeFile(old)
	return pin, nil
}

// Delete removes the pin at time.
func (ps *PinService) Delete(actor *models.User, recordingID uint, time *int) error {
	if _, err := ps.visibility.CheckUserIsAuthorOf(KindRecording, recordingID, actor, true); err != nil {
		return err
	}
	if time == nil {
		return invalid("time", "This field is required.")
	}
	pin, err := ps.store.PinAt(recordingID, *time)
	if err != nil {
		return storeErr(err)
	}
	if err := ps.store.DeletePin(pin); err != nil {
		return storeErr(err)
	}
	ps.removeFile(pin.MediaURL)
	return nil
}

// AddBatch applies entries in order inside one transaction. An entry whose
// time matches an existing pin updates it, or deletes it when Deleted is
// true; any other entry creates a pin. Deleting a time with no pin is a
// no-op. A nil batch or an entry without time rejects the whole request.
//
// Images are only uploaded through Add and Update. A batch media_url may
// repeat the pin's current path or be empty to drop the image; any other
// value rejects the batch, so a pin never points at a file it did not upload.
func (ps *PinService) AddBatch(actor *models.User, recordingID uint, batch []PinBatchEntry) ([]models.Pin, error) {
	if _, err := ps.visibility.CheckUserIsAuthorOf(KindRecording, recordingID, actor, true); err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, invalid("batch", "You must specify the 'batch' parameter containing the data")
	}
	for i, e := range batch {
		if e.Time == nil {
			return nil, invalid(fmt.Sprintf("batch[%d].time", i), "This field is required.")
		}
	}

	var removed []string
	err := ps.store.Transaction(func(tx *store.Store) error {
		for i, e := range batch {
			existing, err := tx.PinAt(recordingID, *e.Time)
			switch {
			case err == nil:
				if e.Deleted != nil && *e.Deleted {
					if err := tx.DeletePin(existing); err != nil {
						return err
					}
					removed = append(removed, existing.MediaURL)
					continue
				}
				existing.Text = ""
				if e.Text != nil {
					existing.Text = *e.Text
				}
				if e.MediaURL != nil && *e.MediaURL != existing.MediaURL {
					if *e.MediaURL != "" {
						return foreignMedia(i)
					}
					removed = append(removed, existing.MediaURL)
					existing.MediaURL = ""
				}
				if err := tx.SavePin(existing); err != nil {
					return err
				}
			case errors.Is(err, store.ErrNotFound):
				if e.Deleted != nil && *e.Deleted {
					continue
				}
				if e.MediaURL != nil && *e.MediaURL != "" {
					return foreignMedia(i)
				}
				pin := &models.Pin{RecordingID: recordingID, Time: *e.Time}
				if e.Text != nil {
					pin.Text = *e.Text
				}
				if err := tx.CreatePin(pin); err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	removeFiles(ps.files, ps.logger, removed)
	return ps.store.Pins(recordingID)
}

func foreignMedia(i int) error {
	return invalid(fmt.Sprintf("batch[%d].media_url", i), "Images must be uploaded with add_pin or update_pin.")
}

func (ps *PinService) removeFile(path string) {
	removeFiles(ps.files, ps.logger, []string{path})
}
