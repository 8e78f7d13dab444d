package store

import "pincorder/backend/models"

// Pins returns the pins of a recording ordered by time.
func (s *Store) Pins(recordingID uint) ([]models.Pin, error) {
	var pins []models.Pin
	err := s.DB.Where("recording_id = ?", recordingID).Order("time ASC").Find(&pins).Error
	return pins, err
}

func (s *Store) PinAt(recordingID uint, time int) (*models.Pin, error) {
	var p models.Pin
	if err := s.DB.Where("recording_id = ? AND time = ?", recordingID, time).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// CreatePin inserts a pin; a second pin at the same (recording, time)
// fails with ErrDuplicate through the unique index.
func (s *Store) CreatePin(p *models.Pin) error {
	return translate(s.DB.Create(p).Error)
}

func (s *Store) SavePin(p *models.Pin) error {
	return translate(s.DB.Save(p).Error)
}

func (s *Store) DeletePin(p *models.Pin) error {
	return translate(s.DB.Delete(p).Error)
}
