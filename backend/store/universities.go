package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm/clause"

	"pincorder/backend/models"
)

func (s *Store) ListUniversities() ([]models.University, error) {
	var unis []models.University
	err := s.DB.Order("id").Find(&unis).Error
	return unis, err
}

func (s *Store) GetUniversity(id uint) (*models.University, error) {
	var u models.University
	if err := s.DB.First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UniversityExists(id uint) (bool, error) {
	return exists(s.DB.Model(&models.University{}).Where("id = ?", id))
}

// SearchUniversities matches name or short name case-insensitively.
func (s *Store) SearchUniversities(term string, limit int) ([]models.University, error) {
	pattern := containsPattern(term)
	var unis []models.University
	q := s.DB.Where("LOWER(name) LIKE ?"+likeEscape+" OR LOWER(short_name) LIKE ?"+likeEscape, pattern, pattern).Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&unis).Error
	return unis, err
}

// UpsertUniversity inserts u or updates the name of the row with the same short name.
func (s *Store) UpsertUniversity(u *models.University) error {
	return translate(s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "short_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(u).Error)
}

// ImportUniversities reads "name,short_name" rows and upserts them. A
// header row starting with "name" is skipped. It returns the number of rows
// written.
func (s *Store) ImportUniversities(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	count := 0
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(record[0], "name") {
			continue
		}
		name, short := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if name == "" || short == "" {
			return count, fmt.Errorf("line %d: name and short_name are required", line)
		}
		if err := s.UpsertUniversity(&models.University{Name: name, ShortName: short}); err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		count++
	}
}
