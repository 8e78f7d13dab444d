// Package store is the entity store: GORM persistence for universities,
// teachers, courses, recordings, pins, users and their profiles.
//
// Side effects that a framework would normally hide behind signals are
// explicit here: CreateUser creates the Profile, and the Delete* methods
// perform the cascade, including removal from every profile's shared-set.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"pincorder/backend/config"
	"pincorder/backend/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Open connects to the database selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// Migrate creates or updates the schema, including the join tables that
// back course/teacher ownership and the per-profile shared-sets.
func (s *Store) Migrate() error {
	joins := []struct {
		model any
		field string
		join  any
	}{
		{&models.Course{}, "AuthorizedUsers", &models.CourseAuthorizedUser{}},
		{&models.Teacher{}, "AuthorizedUsers", &models.TeacherAuthorizedUser{}},
		{&models.Profile{}, "SharedCourses", &models.ProfileSharedCourse{}},
		{&models.Profile{}, "SharedRecordings", &models.ProfileSharedRecording{}},
	}
	for _, j := range joins {
		if err := s.DB.SetupJoinTable(j.model, j.field, j.join); err != nil {
			return fmt.Errorf("setup join table %s: %w", j.field, err)
		}
	}

	return s.DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.University{},
		&models.Teacher{},
		&models.Course{},
		&models.Recording{},
		&models.RecordingFile{},
		&models.Pin{},
		&models.CourseAuthorizedUser{},
		&models.TeacherAuthorizedUser{},
		&models.ProfileSharedCourse{},
		&models.ProfileSharedRecording{},
	)
}

// Transaction runs fn against a Store bound to a single transaction.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.DB.Transaction(func(db *gorm.DB) error {
		return fn(&Store{DB: db})
	})
}

// translate maps driver errors onto the store's sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func exists(db *gorm.DB) (bool, error) {
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func insertIgnore(db *gorm.DB, row any) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term literally anywhere in
// a lowercased column. Use it with likeEscape.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

const likeEscape = ` ESCAPE '\'`
