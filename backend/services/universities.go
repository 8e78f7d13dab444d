package services

import (
	"pincorder/backend/models"
	"pincorder/backend/store"
)

// UniversityService exposes the read-only university catalogue.
type UniversityService struct {
	store       *store.Store
	searchLimit int
}

func NewUniversityService(s *store.Store, searchLimit int) *UniversityService {
	return &UniversityService{store: s, searchLimit: searchLimit}
}

func (us *UniversityService) List() ([]models.University, error) {
	return us.store.ListUniversities()
}

func (us *UniversityService) Get(id uint) (*models.University, error) {
	u, err := us.store.GetUniversity(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}

// Search matches name or short name case-insensitively.
func (us *UniversityService) Search(name *string) ([]models.University, error) {
	if name == nil {
		return nil, invalid("name", "You must specify the 'name' parameter")
	}
	return us.store.SearchUniversities(*name, us.searchLimit)
}
