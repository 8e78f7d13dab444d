package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pincorder/backend/models"
	"pincorder/backend/store"
)

// Registration is the data needed to open an account.
type Registration struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type UserService struct {
	store *store.Store
}

func NewUserService(s *store.Store) *UserService {
	return &UserService{store: s}
}

// Register creates the user and its Profile. A taken username is a conflict.
func (us *UserService) Register(in Registration) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, invalid("username", "This field is required.")
	}
	if in.Password == "" {
		return nil, invalid("password", "This field is required.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	}
	if err := us.store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflict("a user with that username already exists")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials. Unknown users and wrong passwords
// both yield ErrUnauthenticated.
func (us *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := us.store.GetUserByUsername(username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Get resolves a token subject to a user.
func (us *UserService) Get(id uint) (*models.User, error) {
	user, err := us.store.GetUser(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}
