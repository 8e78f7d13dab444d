package controllers

import (
	"errors"
	"log"

	"pincorder/backend/config"
	"pincorder/backend/middleware"
	"pincorder/backend/models"
	"pincorder/backend/services"
	"pincorder/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Svc    *services.Services
	Cfg    *config.Config
	Logger *log.Logger
}

func NewAuthController(svc *services.Services, cfg *config.Config, logger *log.Logger) *AuthController {
	return &AuthController{Svc: svc, Cfg: cfg, Logger: logger}
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=150" example:"john_doe"`
	Email     string `json:"email" validate:"omitempty,email,max=254" example:"user@example.com"`
	Password  string `json:"password" validate:"required,min=6" example:"password123"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new user account together with its profile
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	user, err := ac.Svc.Users.Register(services.Registration{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		return respondError(c, ac.Logger, err)
	}

	return ac.tokenResponse(c, user)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	user, err := ac.Svc.Users.Authenticate(input.Username, input.Password)
	if errors.Is(err, services.ErrUnauthenticated) {
		return utils.Unauthorized(c, "Invalid credentials")
	}
	if err != nil {
		return respondError(c, ac.Logger, err)
	}

	return ac.tokenResponse(c, user)
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile data
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

func (ac *AuthController) tokenResponse(c *fiber.Ctx, user *models.User) error {
	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
