package controllers

import (
	"log"
	"time"

	"pincorder/backend/config"
	"pincorder/backend/middleware"
	"pincorder/backend/models"
	"pincorder/backend/services"
	"pincorder/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type RecordingsController struct {
	Svc    *services.Services
	Cfg    *config.Config
	Logger *log.Logger
}

func NewRecordingsController(svc *services.Services, cfg *config.Config, logger *log.Logger) *RecordingsController {
	return &RecordingsController{Svc: svc, Cfg: cfg, Logger: logger}
}

type RecordingRequest struct {
	Name    *string         `json:"name"`
	Date    *time.Time      `json:"date"`
	Course  nullableID      `json:"course" swaggertype:"integer"`
	Privacy *models.Privacy `json:"privacy" enums:"0,1,2"`
	Status  *string         `json:"status"`
}

func (r RecordingRequest) input() services.RecordingInput {
	return services.RecordingInput{
		Name:     r.Name,
		Date:     r.Date,
		CourseID: r.Course.ptr(),
		Privacy:  r.Privacy,
		Status:   r.Status,
	}
}

func (rc *RecordingsController) GetRecordings(c *fiber.Ctx) error {
	recs, err := rc.Svc.Recordings.List(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return c.JSON(nonNilRecordings(recs))
}

func (rc *RecordingsController) GetRecording(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	rec, err := rc.Svc.Recordings.Get(middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return c.JSON(rec)
}

// CreateRecording godoc
// @Summary Create a recording
// @Description Creates a recording owned by the caller, optionally filed under one of their courses
// @Tags recordings
// @Accept json
// @Produce json
// @Param input body RecordingRequest true "Recording data"
// @Success 201 {object} models.Recording
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /recordings [post]
func (rc *RecordingsController) CreateRecording(c *fiber.Ctx) error {
	var req RecordingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	rec, err := rc.Svc.Recordings.Create(middleware.CurrentUser(c), req.input())
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return utils.Created(c, rec)
}

func (rc *RecordingsController) UpdateRecording(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	var req RecordingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	rec, err := rc.Svc.Recordings.Update(middleware.CurrentUser(c), id, req.input())
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return c.JSON(rec)
}

func (rc *RecordingsController) DeleteRecording(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	if err := rc.Svc.Recordings.Delete(middleware.CurrentUser(c), id); err != nil {
		return respondError(c, rc.Logger, err)
	}
	return utils.NoContent(c)
}

// SearchByName godoc
// @Summary Search own recordings
// @Description Returns the caller's recordings whose name contains the term
// @Tags recordings
// @Produce json
// @Param name query string true "Search term"
// @Success 200 {array} models.Recording
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /recordings/search_by_name [get]
func (rc *RecordingsController) SearchByName(c *fiber.Ctx) error {
	recs, err := rc.Svc.Recordings.SearchByName(middleware.CurrentUser(c), queryParam(c, "name"))
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return c.JSON(nonNilRecordings(recs))
}

func (rc *RecordingsController) GetStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	status, err := rc.Svc.Recordings.Status(middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return c.JSON(fiber.Map{"status": status})
}

// UploadFile godoc
// @Summary Upload recording audio
// @Description Attaches an .mp3 or .aac file to the recording and marks it online
// @Tags recordings
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Recording ID"
// @Param file_url formData file true "Audio file"
// @Success 201 {object} models.RecordingFile
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /recordings/{id}/upload_file [post]
func (rc *RecordingsController) UploadFile(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	upload, closeFn, err := formUpload(c, "file_url")
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	defer closeFn()

	file, err := rc.Svc.Recordings.UploadFile(middleware.CurrentUser(c), id, upload)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return utils.Created(c, file)
}

func (rc *RecordingsController) DeleteFile(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	if err := rc.Svc.Recordings.DeleteFile(middleware.CurrentUser(c), id); err != nil {
		return respondError(c, rc.Logger, err)
	}
	return utils.OK(c, "OK")
}

func (rc *RecordingsController) GetFile(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	file, err := rc.Svc.Recordings.File(middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return c.JSON(file)
}

// ShareRecordingWithUser godoc
// @Summary Share a recording
// @Description Shares a single recording with another user
// @Tags recordings
// @Accept json
// @Produce json
// @Param id path int true "Recording ID"
// @Param input body ShareRequest true "Target user"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /recordings/{id}/share_recording_with_user [post]
func (rc *RecordingsController) ShareRecordingWithUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	var req ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := rc.Svc.Sharing.ShareRecordingWithUser(middleware.CurrentUser(c), id, req.SharedUser); err != nil {
		return respondError(c, rc.Logger, err)
	}
	return utils.OK(c, "OK")
}

func nonNilRecordings(recs []models.Recording) []models.Recording {
	if recs == nil {
		return []models.Recording{}
	}
	return recs
}
