package controllers

import (
	"mime/multipart"

	"pincorder/backend/middleware"
	"pincorder/backend/models"
	"pincorder/backend/services"
	"pincorder/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type PinRequest struct {
	Time *int    `json:"time"`
	Text *string `json:"text"`
}

type PinBatchRequest struct {
	Batch []services.PinBatchEntry `json:"batch"`
}

// GetPins godoc
// @Summary List pins
// @Description Returns the pins of a visible recording ordered by time
// @Tags pins
// @Produce json
// @Param id path int true "Recording ID"
// @Success 200 {array} models.Pin
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /recordings/{id}/get_pins [get]
func (rc *RecordingsController) GetPins(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	pins, err := rc.Svc.Pins.List(middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return c.JSON(nonNilPins(pins))
}

// AddPin accepts JSON or multipart; an image goes in the media_url file field.
func (rc *RecordingsController) AddPin(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	in, closeFn, err := pinInput(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	defer closeFn()

	pin, err := rc.Svc.Pins.Add(middleware.CurrentUser(c), id, in)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return utils.Created(c, pin)
}

func (rc *RecordingsController) UpdatePin(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	in, closeFn, err := pinInput(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	defer closeFn()

	pin, err := rc.Svc.Pins.Update(middleware.CurrentUser(c), id, in)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return c.JSON(pin)
}

// DeletePin reads time from the JSON body or the query string.
func (rc *RecordingsController) DeletePin(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	var req PinRequest
	if len(c.Body()) > 0 && isJSON(c) {
		if err := c.BodyParser(&req); err != nil {
			return utils.BadRequest(c, "Cannot parse JSON")
		}
	}
	if req.Time == nil && c.Query("time") != "" {
		t := c.QueryInt("time", -1)
		req.Time = &t
	}
	if err := rc.Svc.Pins.Delete(middleware.CurrentUser(c), id, req.Time); err != nil {
		return respondError(c, rc.Logger, err)
	}
	return utils.OK(c, "OK")
}

// AddPinBatch godoc
// @Summary Apply a batch of pin edits
// @Description Creates, updates or deletes pins by time in one transaction
// @Tags pins
// @Accept json
// @Produce json
// @Param id path int true "Recording ID"
// @Param input body PinBatchRequest true "Batch of pins"
// @Success 200 {array} models.Pin
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /recordings/{id}/add_pin_batch [post]
func (rc *RecordingsController) AddPinBatch(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	var req PinBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	pins, err := rc.Svc.Pins.AddBatch(middleware.CurrentUser(c), id, req.Batch)
	if err != nil {
		return respondError(c, rc.Logger, err)
	}
	return c.JSON(nonNilPins(pins))
}

func pinInput(c *fiber.Ctx) (services.PinInput, func(), error) {
	noop := func() {}
	if isJSON(c) {
		var req PinRequest
		if err := c.BodyParser(&req); err != nil {
			return services.PinInput{}, noop, &services.ValidationError{Field: "body", Message: "Cannot parse JSON"}
		}
		return services.PinInput{Time: req.Time, Text: req.Text}, noop, nil
	}

	t, err := formInt(c, "time")
	if err != nil {
		return services.PinInput{}, noop, err
	}
	in := services.PinInput{Time: t, Text: formString(c, "text")}
	upload, closeFn, err := formUpload(c, "media_url")
	if err != nil {
		return services.PinInput{}, noop, err
	}
	in.Image = upload
	return in, closeFn, nil
}

// formUpload opens an optional multipart file. The returned func closes it.
func formUpload(c *fiber.Ctx, field string) (*services.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, noop, nil
	}
	var f multipart.File
	if f, err = fh.Open(); err != nil {
		return nil, noop, err
	}
	return &services.Upload{Filename: fh.Filename, Body: f}, func() { f.Close() }, nil
}

func nonNilPins(pins []models.Pin) []models.Pin {
	if pins == nil {
		return []models.Pin{}
	}
	return pins
}
