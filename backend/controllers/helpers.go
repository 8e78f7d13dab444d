package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"pincorder/backend/services"
	"pincorder/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// respondError writes the HTTP form of a service error. Unknown errors are
// logged and reported as 500 without detail.
func respondError(c *fiber.Ctx, logger *log.Logger, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return utils.ValidationError(c, map[string]string{verr.Field: verr.Message})
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFound(c, "Not found.")
	case errors.Is(err, services.ErrUnauthenticated):
		return utils.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		return utils.Conflict(c, err.Error())
	}
	logger.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return utils.InternalServerError(c, "Internal server error")
}

// pathID parses the :id route parameter. A malformed id is reported as
// not found.
func pathID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, services.ErrNotFound
	}
	return uint(id), nil
}

// nullableID tells an absent foreign key from an explicit null. Null maps
// to 0, which services read as "clear".
type nullableID struct {
	set   bool
	value uint
}

func (n *nullableID) UnmarshalJSON(b []byte) error {
	n.set = true
	if string(b) == "null" {
		n.value = 0
		return nil
	}
	return json.Unmarshal(b, &n.value)
}

func (n nullableID) ptr() *uint {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

// formInt reads an integer form field. It returns nil when the field is
// absent and a validation error when it is not a number.
func formInt(c *fiber.Ctx, field string) (*int, error) {
	raw := c.FormValue(field)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &services.ValidationError{Field: field, Message: "A valid integer is required."}
	}
	return &v, nil
}

// formString returns nil when the form field is absent.
func formString(c *fiber.Ctx, field string) *string {
	if c.Request().PostArgs().Has(field) {
		v := c.FormValue(field)
		return &v
	}
	if form, err := c.MultipartForm(); err == nil {
		if vals, ok := form.Value[field]; ok && len(vals) > 0 {
			return &vals[0]
		}
	}
	return nil
}

func isJSON(c *fiber.Ctx) bool {
	return c.Is("json")
}

// queryParam returns nil when the query parameter is absent.
func queryParam(c *fiber.Ctx, name string) *string {
	args := c.Context().QueryArgs()
	if !args.Has(name) {
		return nil
	}
	v := string(args.Peek(name))
	return &v
}
