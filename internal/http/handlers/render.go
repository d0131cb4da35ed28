package handlers

import (
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"

	"stockroom/internal/log"
	"stockroom/internal/services"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// The layout highlights the nav entry for the current page.
	data["Path"] = c.Path()
	if rid, ok := c.Locals("requestid").(string); ok {
		data["RequestID"] = rid
	}
	return c.Render(tmpl, data)
}

// list writes the {message, success, data} envelope the dashboard reads.
func list(c *fiber.Ctx, what string, data any) error {
	return c.JSON(fiber.Map{
		"message": what + " fetched successfully",
		"success": true,
		"data":    data,
	})
}

func listFailure(c *fiber.Ctx, action, what string, err error) error {
	log.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Error while fetching " + what,
		"success": false,
		"error":   "Failed to fetch " + what,
	})
}

func badJSON(c *fiber.Ctx, err error) error {
	log.Security(c, "validation.fail", map[string]any{"reason": "malformed body", "err": err.Error()})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request body must be valid JSON"})
}

// writeFailure maps a failed create to 400 for rejected input and 500 otherwise.
// Store details are logged, never returned.
func writeFailure(c *fiber.Ctx, action, friendly string, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve.Fields))
		for f := range ve.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		log.Security(c, "validation.fail", map[string]any{"fields": fields})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Please fix the form errors before submitting",
			"fields": ve.Fields,
		})
	}
	fields := map[string]any{}
	var we *services.WriteError
	if errors.As(err, &we) {
		fields["op"] = we.Op
	}
	log.Error(c, action, err, fields)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": friendly})
}
