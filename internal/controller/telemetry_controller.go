package controller

import (
	"course-notes-be/internal/dto"
	"course-notes-be/internal/pkg/serverutils"
	"course-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITelemetryController interface {
	RegisterRoutes(r fiber.Router)
	Record(ctx *fiber.Ctx) error
}

type telemetryController struct {
	telemetryService service.ITelemetryService
}

func NewTelemetryController(telemetryService service.ITelemetryService) ITelemetryController {
	return &telemetryController{
		telemetryService: telemetryService,
	}
}

func (c *telemetryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/telemetry")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/data-items", c.Record)
}

func (c *telemetryController) Record(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.RecordDataItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.telemetryService.Record(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success record data item", res))
}
