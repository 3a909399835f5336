package controller

import (
	"course-notes-be/internal/dto"
	"course-notes-be/internal/pkg/serverutils"
	"course-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	r.Get("/series/:seriesId/userfiles/:userFileId/notes", serverutils.JwtMiddleware, c.List)
	r.Post("/userfiles/:userFileId/notes", serverutils.JwtMiddleware, c.Save)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	seriesId, err := serverutils.ParamID(ctx, "seriesId")
	if err != nil {
		return err
	}
	userFileId, err := serverutils.ParamID(ctx, "userFileId")
	if err != nil {
		return err
	}

	res, err := c.noteService.List(ctx.UserContext(), userId, seriesId, userFileId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Save(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	userFileId, err := serverutils.ParamID(ctx, "userFileId")
	if err != nil {
		return err
	}

	var req dto.SaveNotesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequest("Invalid request body")
	}
	if req.UserFileId != 0 && req.UserFileId != userFileId {
		return serverutils.NewBadRequest("user_file_id does not match the path")
	}
	req.UserFileId = userFileId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Save(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save notes", res))
}
