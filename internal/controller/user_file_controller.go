package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/pkg/serverutils"
	"course-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserFileController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type userFileController struct {
	userFileService service.IUserFileService
	uploadDir       string
}

func NewUserFileController(userFileService service.IUserFileService, uploadDir string) IUserFileController {
	return &userFileController{
		userFileService: userFileService,
		uploadDir:       uploadDir,
	}
}

func (c *userFileController) RegisterRoutes(r fiber.Router) {
	r.Post("/series/:seriesId/userfiles", serverutils.JwtMiddleware, c.Upload)
	r.Get("/series/:seriesId/userfiles", serverutils.JwtMiddleware, c.List)
	r.Get("/series/:seriesId/userfiles/:userFileId", serverutils.JwtMiddleware, c.Show)
}

func (c *userFileController) Upload(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	seriesId, err := serverutils.ParamID(ctx, "seriesId")
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewBadRequest("Missing file", "file is required")
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return serverutils.NewBadRequest("Only PDF files are accepted")
	}

	dir := filepath.Join(c.uploadDir, fmt.Sprintf("series_%d", seriesId))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, uuid.NewString()+".pdf")
	if err := ctx.SaveFile(fh, path); err != nil {
		return err
	}

	req := dto.UploadUserFileRequest{
		SeriesId:    seriesId,
		Name:        filepath.Base(fh.Filename),
		StoragePath: path,
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		_ = os.Remove(path)
		return err
	}

	res, err := c.userFileService.Register(ctx.UserContext(), userId, &req)
	if err != nil {
		_ = os.Remove(path)
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success upload file", res))
}

func (c *userFileController) Show(ctx *fiber.Ctx) error {
	seriesId, err := serverutils.ParamID(ctx, "seriesId")
	if err != nil {
		return err
	}
	userFileId, err := serverutils.ParamID(ctx, "userFileId")
	if err != nil {
		return err
	}

	res, err := c.userFileService.Show(ctx.UserContext(), seriesId, userFileId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show file", res))
}

func (c *userFileController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	seriesId, err := serverutils.ParamID(ctx, "seriesId")
	if err != nil {
		return err
	}

	var req dto.ListUserFilesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.NewBadRequest("Invalid query")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.userFileService.List(ctx.UserContext(), userId, seriesId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list files", res))
}
