package controller

import (
	"strings"

	"trade-assistant-be/internal/pkg/serverutils"
	"trade-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILibraryController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	ListFiles(ctx *fiber.Ctx) error
}

type libraryController struct {
	libraryService service.ILibraryService
}

func NewLibraryController(libraryService service.ILibraryService) ILibraryController {
	return &libraryController{
		libraryService: libraryService,
	}
}

func (c *libraryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1/library")
	h.Use(serverutils.AdminKeyMiddleware)
	h.Post("ingest", c.Ingest)
	h.Get("files", c.ListFiles)
}

func (c *libraryController) Ingest(ctx *fiber.Ctx) error {
	contentType := string(ctx.Request().Header.ContentType())
	if !strings.Contains(contentType, "multipart/form-data") {
		return serverutils.NewInputError("expected multipart/form-data")
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		return serverutils.NewInputError("malformed multipart payload")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return serverutils.NewInputError("at least one file is required")
	}

	res, err := c.libraryService.Ingest(ctx.Context(), files)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest library files", res))
}

func (c *libraryController) ListFiles(ctx *fiber.Ctx) error {
	res, err := c.libraryService.ListFiles(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get library files", res))
}
