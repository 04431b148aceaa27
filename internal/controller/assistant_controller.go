package controller

import (
	"mime/multipart"
	"strings"

	"trade-assistant-be/internal/dto"
	"trade-assistant-be/internal/pkg/serverutils"
	"trade-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.RequireAssistantAccess)
	h.Post("query", c.Query)
}

func (c *assistantController) Query(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user identity"})
	}

	var req dto.AssistantQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInputError("malformed request payload")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	files, err := c.formFiles(ctx)
	if err != nil {
		return err
	}
	if len(files) > 0 {
		if mayUpload, _ := ctx.Locals("may_upload_documents").(bool); !mayUpload {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Document upload requires an eligible subscription"})
		}
	}

	res, err := c.assistantService.Ask(ctx.Context(), userId, &req, files)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

// formFiles collects uploads from a multipart body. JSON bodies simply
// have none.
func (c *assistantController) formFiles(ctx *fiber.Ctx) ([]*multipart.FileHeader, error) {
	contentType := string(ctx.Request().Header.ContentType())
	if !strings.Contains(contentType, "multipart/form-data") {
		return nil, nil
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, serverutils.NewInputError("malformed multipart payload")
	}
	files := form.File["files"]
	if extra := form.File["files[]"]; len(extra) > 0 {
		files = append(files, extra...)
	}
	return files, nil
}
