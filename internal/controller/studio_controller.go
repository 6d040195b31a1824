package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/entity"
	"prepezia-be/internal/pkg/serverutils"
	"prepezia-be/internal/service"
)

type IStudioController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type studioController struct {
	studioService service.IStudioService
}

func NewStudioController(studioService service.IStudioService) IStudioController {
	return &studioController{
		studioService: studioService,
	}
}

func (c *studioController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/studio/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post(":noteId/generate", c.Generate)
	h.Delete(":noteId/:kind", c.Delete)
}

func (c *studioController) Generate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	noteId, err := uuid.Parse(ctx.Params("noteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	var req dto.GenerateContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.studioService.Generate(ctx.Context(), userId, noteId, entity.ContentKind(req.Kind))
	if err != nil {
		return mapNoteError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success generate content", res))
}

func (c *studioController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	noteId, err := uuid.Parse(ctx.Params("noteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	kind := entity.ContentKind(ctx.Params("kind"))
	if !kind.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown content kind")
	}

	if err := c.studioService.Delete(ctx.Context(), userId, noteId, kind); err != nil {
		return mapNoteError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete content", nil))
}
