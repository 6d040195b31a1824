package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/pkg/serverutils"
	"prepezia-be/internal/service"
)

type IProgressController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
	RecordSignal(ctx *fiber.Ctx) error
	OpenReader(ctx *fiber.Ctx) error
	TurnPage(ctx *fiber.Ctx) error
}

type progressController struct {
	progressService service.IProgressService
}

func NewProgressController(progressService service.IProgressService) IProgressController {
	return &progressController{
		progressService: progressService,
	}
}

func (c *progressController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/progress/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("reader/turn", c.TurnPage)
	h.Get(":noteId", c.Get)
	h.Post(":noteId/signal", c.RecordSignal)
	h.Post(":noteId/reader", c.OpenReader)
}

func (c *progressController) Get(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	noteId, err := uuid.Parse(ctx.Params("noteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	res, err := c.progressService.GetProgress(ctx.Context(), userId, noteId)
	if err != nil {
		return mapNoteError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show progress", res))
}

func (c *progressController) RecordSignal(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	noteId, err := uuid.Parse(ctx.Params("noteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	var req dto.RecordSignalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.progressService.RecordSignal(ctx.Context(), userId, noteId, &req)
	if err != nil {
		return mapNoteError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success record signal", res))
}

func (c *progressController) OpenReader(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	noteId, err := uuid.Parse(ctx.Params("noteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	res, err := c.progressService.OpenReader(ctx.Context(), userId, noteId)
	if err != nil {
		return mapNoteError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success open reader", res))
}

func (c *progressController) TurnPage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.TurnPageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.progressService.TurnPage(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrReaderSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return mapNoteError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success turn page", res))
}
