package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/pkg/serverutils"
	"prepezia-be/internal/service"
)

type IExamController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
}

type examController struct {
	examService service.IExamService
}

func NewExamController(examService service.IExamService) IExamController {
	return &examController{
		examService: examService,
	}
}

func (c *examController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/exam/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("submit", c.Submit)
	h.Post(":noteId/start", c.Start)
}

func (c *examController) Start(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	noteId, err := uuid.Parse(ctx.Params("noteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	res, err := c.examService.Start(ctx.Context(), userId, noteId)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotGenerated) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return mapNoteError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start exam", res))
}

func (c *examController) Submit(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SubmitExamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.examService.Submit(ctx.Context(), userId, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamSessionNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExamDeadlinePassed):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return mapNoteError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit exam", res))
}
