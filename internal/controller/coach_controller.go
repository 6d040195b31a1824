package controller

import (
	"github.com/gofiber/fiber/v2"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/pkg/serverutils"
	"prepezia-be/internal/service"
)

type ICoachController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type coachController struct {
	coachService service.ICoachService
}

func NewCoachController(coachService service.ICoachService) ICoachController {
	return &coachController{
		coachService: coachService,
	}
}

func (c *coachController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/coach/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("chat", c.Chat)
}

func (c *coachController) Chat(ctx *fiber.Ctx) error {
	var req dto.CoachChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.coachService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success coach chat", res))
}
