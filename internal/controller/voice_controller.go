package controller

import (
	"krishi-voice-be/internal/dto"
	"krishi-voice-be/internal/pkg/serverutils"
	"krishi-voice-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVoiceController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Turn(ctx *fiber.Ctx) error
	Hangup(ctx *fiber.Ctx) error
	Sessions(ctx *fiber.Ctx) error
}

type voiceController struct {
	voiceService service.IVoiceService
}

func NewVoiceController(voiceService service.IVoiceService) IVoiceController {
	return &voiceController{
		voiceService: voiceService,
	}
}

func (c *voiceController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/voice/v1")
	h.Use(authMiddleware)
	h.Post("webhook", c.Turn)
	h.Post("hangup", c.Hangup)
	h.Get("sessions", c.Sessions)
}

func (c *voiceController) Turn(ctx *fiber.Ctx) error {
	var req dto.TurnWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.voiceService.HandleTurn(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Turn processed", res))
}

func (c *voiceController) Hangup(ctx *fiber.Ctx) error {
	var req dto.HangupWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.voiceService.EndCall(ctx.Context(), req.CallId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Call ended", nil))
}

func (c *voiceController) Sessions(ctx *fiber.Ctx) error {
	res := c.voiceService.ActiveSessions(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Active sessions", res))
}
