package controller

import (
	"claim-verify-be/internal/dto"
	"claim-verify-be/internal/pkg/serverutils"
	"claim-verify-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Advance(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Result(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Info(ctx *fiber.Ctx) error
}

type sessionController struct {
	service   service.ISessionService
	jwtSecret string
}

func NewSessionController(service service.ISessionService, jwtSecret string) ISessionController {
	return &sessionController{service: service, jwtSecret: jwtSecret}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/verify/v1")
	h.Get("/info", c.Info)
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Post("/session", c.Create)
	h.Post("/session/:id/advance", c.Advance)
	h.Get("/session/:id/status", c.Status)
	h.Get("/session/:id/result", c.Result)
	h.Delete("/session/:id", c.Delete)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInputError("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) Advance(ctx *fiber.Ctx) error {
	res, err := c.service.Advance(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success advance session", res))
}

func (c *sessionController) Status(ctx *fiber.Ctx) error {
	res, err := c.service.Status(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session status", res))
}

func (c *sessionController) Result(ctx *fiber.Ctx) error {
	res, err := c.service.Result(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session result", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.Delete(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) Info(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get service info", c.service.Info()))
}
