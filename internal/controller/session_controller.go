package controller

import (
	"podbot-be/internal/dto"
	"podbot-be/internal/pkg/serverutils"
	"podbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Rebuild(ctx *fiber.Ctx) error
}

type sessionController struct {
	service   service.ISessionService
	jwtSecret string
}

func NewSessionController(service service.ISessionService, jwtSecret string) ISessionController {
	return &sessionController{service: service, jwtSecret: jwtSecret}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware(c.jwtSecret)

	h := r.Group("/sessions")
	h.Get("/:username", auth, c.List)
	h.Post("/:username", auth, c.Create)
	h.Get("/:username/:sessionId", auth, c.Show)
	h.Post("/:username/:sessionId", auth, c.SendMessage)
	h.Delete("/:username/:sessionId", auth, c.Clear)
	h.Get("/:username/:sessionId/history", auth, c.History)
	h.Post("/:username/:sessionId/rebuild", auth, c.Rebuild)
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	res, err := c.service.ListSessions(ctx.UserContext(), ctx.Params("username"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.UserContext(), ctx.Params("username"))
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.FetchSession(ctx.UserContext(), ctx.Params("username"), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch session", res))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	res, err := c.service.FetchHistory(ctx.UserContext(), ctx.Params("username"), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch history", res))
}

func (c *sessionController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.UserContext(), ctx.Params("username"), ctx.Params("sessionId"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *sessionController) Clear(ctx *fiber.Ctx) error {
	if err := c.service.ClearSession(ctx.UserContext(), ctx.Params("username"), ctx.Params("sessionId")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear session", nil))
}

func (c *sessionController) Rebuild(ctx *fiber.Ctx) error {
	res, err := c.service.RebuildWorkingMemory(ctx.UserContext(), ctx.Params("username"), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rebuild working memory", res))
}
