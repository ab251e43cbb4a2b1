package controller

import (
	"podbot-be/internal/pkg/serverutils"
	"podbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMemoryController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
}

type memoryController struct {
	service   service.ISessionService
	jwtSecret string
}

func NewMemoryController(service service.ISessionService, jwtSecret string) IMemoryController {
	return &memoryController{service: service, jwtSecret: jwtSecret}
}

func (c *memoryController) RegisterRoutes(r fiber.Router) {
	r.Get("/memories/:username", serverutils.JwtMiddleware(c.jwtSecret), c.List)
}

func (c *memoryController) List(ctx *fiber.Ctx) error {
	res, err := c.service.FetchMemories(ctx.UserContext(), ctx.Params("username"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch memories", res))
}
