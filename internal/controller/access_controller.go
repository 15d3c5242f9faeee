package controller

import (
	"strings"

	"strategy-buddy-be/internal/pkg/serverutils"
	"strategy-buddy-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAccessController interface {
	RegisterRoutes(r fiber.Router)
	Gate(ctx *fiber.Ctx) error
	SignOut(ctx *fiber.Ctx) error
}

type accessController struct {
	accessService      service.IAccessService
	authMiddleware     fiber.Handler
	optionalMiddleware fiber.Handler
}

func NewAccessController(accessService service.IAccessService, authMiddleware, optionalMiddleware fiber.Handler) IAccessController {
	return &accessController{
		accessService:      accessService,
		authMiddleware:     authMiddleware,
		optionalMiddleware: optionalMiddleware,
	}
}

func (c *accessController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/access/v1")
	// The gate must answer anonymous callers with "signed_out", not 401.
	h.Get("gate", c.optionalMiddleware, c.Gate)
	h.Post("signout", c.authMiddleware, c.SignOut)
}

func (c *accessController) Gate(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	email, _ := ctx.Locals("user_email").(string)

	res, err := c.accessService.Gate(ctx.Context(), userId, email)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve access", res))
}

func (c *accessController) SignOut(ctx *fiber.Ctx) error {
	token := strings.TrimPrefix(ctx.Get("Authorization"), "Bearer ")
	if err := c.accessService.SignOut(ctx.Context(), token); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success sign out", nil))
}
