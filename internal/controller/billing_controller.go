package controller

import (
	"strategy-buddy-be/internal/dto"
	"strategy-buddy-be/internal/pkg/serverutils"
	"strategy-buddy-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router)
	CreateCheckoutSession(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	GetSubscription(ctx *fiber.Ctx) error
}

type billingController struct {
	billingService service.IBillingService
	authMiddleware fiber.Handler
}

func NewBillingController(billingService service.IBillingService, authMiddleware fiber.Handler) IBillingController {
	return &billingController{
		billingService: billingService,
		authMiddleware: authMiddleware,
	}
}

func (c *billingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/billing/v1")
	// Webhook is signed by the provider, not by a user token.
	h.Post("webhook", c.Webhook)

	protected := h.Group("")
	protected.Use(c.authMiddleware)
	protected.Post("checkout", c.CreateCheckoutSession)
	protected.Get("subscription", c.GetSubscription)
}

func (c *billingController) CreateCheckoutSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	email, _ := ctx.Locals("user_email").(string)

	var req dto.CreateCheckoutSessionRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return err
	}

	res, err := c.billingService.CreateCheckoutSession(ctx.Context(), userId, email, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create checkout session", res))
}

func (c *billingController) Webhook(ctx *fiber.Ctx) error {
	signature := ctx.Get("Stripe-Signature")
	if err := c.billingService.HandleWebhook(ctx.Context(), ctx.Body(), signature); err != nil {
		return serverutils.NewHTTPError(fiber.StatusBadRequest, err.Error())
	}
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *billingController) GetSubscription(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.billingService.GetSubscription(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get subscription", res))
}
