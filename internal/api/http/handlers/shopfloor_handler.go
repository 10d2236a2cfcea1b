package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/barberdesk/kiosk/internal/api/dto"
	"github.com/barberdesk/kiosk/internal/backend"
	"github.com/barberdesk/kiosk/internal/service"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

// ShopFloorHandler exposes privileged shop-floor endpoints.
type ShopFloorHandler struct {
	shopFloor *service.ShopFloorService
}

// NewShopFloorHandler constructs handler.
func NewShopFloorHandler(shopFloor *service.ShopFloorService) *ShopFloorHandler {
	return &ShopFloorHandler{shopFloor: shopFloor}
}

// ClockIn handles POST /shop/clock-in.
func (h *ShopFloorHandler) ClockIn(c *fiber.Ctx) error {
	entry, err := h.shopFloor.ClockIn(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTimeEntryResponse(entry)})
}

// ClockOut handles POST /shop/clock-out.
func (h *ShopFloorHandler) ClockOut(c *fiber.Ctx) error {
	entry, err := h.shopFloor.ClockOut(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimeEntryResponse(entry)})
}

// Appointments handles GET /shop/appointments?date=YYYY-MM-DD.
func (h *ShopFloorHandler) Appointments(c *fiber.Ctx) error {
	var day time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			return apperrors.NewValidationError("invalid date", map[string]any{"date": "expected YYYY-MM-DD"})
		}
		day = parsed
	}

	appts, err := h.shopFloor.ListAppointments(c.UserContext(), day)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAppointmentResponses(appts)})
}

// RecordPayment handles POST /shop/payments.
func (h *ShopFloorHandler) RecordPayment(c *fiber.Ctx) error {
	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	payment, err := h.shopFloor.RecordPayment(c.UserContext(), backend.PaymentInput{
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Method:        req.Method,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewPaymentResponse(payment)})
}
