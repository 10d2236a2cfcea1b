package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/barberdesk/kiosk/internal/auth"
	"github.com/barberdesk/kiosk/internal/backend"
	"github.com/barberdesk/kiosk/internal/domain"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

// ShopFloorService exposes the privileged calls staff make from the kiosk.
type ShopFloorService struct {
	api   backend.ShopFloorAPI
	guard *auth.Guard
	now   func() time.Time
}

// NewShopFloorService constructs the service.
func NewShopFloorService(api backend.ShopFloorAPI, guard *auth.Guard) *ShopFloorService {
	return &ShopFloorService{api: api, guard: guard, now: time.Now}
}

// ClockIn starts a time entry for the logged-in staff member.
func (s *ShopFloorService) ClockIn(ctx context.Context) (*domain.TimeEntry, error) {
	var entry *domain.TimeEntry
	err := s.guard.Do(ctx, func(ctx context.Context, creds domain.Credentials) error {
		var err error
		entry, err = s.api.ClockIn(ctx, creds)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ClockOut closes the open time entry for the logged-in staff member.
func (s *ShopFloorService) ClockOut(ctx context.Context) (*domain.TimeEntry, error) {
	var entry *domain.TimeEntry
	err := s.guard.Do(ctx, func(ctx context.Context, creds domain.Credentials) error {
		var err error
		entry, err = s.api.ClockOut(ctx, creds)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListAppointments returns the shop's bookings for day. A zero day means today.
func (s *ShopFloorService) ListAppointments(ctx context.Context, day time.Time) ([]domain.Appointment, error) {
	if day.IsZero() {
		day = s.now()
	}
	var appts []domain.Appointment
	err := s.guard.Do(ctx, func(ctx context.Context, creds domain.Credentials) error {
		var err error
		appts, err = s.api.ListAppointments(ctx, creds, day)
		return err
	})
	if err != nil {
		return nil, err
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}
	return appts, nil
}

// RecordPayment records money taken for an appointment. Input is checked
// before any backend call is made.
func (s *ShopFloorService) RecordPayment(ctx context.Context, in backend.PaymentInput) (*domain.Payment, error) {
	if err := validatePayment(&in); err != nil {
		return nil, err
	}
	var payment *domain.Payment
	err := s.guard.Do(ctx, func(ctx context.Context, creds domain.Credentials) error {
		var err error
		payment, err = s.api.RecordPayment(ctx, creds, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func validatePayment(in *backend.PaymentInput) error {
	in.AppointmentID = strings.TrimSpace(in.AppointmentID)
	details := map[string]any{}
	if in.AppointmentID == "" {
		details["appointment_id"] = "required"
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		details["amount"] = "must be greater than zero"
	} else if !in.Amount.Equal(in.Amount.Round(2)) {
		details["amount"] = "at most two decimal places"
	}
	switch in.Method {
	case domain.PaymentCash, domain.PaymentCard:
	default:
		details["method"] = "must be cash or card"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid payment", details)
	}
	return nil
}
