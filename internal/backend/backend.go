// Package backend is the kiosk's view of the remote barbershop backend: a
// black-box RPC surface. PIN hashing, rate limiting and session bookkeeping
// all happen on the other side.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/barberdesk/kiosk/internal/domain"
)

// RPC function names exposed by the backend.
const (
	FnVerifyStaffPIN       = "verify_staff_pin"
	FnValidateStaffSession = "validate_staff_session"
	FnRevokeStaffSession   = "revoke_staff_session"
	FnStaffClockIn         = "staff_clock_in"
	FnStaffClockOut        = "staff_clock_out"
	FnShopAppointments     = "get_shop_appointments"
	FnRecordPayment        = "record_payment"
)

// API is the full set of backend calls the kiosk makes.
type API interface {
	SessionAPI
	ShopFloorAPI
}

// SessionAPI covers the PIN login lifecycle.
type SessionAPI interface {
	// VerifyPIN returns at most one record. An empty slice means the shop/PIN
	// pair matched nobody; an error means the call itself failed.
	VerifyPIN(ctx context.Context, shopID, pin string) ([]StaffRecord, error)
	// ValidateSession reports true only when the backend answered literal true.
	ValidateSession(ctx context.Context, staffID, token string) (bool, error)
	RevokeSession(ctx context.Context, staffID, token string) (bool, error)
}

// ShopFloorAPI covers privileged calls. Every one carries the caller's credentials.
type ShopFloorAPI interface {
	ClockIn(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error)
	ClockOut(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error)
	ListAppointments(ctx context.Context, creds domain.Credentials, day time.Time) ([]domain.Appointment, error)
	RecordPayment(ctx context.Context, creds domain.Credentials, in PaymentInput) (*domain.Payment, error)
}

// StaffRecord is the flat row returned by verify_staff_pin.
type StaffRecord struct {
	StaffID      string           `json:"id"`
	Name         string           `json:"name"`
	Role         domain.StaffRole `json:"role"`
	Phone        string           `json:"phone"`
	IsActive     bool             `json:"is_active"`
	ShopID       string           `json:"shop_id"`
	ShopName     string           `json:"shop_name"`
	ShopLocation string           `json:"shop_location"`
	SessionToken string           `json:"session_token"`
}

// Session assembles the kiosk session from the record without transformation.
func (r StaffRecord) Session() *domain.StaffSession {
	return &domain.StaffSession{
		StaffID:  r.StaffID,
		Name:     r.Name,
		Role:     r.Role,
		ShopID:   r.ShopID,
		Phone:    r.Phone,
		IsActive: r.IsActive,
		Shop: domain.Shop{
			ID:       r.ShopID,
			Name:     r.ShopName,
			Location: r.ShopLocation,
		},
		SessionToken: r.SessionToken,
	}
}

// PaymentInput is what the cashier enters for a payment.
type PaymentInput struct {
	AppointmentID string
	Amount        decimal.Decimal
	Method        domain.PaymentMethod
}

// ErrNoResult is returned when a single-row RPC returned nothing.
var ErrNoResult = errors.New("backend returned no result")

// Error is a failure reported by the backend or by the transport to it.
// Message is raw backend text: classify it, never show it.
type Error struct {
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("backend %s: status %d: %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("backend %s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
