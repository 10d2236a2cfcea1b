package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/barberdesk/kiosk/internal/domain"
)

// TimeEntryResponse payload.
type TimeEntryResponse struct {
	ID       string     `json:"id"`
	StaffID  string     `json:"staff_id"`
	ShopID   string     `json:"shop_id"`
	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out,omitempty"`
}

// NewTimeEntryResponse maps a time entry.
func NewTimeEntryResponse(e *domain.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:       e.ID,
		StaffID:  e.StaffID,
		ShopID:   e.ShopID,
		ClockIn:  e.ClockIn,
		ClockOut: e.ClockOut,
	}
}

// AppointmentResponse payload.
type AppointmentResponse struct {
	ID           string                   `json:"id"`
	BarberID     *string                  `json:"barber_id,omitempty"`
	CustomerName string                   `json:"customer_name"`
	ServiceName  string                   `json:"service_name"`
	StartsAt     time.Time                `json:"starts_at"`
	Status       domain.AppointmentStatus `json:"status"`
	Price        decimal.Decimal          `json:"price"`
}

// NewAppointmentResponses maps a day's appointments.
func NewAppointmentResponses(appts []domain.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, AppointmentResponse{
			ID:           a.ID,
			BarberID:     a.BarberID,
			CustomerName: a.CustomerName,
			ServiceName:  a.ServiceName,
			StartsAt:     a.StartsAt,
			Status:       a.Status,
			Price:        a.Price,
		})
	}
	return out
}

// RecordPaymentRequest payload. Amount is a decimal string such as "25.00".
type RecordPaymentRequest struct {
	AppointmentID string               `json:"appointment_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        domain.PaymentMethod `json:"method"`
}

// PaymentResponse payload.
type PaymentResponse struct {
	ID            string               `json:"id"`
	AppointmentID string               `json:"appointment_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        domain.PaymentMethod `json:"method"`
	RecordedBy    string               `json:"recorded_by"`
	CreatedAt     time.Time            `json:"created_at"`
}

// NewPaymentResponse maps a payment.
func NewPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		Amount:        p.Amount,
		Method:        p.Method,
		RecordedBy:    p.RecordedBy,
		CreatedAt:     p.CreatedAt,
	}
}
