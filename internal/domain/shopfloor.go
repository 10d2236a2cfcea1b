package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry is a clock-in/out record for a staff member.
type TimeEntry struct {
	ID       string
	StaffID  string
	ShopID   string
	ClockIn  time.Time
	ClockOut *time.Time
}

// AppointmentStatus enumerates booking states.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// Appointment is a booked service slot at a shop.
type Appointment struct {
	ID           string
	ShopID       string
	BarberID     *string
	CustomerName string
	ServiceName  string
	StartsAt     time.Time
	Status       AppointmentStatus
	Price        decimal.Decimal
}

// PaymentMethod enumerates accepted tenders.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Payment records money taken for an appointment.
type Payment struct {
	ID            string
	AppointmentID string
	ShopID        string
	RecordedBy    string
	Amount        decimal.Decimal
	Method        PaymentMethod
	CreatedAt     time.Time
}
