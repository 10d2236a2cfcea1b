// Package backendtest provides an in-memory stand-in for the shop backend.
package backendtest

import (
	"context"
	"sync"
	"time"

	"github.com/barberdesk/kiosk/internal/backend"
	"github.com/barberdesk/kiosk/internal/domain"
)

// Fake implements backend.API. Unset hooks fall back to simple defaults:
// VerifyPIN matches Staff by shop and PIN, ValidateSession reports true for
// tokens in Live, RevokeSession drops the token from Live.
type Fake struct {
	mu sync.Mutex

	// Staff maps shopID+"/"+pin to the record returned by VerifyPIN.
	Staff map[string]backend.StaffRecord
	// Live holds tokens the fake still accepts.
	Live map[string]bool

	VerifyPINFunc        func(ctx context.Context, shopID, pin string) ([]backend.StaffRecord, error)
	ValidateSessionFunc  func(ctx context.Context, staffID, token string) (bool, error)
	RevokeSessionFunc    func(ctx context.Context, staffID, token string) (bool, error)
	ClockInFunc          func(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error)
	ClockOutFunc         func(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error)
	ListAppointmentsFunc func(ctx context.Context, creds domain.Credentials, day time.Time) ([]domain.Appointment, error)
	RecordPaymentFunc    func(ctx context.Context, creds domain.Credentials, in backend.PaymentInput) (*domain.Payment, error)

	calls map[string]int
	creds []domain.Credentials
}

var _ backend.API = (*Fake)(nil)

// NewFake returns an empty fake.
func NewFake() *Fake {
	return &Fake{
		Staff: map[string]backend.StaffRecord{},
		Live:  map[string]bool{},
		calls: map[string]int{},
	}
}

// AddStaff registers rec under shopID/pin and marks its token live.
func (f *Fake) AddStaff(pin string, rec backend.StaffRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Staff[rec.ShopID+"/"+pin] = rec
	if rec.SessionToken != "" {
		f.Live[rec.SessionToken] = true
	}
}

// Kill makes the fake reject token from now on.
func (f *Fake) Kill(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Live, token)
}

// Calls returns how many times the named RPC was invoked.
func (f *Fake) Calls(fn string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[fn]
}

// Credentials returns every credential set privileged calls carried.
func (f *Fake) Credentials() []domain.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Credentials(nil), f.creds...)
}

func (f *Fake) record(fn string, creds *domain.Credentials) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[fn]++
	if creds != nil {
		f.creds = append(f.creds, *creds)
	}
}

func (f *Fake) VerifyPIN(ctx context.Context, shopID, pin string) ([]backend.StaffRecord, error) {
	f.record(backend.FnVerifyStaffPIN, nil)
	if f.VerifyPINFunc != nil {
		return f.VerifyPINFunc(ctx, shopID, pin)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.Staff[shopID+"/"+pin]
	if !ok {
		return []backend.StaffRecord{}, nil
	}
	return []backend.StaffRecord{rec}, nil
}

func (f *Fake) ValidateSession(ctx context.Context, staffID, token string) (bool, error) {
	f.record(backend.FnValidateStaffSession, nil)
	if f.ValidateSessionFunc != nil {
		return f.ValidateSessionFunc(ctx, staffID, token)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Live[token], nil
}

func (f *Fake) RevokeSession(ctx context.Context, staffID, token string) (bool, error) {
	f.record(backend.FnRevokeStaffSession, nil)
	if f.RevokeSessionFunc != nil {
		return f.RevokeSessionFunc(ctx, staffID, token)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	live := f.Live[token]
	delete(f.Live, token)
	return live, nil
}

func (f *Fake) ClockIn(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error) {
	f.record(backend.FnStaffClockIn, &creds)
	if f.ClockInFunc != nil {
		return f.ClockInFunc(ctx, creds)
	}
	if err := f.checkLive(creds); err != nil {
		return nil, err
	}
	return &domain.TimeEntry{ID: "entry-1", StaffID: creds.StaffID, ShopID: creds.ShopID, ClockIn: time.Now().UTC()}, nil
}

func (f *Fake) ClockOut(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error) {
	f.record(backend.FnStaffClockOut, &creds)
	if f.ClockOutFunc != nil {
		return f.ClockOutFunc(ctx, creds)
	}
	if err := f.checkLive(creds); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &domain.TimeEntry{ID: "entry-1", StaffID: creds.StaffID, ShopID: creds.ShopID, ClockIn: now.Add(-time.Hour), ClockOut: &now}, nil
}

func (f *Fake) ListAppointments(ctx context.Context, creds domain.Credentials, day time.Time) ([]domain.Appointment, error) {
	f.record(backend.FnShopAppointments, &creds)
	if f.ListAppointmentsFunc != nil {
		return f.ListAppointmentsFunc(ctx, creds, day)
	}
	if err := f.checkLive(creds); err != nil {
		return nil, err
	}
	return []domain.Appointment{}, nil
}

func (f *Fake) RecordPayment(ctx context.Context, creds domain.Credentials, in backend.PaymentInput) (*domain.Payment, error) {
	f.record(backend.FnRecordPayment, &creds)
	if f.RecordPaymentFunc != nil {
		return f.RecordPaymentFunc(ctx, creds, in)
	}
	if err := f.checkLive(creds); err != nil {
		return nil, err
	}
	return &domain.Payment{
		ID:            "pay-1",
		AppointmentID: in.AppointmentID,
		ShopID:        creds.ShopID,
		RecordedBy:    creds.StaffID,
		Amount:        in.Amount,
		Method:        in.Method,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

func (f *Fake) checkLive(creds domain.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Live[creds.SessionToken] {
		return &backend.Error{Op: "privileged", Code: "P0001", Message: "Invalid or expired session"}
	}
	return nil
}
