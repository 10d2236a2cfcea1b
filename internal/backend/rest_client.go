package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/barberdesk/kiosk/internal/config"
	"github.com/barberdesk/kiosk/internal/domain"
)

const rpcPath = "/rest/v1/rpc/"

// RESTClient calls the backend's RPC functions over its REST gateway.
type RESTClient struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewRESTClient builds a client for cfg.BaseURL.
func NewRESTClient(cfg config.BackendConfig, logger *zap.Logger) *RESTClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("apikey", cfg.APIKey)
		client.SetAuthToken(cfg.APIKey)
	}
	return &RESTClient{http: client, logger: logger}
}

type sessionParams struct {
	StaffID string `json:"p_staff_id"`
	Token   string `json:"p_session_token"`
}

func credParams(creds domain.Credentials) sessionParams {
	return sessionParams{StaffID: creds.StaffID, Token: creds.SessionToken}
}

func (c *RESTClient) VerifyPIN(ctx context.Context, shopID, pin string) ([]StaffRecord, error) {
	body := map[string]string{"p_shop_id": shopID, "p_pin": pin}
	var records []StaffRecord
	if err := c.rpc(ctx, FnVerifyStaffPIN, body, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *RESTClient) ValidateSession(ctx context.Context, staffID, token string) (bool, error) {
	var raw json.RawMessage
	if err := c.rpc(ctx, FnValidateStaffSession, sessionParams{StaffID: staffID, Token: token}, &raw); err != nil {
		return false, err
	}
	return bytes.Equal(bytes.TrimSpace(raw), []byte("true")), nil
}

func (c *RESTClient) RevokeSession(ctx context.Context, staffID, token string) (bool, error) {
	var raw json.RawMessage
	if err := c.rpc(ctx, FnRevokeStaffSession, sessionParams{StaffID: staffID, Token: token}, &raw); err != nil {
		return false, err
	}
	return bytes.Equal(bytes.TrimSpace(raw), []byte("true")), nil
}

type timeEntryRow struct {
	ID       string     `json:"id"`
	StaffID  string     `json:"staff_id"`
	ShopID   string     `json:"shop_id"`
	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`
}

func (r timeEntryRow) entry() *domain.TimeEntry {
	return &domain.TimeEntry{ID: r.ID, StaffID: r.StaffID, ShopID: r.ShopID, ClockIn: r.ClockIn, ClockOut: r.ClockOut}
}

func (c *RESTClient) ClockIn(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error) {
	var row timeEntryRow
	if err := c.rpc(ctx, FnStaffClockIn, credParams(creds), &row); err != nil {
		return nil, err
	}
	return row.entry(), nil
}

func (c *RESTClient) ClockOut(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error) {
	var row timeEntryRow
	if err := c.rpc(ctx, FnStaffClockOut, credParams(creds), &row); err != nil {
		return nil, err
	}
	return row.entry(), nil
}

type appointmentRow struct {
	ID           string                   `json:"id"`
	ShopID       string                   `json:"shop_id"`
	BarberID     *string                  `json:"barber_id"`
	CustomerName string                   `json:"customer_name"`
	ServiceName  string                   `json:"service_name"`
	StartsAt     time.Time                `json:"starts_at"`
	Status       domain.AppointmentStatus `json:"status"`
	Price        decimal.Decimal          `json:"price"`
}

func (c *RESTClient) ListAppointments(ctx context.Context, creds domain.Credentials, day time.Time) ([]domain.Appointment, error) {
	body := struct {
		sessionParams
		Date string `json:"p_date"`
	}{credParams(creds), day.Format(time.DateOnly)}

	var rows []appointmentRow
	if err := c.rpc(ctx, FnShopAppointments, body, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Appointment, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Appointment(r))
	}
	return out, nil
}

type paymentRow struct {
	ID            string               `json:"id"`
	AppointmentID string               `json:"appointment_id"`
	ShopID        string               `json:"shop_id"`
	RecordedBy    string               `json:"recorded_by"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        domain.PaymentMethod `json:"method"`
	CreatedAt     time.Time            `json:"created_at"`
}

func (c *RESTClient) RecordPayment(ctx context.Context, creds domain.Credentials, in PaymentInput) (*domain.Payment, error) {
	body := struct {
		sessionParams
		AppointmentID string               `json:"p_appointment_id"`
		Amount        decimal.Decimal      `json:"p_amount"`
		Method        domain.PaymentMethod `json:"p_method"`
	}{credParams(creds), in.AppointmentID, in.Amount, in.Method}

	var row paymentRow
	if err := c.rpc(ctx, FnRecordPayment, body, &row); err != nil {
		return nil, err
	}
	payment := domain.Payment(row)
	return &payment, nil
}

// Ping checks that the gateway answers at all.
func (c *RESTClient) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/rest/v1/")
	if err != nil {
		return &Error{Op: "ping", Err: err}
	}
	if resp.StatusCode() >= 500 {
		return &Error{Op: "ping", Status: resp.StatusCode(), Message: resp.Status()}
	}
	return nil
}

type gatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *RESTClient) rpc(ctx context.Context, fn string, body, out any) error {
	started := time.Now()
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(rpcPath + fn)
	if err != nil {
		c.logger.Warn("backend rpc transport failure", zap.String("rpc", fn), zap.Error(err))
		return &Error{Op: fn, Err: err}
	}

	c.logger.Debug("backend rpc",
		zap.String("rpc", fn),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("latency", time.Since(started)))

	if resp.IsError() {
		var ge gatewayError
		_ = json.Unmarshal(resp.Body(), &ge)
		msg := ge.Message
		if msg == "" {
			msg = ge.Error
		}
		if msg == "" {
			msg = resp.Status()
		}
		return &Error{Op: fn, Status: resp.StatusCode(), Code: ge.Code, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &Error{Op: fn, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
