package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberdesk/kiosk/internal/config"
	"github.com/barberdesk/kiosk/internal/domain"
)

type rpcCall struct {
	Path   string
	APIKey string
	Body   map[string]any
}

type callLog struct {
	mu    sync.Mutex
	calls []rpcCall
}

func (l *callLog) add(c rpcCall) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, c)
}

func (l *callLog) all() []rpcCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]rpcCall(nil), l.calls...)
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, call rpcCall)) (*RESTClient, *callLog) {
	t.Helper()
	log := &callLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := rpcCall{Path: r.URL.Path, APIKey: r.Header.Get("apikey")}
		_ = json.NewDecoder(r.Body).Decode(&call.Body)
		log.add(call)
		w.Header().Set("Content-Type", "application/json")
		handler(w, call)
	}))
	t.Cleanup(srv.Close)

	client := NewRESTClient(config.BackendConfig{BaseURL: srv.URL, APIKey: "anon-key", TimeoutSeconds: 2}, nil)
	return client, log
}

func TestRESTVerifyPIN(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ rpcCall) {
		_, _ = w.Write([]byte(`[{
			"id": "staff-1", "name": "Marco", "role": "barber", "phone": null,
			"is_active": true, "shop_id": "shop-1", "shop_name": "Downtown",
			"shop_location": "12 Main St", "session_token": "tok-1"
		}]`))
	})

	records, err := client.VerifyPIN(context.Background(), "shop-1", "1234")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, StaffRecord{
		StaffID:      "staff-1",
		Name:         "Marco",
		Role:         domain.StaffRoleBarber,
		IsActive:     true,
		ShopID:       "shop-1",
		ShopName:     "Downtown",
		ShopLocation: "12 Main St",
		SessionToken: "tok-1",
	}, records[0])

	require.Len(t, calls.all(), 1)
	call := calls.all()[0]
	assert.Equal(t, "/rest/v1/rpc/verify_staff_pin", call.Path)
	assert.Equal(t, "anon-key", call.APIKey)
	assert.Equal(t, map[string]any{"p_shop_id": "shop-1", "p_pin": "1234"}, call.Body)
}

func TestRESTVerifyPINNoMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ rpcCall) {
		_, _ = w.Write([]byte(`[]`))
	})

	records, err := client.VerifyPIN(context.Background(), "shop-1", "0000")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRESTValidateSessionOnlyLiteralTrue(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{body: `true`, want: true},
		{body: ` true `, want: true},
		{body: `false`, want: false},
		{body: `"true"`, want: false},
		{body: `1`, want: false},
		{body: `null`, want: false},
		{body: `[true]`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			client, calls := newTestClient(t, func(w http.ResponseWriter, _ rpcCall) {
				_, _ = w.Write([]byte(tt.body))
			})
			got, err := client.ValidateSession(context.Background(), "staff-1", "tok-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, map[string]any{"p_staff_id": "staff-1", "p_session_token": "tok-1"}, calls.all()[0].Body)
		})
	}
}

func TestRESTBackendErrorKeepsMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ rpcCall) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"P0001","message":"Session expired or invalid"}`))
	})

	_, err := client.ClockIn(context.Background(), domain.Credentials{StaffID: "staff-1", SessionToken: "tok"})
	require.Error(t, err)

	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, FnStaffClockIn, be.Op)
	assert.Equal(t, http.StatusBadRequest, be.Status)
	assert.Equal(t, "P0001", be.Code)
	assert.Equal(t, "Session expired or invalid", be.Message)
}

func TestRESTTransportFailure(t *testing.T) {
	client := NewRESTClient(config.BackendConfig{BaseURL: "http://127.0.0.1:1", TimeoutSeconds: 1}, nil)

	_, err := client.RevokeSession(context.Background(), "staff-1", "tok")
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.NotNil(t, be.Err)
	assert.Zero(t, be.Status)
}

func TestRESTRecordPayment(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ rpcCall) {
		_, _ = w.Write([]byte(`{
			"id": "pay-1", "appointment_id": "appt-1", "shop_id": "shop-1",
			"recorded_by": "staff-1", "amount": 35.5, "method": "card",
			"created_at": "2026-10-15T10:00:00Z"
		}`))
	})

	payment, err := client.RecordPayment(context.Background(),
		domain.Credentials{StaffID: "staff-1", SessionToken: "tok"},
		PaymentInput{AppointmentID: "appt-1", Amount: decimal.RequireFromString("35.50"), Method: domain.PaymentCard})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("35.5").Equal(payment.Amount))
	assert.Equal(t, domain.PaymentCard, payment.Method)
	assert.Equal(t, time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC), payment.CreatedAt.UTC())

	body := calls.all()[0].Body
	assert.Equal(t, "appt-1", body["p_appointment_id"])
	assert.Equal(t, "35.5", body["p_amount"])
	assert.Equal(t, "card", body["p_method"])
	assert.Equal(t, "tok", body["p_session_token"])
}

func TestRESTListAppointments(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ rpcCall) {
		_, _ = w.Write([]byte(`[
			{"id": "appt-1", "shop_id": "shop-1", "barber_id": "staff-1", "customer_name": "Ana",
			 "service_name": "Fade", "starts_at": "2026-10-15T09:00:00Z", "status": "scheduled", "price": "30.00"},
			{"id": "appt-2", "shop_id": "shop-1", "barber_id": null, "customer_name": "Ben",
			 "service_name": "Shave", "starts_at": "2026-10-15T11:00:00Z", "status": "completed", "price": 20}
		]`))
	})

	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	appts, err := client.ListAppointments(context.Background(), domain.Credentials{StaffID: "staff-1", SessionToken: "tok"}, day)
	require.NoError(t, err)
	require.Len(t, appts, 2)
	require.NotNil(t, appts[0].BarberID)
	assert.Equal(t, "staff-1", *appts[0].BarberID)
	assert.Nil(t, appts[1].BarberID)
	assert.True(t, decimal.NewFromInt(20).Equal(appts[1].Price))
	assert.Equal(t, "2026-10-15", calls.all()[0].Body["p_date"])
}
