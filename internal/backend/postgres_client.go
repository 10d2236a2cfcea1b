package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/barberdesk/kiosk/internal/domain"
)

// Querier is the part of a pgx pool the client needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresClient calls the backend's RPC functions directly as SQL functions.
type PostgresClient struct {
	db Querier
}

// NewPostgresClient instantiates the client over a pool (or a mock of one).
func NewPostgresClient(db Querier) *PostgresClient {
	return &PostgresClient{db: db}
}

func (c *PostgresClient) VerifyPIN(ctx context.Context, shopID, pin string) ([]StaffRecord, error) {
	const query = `
        SELECT id, name, role, COALESCE(phone, ''), is_active, shop_id, shop_name, COALESCE(shop_location, ''), session_token
        FROM verify_staff_pin($1, $2)`

	rows, err := c.db.Query(ctx, query, shopID, pin)
	if err != nil {
		return nil, wrapPgError(FnVerifyStaffPIN, err)
	}
	defer rows.Close()

	var result []StaffRecord
	for rows.Next() {
		var rec StaffRecord
		if err := rows.Scan(
			&rec.StaffID,
			&rec.Name,
			&rec.Role,
			&rec.Phone,
			&rec.IsActive,
			&rec.ShopID,
			&rec.ShopName,
			&rec.ShopLocation,
			&rec.SessionToken,
		); err != nil {
			return nil, wrapPgError(FnVerifyStaffPIN, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError(FnVerifyStaffPIN, err)
	}
	return result, nil
}

func (c *PostgresClient) ValidateSession(ctx context.Context, staffID, token string) (bool, error) {
	const query = `SELECT COALESCE(validate_staff_session($1, $2), false)`

	var valid bool
	if err := c.db.QueryRow(ctx, query, staffID, token).Scan(&valid); err != nil {
		return false, wrapPgError(FnValidateStaffSession, err)
	}
	return valid, nil
}

func (c *PostgresClient) RevokeSession(ctx context.Context, staffID, token string) (bool, error) {
	const query = `SELECT COALESCE(revoke_staff_session($1, $2), false)`

	var revoked bool
	if err := c.db.QueryRow(ctx, query, staffID, token).Scan(&revoked); err != nil {
		return false, wrapPgError(FnRevokeStaffSession, err)
	}
	return revoked, nil
}

func (c *PostgresClient) ClockIn(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error) {
	return c.timeEntry(ctx, FnStaffClockIn, creds)
}

func (c *PostgresClient) ClockOut(ctx context.Context, creds domain.Credentials) (*domain.TimeEntry, error) {
	return c.timeEntry(ctx, FnStaffClockOut, creds)
}

func (c *PostgresClient) timeEntry(ctx context.Context, fn string, creds domain.Credentials) (*domain.TimeEntry, error) {
	query := fmt.Sprintf(`SELECT id, staff_id, shop_id, clock_in, clock_out FROM %s($1, $2)`, fn)

	var entry domain.TimeEntry
	if err := c.db.QueryRow(ctx, query, creds.StaffID, creds.SessionToken).Scan(
		&entry.ID,
		&entry.StaffID,
		&entry.ShopID,
		&entry.ClockIn,
		&entry.ClockOut,
	); err != nil {
		return nil, wrapPgError(fn, err)
	}
	return &entry, nil
}

func (c *PostgresClient) ListAppointments(ctx context.Context, creds domain.Credentials, day time.Time) ([]domain.Appointment, error) {
	const query = `
        SELECT id, shop_id, COALESCE(barber_id::text, ''), customer_name, service_name, starts_at, status, price::text
        FROM get_shop_appointments($1, $2, $3::date)
        ORDER BY starts_at`

	rows, err := c.db.Query(ctx, query, creds.StaffID, creds.SessionToken, day.Format(time.DateOnly))
	if err != nil {
		return nil, wrapPgError(FnShopAppointments, err)
	}
	defer rows.Close()

	var result []domain.Appointment
	for rows.Next() {
		var (
			appt     domain.Appointment
			barberID string
			price    string
		)
		if err := rows.Scan(
			&appt.ID,
			&appt.ShopID,
			&barberID,
			&appt.CustomerName,
			&appt.ServiceName,
			&appt.StartsAt,
			&appt.Status,
			&price,
		); err != nil {
			return nil, wrapPgError(FnShopAppointments, err)
		}
		if barberID != "" {
			appt.BarberID = &barberID
		}
		if appt.Price, err = decimal.NewFromString(price); err != nil {
			return nil, &Error{Op: FnShopAppointments, Err: fmt.Errorf("parse price: %w", err)}
		}
		result = append(result, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError(FnShopAppointments, err)
	}
	return result, nil
}

func (c *PostgresClient) RecordPayment(ctx context.Context, creds domain.Credentials, in PaymentInput) (*domain.Payment, error) {
	const query = `
        SELECT id, appointment_id, shop_id, recorded_by, amount::text, method, created_at
        FROM record_payment($1, $2, $3, $4::numeric, $5)`

	var (
		payment domain.Payment
		amount  string
	)
	if err := c.db.QueryRow(ctx, query,
		creds.StaffID,
		creds.SessionToken,
		in.AppointmentID,
		in.Amount.String(),
		string(in.Method),
	).Scan(
		&payment.ID,
		&payment.AppointmentID,
		&payment.ShopID,
		&payment.RecordedBy,
		&amount,
		&payment.Method,
		&payment.CreatedAt,
	); err != nil {
		return nil, wrapPgError(FnRecordPayment, err)
	}

	var err error
	if payment.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, &Error{Op: FnRecordPayment, Err: fmt.Errorf("parse amount: %w", err)}
	}
	return &payment, nil
}

// wrapPgError keeps a raised exception's message for classification and
// treats everything else as a transport failure.
func wrapPgError(fn string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &Error{Op: fn, Err: ErrNoResult}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Error{Op: fn, Code: pgErr.Code, Message: pgErr.Message}
	}
	return &Error{Op: fn, Err: err}
}
