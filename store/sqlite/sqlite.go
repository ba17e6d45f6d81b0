/*
Package sqlite provides a SQLite-backed implementation of the booking
storage interfaces.

PURPOSE:
  Implements booking.ReservationStore and booking.UnitStore using SQLite.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

COMMIT-TIME GUARANTEES:
  Every mutation runs inside a write transaction under a process-level
  mutex:
  - Create re-checks the date range against non-cancelled siblings
  - Update/RecordPayment compare the version column and bump it
  - Payments and status-history rows land in the same transaction as the
    reservation row they describe
  The re-check uses the same booking.FirstConflict predicate as plan-time,
  so the advisory and authoritative answers cannot diverge.

KEY TABLES:
  units:          Rentable bungalows with daily rate and capacity
  reservations:   The aggregate, including the money triple and version
  payments:       Immutable trail of money received
  status_history: Immutable trail of lifecycle transitions

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/bungalows.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := booking.NewService(store, store, nil)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - booking/store.go:        Interface definitions and the commit contract
  - booking/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/booking-engine/booking"
)

// Store implements the booking storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ booking.ReservationStore = (*Store)(nil)
var _ booking.UnitStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		daily_rate TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		unit_id TEXT NOT NULL REFERENCES units(id),
		customer_id TEXT NOT NULL,
		check_in TEXT NOT NULL,
		check_out TEXT NOT NULL,
		nights INTEGER NOT NULL,
		guest_count INTEGER NOT NULL,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		daily_rate_snapshot TEXT NOT NULL,
		total_price TEXT NOT NULL,
		paid_amount TEXT NOT NULL,
		remaining_amount TEXT NOT NULL,
		price_override_reason TEXT NOT NULL DEFAULT '',
		status_change_reason TEXT NOT NULL DEFAULT '',
		cancellation_reason TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Sibling lookups for availability (hot path)
	CREATE INDEX IF NOT EXISTS idx_reservations_unit
		ON reservations(unit_id);
	CREATE INDEX IF NOT EXISTS idx_reservations_unit_status
		ON reservations(unit_id, status);

	-- Payments (append-only trail; no UPDATE or DELETE ever)
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		reservation_id TEXT NOT NULL REFERENCES reservations(id),
		amount TEXT NOT NULL,
		method TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		paid_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_reservation
		ON payments(reservation_id);

	-- Status history (append-only trail)
	CREATE TABLE IF NOT EXISTS status_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reservation_id TEXT NOT NULL REFERENCES reservations(id),
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		actor TEXT NOT NULL DEFAULT '',
		changed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_reservation
		ON status_history(reservation_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data. Demo scenarios use this; never call it outside
// dev/demo environments.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM status_history;
		DELETE FROM payments;
		DELETE FROM reservations;
		DELETE FROM units;
	`)
	return err
}

// =============================================================================
// UNITS
// =============================================================================

func (s *Store) CreateUnit(ctx context.Context, u *booking.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO units (id, name, daily_rate, capacity, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(u.ID), u.Name, u.DailyRate.String(), u.Capacity, u.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return &booking.StoreError{Op: "create unit", Err: err}
	}
	return nil
}

func (s *Store) GetUnit(ctx context.Context, id booking.UnitID) (*booking.Unit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, daily_rate, capacity, created_at FROM units WHERE id = ?`, string(id))
	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return nil, booking.ErrUnitNotFound
	}
	if err != nil {
		return nil, &booking.StoreError{Op: "get unit", Err: err}
	}
	return u, nil
}

func (s *Store) ListUnits(ctx context.Context) ([]*booking.Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, daily_rate, capacity, created_at FROM units ORDER BY id`)
	if err != nil {
		return nil, &booking.StoreError{Op: "list units", Err: err}
	}
	defer rows.Close()

	var out []*booking.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, &booking.StoreError{Op: "list units", Err: err}
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanUnit(row scannable) (*booking.Unit, error) {
	var (
		id, name, rate, createdAt string
		capacity                  int
	)
	if err := row.Scan(&id, &name, &rate, &capacity, &createdAt); err != nil {
		return nil, err
	}
	created, _ := time.Parse(time.RFC3339, createdAt)
	return &booking.Unit{
		ID:        booking.UnitID(id),
		Name:      name,
		DailyRate: booking.MustParseMoney(rate),
		Capacity:  capacity,
		CreatedAt: created,
	}, nil
}

// =============================================================================
// RESERVATIONS
// =============================================================================

const reservationColumns = `id, code, unit_id, customer_id, check_in, check_out, nights,
	guest_count, status, payment_status, daily_rate_snapshot, total_price, paid_amount,
	remaining_amount, price_override_reason, status_change_reason, cancellation_reason,
	version, created_at, updated_at`

func (s *Store) Get(ctx context.Context, id booking.ReservationID) (*booking.Reservation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, string(id))
	r, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, booking.ErrReservationNotFound
	}
	if err != nil {
		return nil, &booking.StoreError{Op: "get reservation", Err: err}
	}
	return r, nil
}

func (s *Store) List(ctx context.Context) ([]*booking.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations ORDER BY created_at DESC`)
}

func (s *Store) ListByUnit(ctx context.Context, unitID booking.UnitID) ([]*booking.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE unit_id = ? ORDER BY check_in`,
		string(unitID))
}

func (s *Store) queryReservations(ctx context.Context, query string, args ...any) ([]*booking.Reservation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &booking.StoreError{Op: "query reservations", Err: err}
	}
	defer rows.Close()

	var out []*booking.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, &booking.StoreError{Op: "query reservations", Err: err}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanReservation(row scannable) (*booking.Reservation, error) {
	var (
		id, code, unitID, customerID, checkIn, checkOut      string
		nights, guestCount, version                          int
		status, paymentStatus                                string
		rate, total, paid, remaining                         string
		overrideReason, statusReason, cancelReason           string
		createdAt, updatedAt                                 string
	)
	err := row.Scan(&id, &code, &unitID, &customerID, &checkIn, &checkOut, &nights,
		&guestCount, &status, &paymentStatus, &rate, &total, &paid,
		&remaining, &overrideReason, &statusReason, &cancelReason,
		&version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	in, _ := booking.ParseDate(checkIn)
	out, _ := booking.ParseDate(checkOut)
	created, _ := time.Parse(time.RFC3339, createdAt)
	updated, _ := time.Parse(time.RFC3339, updatedAt)

	return &booking.Reservation{
		ID:                  booking.ReservationID(id),
		Code:                code,
		UnitID:              booking.UnitID(unitID),
		CustomerID:          booking.CustomerID(customerID),
		CheckIn:             in,
		CheckOut:            out,
		Nights:              nights,
		GuestCount:          guestCount,
		Status:              booking.Status(status),
		PaymentStatus:       booking.PaymentStatus(paymentStatus),
		DailyRateSnapshot:   booking.MustParseMoney(rate),
		TotalPrice:          booking.MustParseMoney(total),
		PaidAmount:          booking.MustParseMoney(paid),
		RemainingAmount:     booking.MustParseMoney(remaining),
		PriceOverrideReason: overrideReason,
		StatusChangeReason:  statusReason,
		CancellationReason:  cancelReason,
		Version:             version,
		CreatedAt:           created,
		UpdatedAt:           updated,
	}, nil
}

func (s *Store) Create(ctx context.Context, r *booking.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &booking.StoreError{Op: "create reservation", Err: err}
	}
	defer tx.Rollback()

	if err := s.checkRangeTx(ctx, tx, r); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reservationArgs(r)...)
	if err != nil {
		return &booking.StoreError{Op: "create reservation", Err: err}
	}
	return commit(tx, "create reservation")
}

func (s *Store) Update(ctx context.Context, r *booking.Reservation, history *booking.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &booking.StoreError{Op: "update reservation", Err: err}
	}
	defer tx.Rollback()

	if err := s.commitReservationTx(ctx, tx, r); err != nil {
		return err
	}

	if history != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO status_history (reservation_id, from_status, to_status, reason, actor, changed_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			string(history.ReservationID), string(history.From), string(history.To),
			history.Reason, history.Actor, history.ChangedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return &booking.StoreError{Op: "append status history", Err: err}
		}
	}
	return commit(tx, "update reservation")
}

func (s *Store) RecordPayment(ctx context.Context, r *booking.Reservation, p *booking.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &booking.StoreError{Op: "record payment", Err: err}
	}
	defer tx.Rollback()

	if err := s.commitReservationTx(ctx, tx, r); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (id, reservation_id, amount, method, notes, paid_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.ReservationID), p.Amount.String(),
		string(p.Method), p.Notes, p.PaidAt.UTC().Format(time.RFC3339))
	if err != nil {
		return &booking.StoreError{Op: "record payment", Err: err}
	}
	return commit(tx, "record payment")
}

// commitReservationTx is the read-verify-write step: version compare,
// range re-check, then the UPDATE with version bumped. The caller's entity
// gets the new version on success.
func (s *Store) commitReservationTx(ctx context.Context, tx *sql.Tx, r *booking.Reservation) error {
	var current int
	err := tx.QueryRowContext(ctx,
		`SELECT version FROM reservations WHERE id = ?`, string(r.ID)).Scan(&current)
	if err == sql.ErrNoRows {
		return booking.ErrReservationNotFound
	}
	if err != nil {
		return &booking.StoreError{Op: "version check", Err: err}
	}
	if current != r.Version {
		return booking.ErrVersionConflict
	}

	if r.IsBlocking() {
		if err := s.checkRangeTx(ctx, tx, r); err != nil {
			return err
		}
	}

	r.Version++
	_, err = tx.ExecContext(ctx, `
		UPDATE reservations SET
			check_in = ?, check_out = ?, nights = ?, guest_count = ?,
			status = ?, payment_status = ?, daily_rate_snapshot = ?,
			total_price = ?, paid_amount = ?, remaining_amount = ?,
			price_override_reason = ?, status_change_reason = ?, cancellation_reason = ?,
			version = ?, updated_at = ?
		WHERE id = ?`,
		r.CheckIn.String(), r.CheckOut.String(), r.Nights, r.GuestCount,
		string(r.Status), string(r.PaymentStatus), r.DailyRateSnapshot.String(),
		r.TotalPrice.String(), r.PaidAmount.String(), r.RemainingAmount.String(),
		r.PriceOverrideReason, r.StatusChangeReason, r.CancellationReason,
		r.Version, r.UpdatedAt.UTC().Format(time.RFC3339),
		string(r.ID))
	if err != nil {
		r.Version--
		return &booking.StoreError{Op: "update reservation", Err: err}
	}
	return nil
}

// checkRangeTx re-runs the availability predicate against the unit's
// siblings inside the write transaction.
func (s *Store) checkRangeTx(ctx context.Context, tx *sql.Tx, r *booking.Reservation) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE unit_id = ?`, string(r.UnitID))
	if err != nil {
		return &booking.StoreError{Op: "availability re-check", Err: err}
	}
	defer rows.Close()

	var siblings []*booking.Reservation
	for rows.Next() {
		sib, err := scanReservation(rows)
		if err != nil {
			return &booking.StoreError{Op: "availability re-check", Err: err}
		}
		siblings = append(siblings, sib)
	}
	if err := rows.Err(); err != nil {
		return &booking.StoreError{Op: "availability re-check", Err: err}
	}

	if conflict := booking.FirstConflict(r.UnitID, r.Range(), siblings, r.ID); conflict != nil {
		return &booking.DateConflictError{
			UnitID:        r.UnitID,
			Requested:     r.Range(),
			ConflictingID: conflict.ID,
		}
	}
	return nil
}

func reservationArgs(r *booking.Reservation) []any {
	return []any{
		string(r.ID), r.Code, string(r.UnitID), string(r.CustomerID),
		r.CheckIn.String(), r.CheckOut.String(), r.Nights,
		r.GuestCount, string(r.Status), string(r.PaymentStatus),
		r.DailyRateSnapshot.String(), r.TotalPrice.String(), r.PaidAmount.String(),
		r.RemainingAmount.String(), r.PriceOverrideReason, r.StatusChangeReason,
		r.CancellationReason, r.Version,
		r.CreatedAt.UTC().Format(time.RFC3339), r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func commit(tx *sql.Tx, op string) error {
	if err := tx.Commit(); err != nil {
		return &booking.StoreError{Op: op, Err: err}
	}
	return nil
}

// =============================================================================
// AUDIT TRAILS
// =============================================================================

func (s *Store) Payments(ctx context.Context, id booking.ReservationID) ([]booking.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reservation_id, amount, method, notes, paid_at
		FROM payments WHERE reservation_id = ? ORDER BY paid_at`, string(id))
	if err != nil {
		return nil, &booking.StoreError{Op: "list payments", Err: err}
	}
	defer rows.Close()

	var out []booking.Payment
	for rows.Next() {
		var pid, rid, amount, method, notes, paidAt string
		if err := rows.Scan(&pid, &rid, &amount, &method, &notes, &paidAt); err != nil {
			return nil, &booking.StoreError{Op: "list payments", Err: err}
		}
		at, _ := time.Parse(time.RFC3339, paidAt)
		out = append(out, booking.Payment{
			ID:            booking.PaymentID(pid),
			ReservationID: booking.ReservationID(rid),
			Amount:        booking.MustParseMoney(amount),
			Method:        booking.PaymentMethod(method),
			Notes:         notes,
			PaidAt:        at,
		})
	}
	return out, rows.Err()
}

func (s *Store) StatusHistory(ctx context.Context, id booking.ReservationID) ([]booking.StatusChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reservation_id, from_status, to_status, reason, actor, changed_at
		FROM status_history WHERE reservation_id = ? ORDER BY id`, string(id))
	if err != nil {
		return nil, &booking.StoreError{Op: "list status history", Err: err}
	}
	defer rows.Close()

	var out []booking.StatusChange
	for rows.Next() {
		var rid, from, to, reason, actor, changedAt string
		if err := rows.Scan(&rid, &from, &to, &reason, &actor, &changedAt); err != nil {
			return nil, &booking.StoreError{Op: "list status history", Err: err}
		}
		at, _ := time.Parse(time.RFC3339, changedAt)
		out = append(out, booking.StatusChange{
			ReservationID: booking.ReservationID(rid),
			From:          booking.Status(from),
			To:            booking.Status(to),
			Reason:        reason,
			Actor:         actor,
			ChangedAt:     at,
		})
	}
	return out, rows.Err()
}
