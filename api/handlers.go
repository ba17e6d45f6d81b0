/*
handlers.go - HTTP API handlers for the reservation engine

PURPOSE:
  Exposes the booking engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates every decision to the booking package.

ENDPOINTS:
  Units:
    GET    /api/units                     List bungalows
    POST   /api/units                     Create bungalow
    GET    /api/units/{id}                Get bungalow
    GET    /api/units/{id}/calendar       Month availability (rendering)
    GET    /api/units/{id}/availability   Range check (?from=&to=)

  Reservations:
    GET    /api/reservations              List reservations
    POST   /api/reservations              Create (Pending, optional deposit)
    GET    /api/reservations/{id}         Get reservation
    POST   /api/reservations/{id}/approve | check-in | check-out | cancel
    GET    /api/reservations/{id}/payments
    POST   /api/reservations/{id}/payments
    POST   /api/reservations/{id}/price
    POST   /api/reservations/{id}/postponement/preview
    POST   /api/reservations/{id}/postponement
    GET    /api/reservations/{id}/history

REQUEST FLOW:
  1. Decode and validate the DTO (validator struct tags)
  2. Parse boundary types (dates, money)
  3. Call the booking service
  4. Serialize response

ERROR HANDLING:
  Engine errors map onto HTTP status via the booking helpers:
  - 400: IsClientError (bad amounts, bad transitions, missing reasons)
  - 404: IsNotFound
  - 409: IsConflict (date conflicts, version conflicts)
  - 500: everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/booking-engine/booking"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is what the HTTP layer needs from persistence: both engine store
// interfaces plus the dev-only reset used by scenarios. The SQLite and
// memory stores both satisfy it.
type Store interface {
	booking.ReservationStore
	booking.UnitStore
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store Store
	Svc   *booking.Service

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store Store) *Handler {
	return &Handler{
		Store: store,
		Svc:   booking.NewService(store, store, nil),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case booking.IsClientError(err):
		status = http.StatusBadRequest
	case booking.IsNotFound(err):
		status = http.StatusNotFound
	case booking.IsConflict(err):
		status = http.StatusConflict
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

// decodeAndValidate decodes the body into v and runs struct validation.
// Returns false with a 400 already written on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return false
	}
	if err := validate.Struct(v); err != nil {
		badRequest(w, "validation failed: "+err.Error())
		return false
	}
	return true
}

func parseMoney(s string) (booking.Money, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return booking.Money{}, false
	}
	return booking.NewMoneyFromDecimal(d), true
}

func reservationID(r *http.Request) booking.ReservationID {
	return booking.ReservationID(chi.URLParam(r, "id"))
}

// =============================================================================
// UNIT HANDLERS
// =============================================================================

func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.Store.ListUnits(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]UnitDTO, 0, len(units))
	for _, u := range units {
		out = append(out, toUnitDTO(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req CreateUnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rate, ok := parseMoney(req.DailyRate)
	if !ok || !rate.IsPositive() {
		badRequest(w, "daily_rate must be a positive decimal")
		return
	}

	unit := &booking.Unit{
		ID:        booking.UnitID(req.ID),
		Name:      req.Name,
		DailyRate: rate,
		Capacity:  req.Capacity,
		CreatedAt: h.Svc.Clock.Now(),
	}
	if err := h.Store.CreateUnit(r.Context(), unit); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUnitDTO(unit))
}

func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request) {
	unit, err := h.Store.GetUnit(r.Context(), booking.UnitID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUnitDTO(unit))
}

// UnitCalendar returns per-day availability for ?year=&month=. This backs
// calendar coloring; commits always go through the range check.
func (h *Handler) UnitCalendar(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(r.URL.Query().Get("year"))
	month, err2 := strconv.Atoi(r.URL.Query().Get("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		badRequest(w, "year and month query parameters required")
		return
	}

	days, err := h.Svc.MonthAvailability(r.Context(), booking.UnitID(chi.URLParam(r, "id")), year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]DayAvailabilityDTO, 0, len(days))
	for _, d := range days {
		out = append(out, DayAvailabilityDTO{Day: d.Day.String(), Available: d.Available})
	}
	writeJSON(w, http.StatusOK, out)
}

// CheckAvailability answers whether [from, to) is free: ?from=&to=.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	from, err1 := booking.ParseDate(r.URL.Query().Get("from"))
	to, err2 := booking.ParseDate(r.URL.Query().Get("to"))
	if err1 != nil || err2 != nil {
		badRequest(w, "from and to query parameters required (2006-01-02)")
		return
	}

	exclude := booking.ReservationID(r.URL.Query().Get("exclude"))
	free, err := h.Svc.CheckRange(r.Context(), booking.UnitID(chi.URLParam(r, "id")), from, to, exclude)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": free})
}

// =============================================================================
// RESERVATION HANDLERS
// =============================================================================

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	var (
		reservations []*booking.Reservation
		err          error
	)
	if unitID := r.URL.Query().Get("unit_id"); unitID != "" {
		reservations, err = h.Store.ListByUnit(r.Context(), booking.UnitID(unitID))
	} else {
		reservations, err = h.Store.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]ReservationDTO, 0, len(reservations))
	for _, res := range reservations {
		out = append(out, toReservationDTO(res))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	checkIn, _ := booking.ParseDate(req.CheckIn)
	checkOut, _ := booking.ParseDate(req.CheckOut)

	params := booking.CreateParams{
		UnitID:     booking.UnitID(req.UnitID),
		CustomerID: booking.CustomerID(req.CustomerID),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: req.GuestCount,
		Deposit:    booking.ZeroMoney(),
	}
	if req.Deposit != "" {
		deposit, ok := parseMoney(req.Deposit)
		if !ok {
			badRequest(w, "deposit must be a decimal")
			return
		}
		params.Deposit = deposit
		params.DepositMethod = booking.PaymentMethod(req.DepositMethod)
	}
	if req.ManualPrice != "" {
		price, ok := parseMoney(req.ManualPrice)
		if !ok {
			badRequest(w, "manual_price must be a decimal")
			return
		}
		params.Manual = &booking.ManualPrice{Price: price, Reason: req.PriceReason}
	}

	res, err := h.Svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationDTO(res))
}

func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.Store.Get(r.Context(), reservationID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(res))
}

// =============================================================================
// LIFECYCLE HANDLERS
// =============================================================================

func (h *Handler) ApproveReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Approve)
}

func (h *Handler) CheckInReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.CheckIn)
}

func (h *Handler) CheckOutReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.CheckOut)
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, booking.ReservationID, string) (*booking.Reservation, error),
) {
	var req TransitionRequest
	// Body is optional for transitions; an empty actor means "staff".
	json.NewDecoder(r.Body).Decode(&req)

	res, err := op(r.Context(), reservationID(r), req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(res))
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, settlement, err := h.Svc.Cancel(r.Context(), reservationID(r), req.Reason, req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reservation": toReservationDTO(res),
		"settlement":  toSettlementDTO(settlement),
	})
}

// =============================================================================
// FINANCIAL HANDLERS
// =============================================================================

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Store.Payments(r.Context(), reservationID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentDTO{
			ID:     string(p.ID),
			Amount: p.Amount.String(),
			Method: string(p.Method),
			Notes:  p.Notes,
			PaidAt: p.PaidAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	amount, ok := parseMoney(req.Amount)
	if !ok {
		badRequest(w, "amount must be a decimal")
		return
	}

	res, err := h.Svc.RecordPayment(r.Context(), reservationID(r), amount,
		booking.PaymentMethod(req.Method), req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(res))
}

func (h *Handler) ChangePrice(w http.ResponseWriter, r *http.Request) {
	var req ChangePriceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	price, ok := parseMoney(req.Price)
	if !ok {
		badRequest(w, "price must be a decimal")
		return
	}

	res, err := h.Svc.ChangePrice(r.Context(), reservationID(r), price, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(res))
}

// =============================================================================
// POSTPONEMENT HANDLERS
// =============================================================================

func (h *Handler) PreviewPostponement(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.planFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPostponementDTO(plan))
}

// CommitPostponement plans and commits in one request. The commit path
// re-checks availability inside the store, so a race with another booking
// surfaces as 409 and the reservation keeps its original dates.
func (h *Handler) CommitPostponement(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.planFromRequest(w, r)
	if !ok {
		return
	}
	res, err := h.Svc.CommitPostponement(r.Context(), reservationID(r), plan)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reservation": toReservationDTO(res),
		"plan":        toPostponementDTO(plan),
	})
}

func (h *Handler) planFromRequest(w http.ResponseWriter, r *http.Request) (*booking.PostponementResult, bool) {
	var req PostponementRequest
	if !decodeAndValidate(w, r, &req) {
		return nil, false
	}

	days := make([]booking.Date, 0, len(req.Days))
	for _, s := range req.Days {
		d, err := booking.ParseDate(s)
		if err != nil {
			badRequest(w, "days must be 2006-01-02 dates")
			return nil, false
		}
		days = append(days, d)
	}

	var manual *booking.ManualPrice
	if req.ManualPrice != "" {
		price, ok := parseMoney(req.ManualPrice)
		if !ok {
			badRequest(w, "manual_price must be a decimal")
			return nil, false
		}
		manual = &booking.ManualPrice{Price: price, Reason: req.PriceReason}
	}

	plan, err := h.Svc.PlanPostponement(r.Context(), reservationID(r), days, manual)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return plan, true
}

// =============================================================================
// AUDIT HANDLERS
// =============================================================================

func (h *Handler) StatusHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Store.StatusHistory(r.Context(), reservationID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]StatusChangeDTO, 0, len(history))
	for _, c := range history {
		out = append(out, StatusChangeDTO{
			From:      string(c.From),
			To:        string(c.To),
			Reason:    c.Reason,
			Actor:     c.Actor,
			ChangedAt: c.ChangedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
