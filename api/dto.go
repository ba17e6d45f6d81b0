/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract, allowing field
  renaming without breaking clients and API-specific validation.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers call
  decodeAndValidate before touching the engine, so malformed input never
  reaches domain code. Dates travel as "2006-01-02" strings and money as
  decimal strings; both are parsed (and re-validated) at the boundary.

SEE ALSO:
  - handlers.go: Uses these types
  - booking/types.go: The domain model these map from
*/
package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/warp/booking-engine/booking"
)

// validate is shared by all handlers; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = validator.New()

// =============================================================================
// UNITS
// =============================================================================

type UnitDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DailyRate string `json:"daily_rate"`
	Capacity  int    `json:"capacity"`
}

type CreateUnitRequest struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	DailyRate string `json:"daily_rate" validate:"required"`
	Capacity  int    `json:"capacity" validate:"required,gt=0"`
}

func toUnitDTO(u *booking.Unit) UnitDTO {
	return UnitDTO{
		ID:        string(u.ID),
		Name:      u.Name,
		DailyRate: u.DailyRate.String(),
		Capacity:  u.Capacity,
	}
}

// =============================================================================
// RESERVATIONS
// =============================================================================

type ReservationDTO struct {
	ID                  string `json:"id"`
	Code                string `json:"code"`
	UnitID              string `json:"unit_id"`
	CustomerID          string `json:"customer_id"`
	CheckIn             string `json:"check_in"`
	CheckOut            string `json:"check_out"`
	Nights              int    `json:"nights"`
	GuestCount          int    `json:"guest_count"`
	Status              string `json:"status"`
	PaymentStatus       string `json:"payment_status"`
	DailyRateSnapshot   string `json:"daily_rate_snapshot"`
	TotalPrice          string `json:"total_price"`
	PaidAmount          string `json:"paid_amount"`
	RemainingAmount     string `json:"remaining_amount"`
	PriceOverrideReason string `json:"price_override_reason,omitempty"`
	CancellationReason  string `json:"cancellation_reason,omitempty"`
	UpdatedAt           string `json:"updated_at"`
}

func toReservationDTO(r *booking.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:                  string(r.ID),
		Code:                r.Code,
		UnitID:              string(r.UnitID),
		CustomerID:          string(r.CustomerID),
		CheckIn:             r.CheckIn.String(),
		CheckOut:            r.CheckOut.String(),
		Nights:              r.Nights,
		GuestCount:          r.GuestCount,
		Status:              string(r.Status),
		PaymentStatus:       string(r.PaymentStatus),
		DailyRateSnapshot:   r.DailyRateSnapshot.String(),
		TotalPrice:          r.TotalPrice.String(),
		PaidAmount:          r.PaidAmount.String(),
		RemainingAmount:     r.RemainingAmount.String(),
		PriceOverrideReason: r.PriceOverrideReason,
		CancellationReason:  r.CancellationReason,
		UpdatedAt:           r.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateReservationRequest struct {
	UnitID        string `json:"unit_id" validate:"required"`
	CustomerID    string `json:"customer_id" validate:"required"`
	CheckIn       string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut      string `json:"check_out" validate:"required,datetime=2006-01-02"`
	GuestCount    int    `json:"guest_count" validate:"required,gt=0"`
	Deposit       string `json:"deposit,omitempty"`
	DepositMethod string `json:"deposit_method,omitempty" validate:"omitempty,oneof=cash card transfer"`
	ManualPrice   string `json:"manual_price,omitempty"`
	PriceReason   string `json:"price_reason,omitempty"`
}

// =============================================================================
// OPERATIONS
// =============================================================================

type CancelRequest struct {
	Reason string `json:"reason" validate:"required"`
	Actor  string `json:"actor,omitempty"`
}

type TransitionRequest struct {
	Actor string `json:"actor,omitempty"`
}

type RecordPaymentRequest struct {
	Amount string `json:"amount" validate:"required"`
	Method string `json:"method" validate:"required,oneof=cash card transfer"`
	Notes  string `json:"notes,omitempty"`
}

type ChangePriceRequest struct {
	Price  string `json:"price" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

type PostponementRequest struct {
	Days        []string `json:"days" validate:"required,min=1,dive,datetime=2006-01-02"`
	ManualPrice string   `json:"manual_price,omitempty"`
	PriceReason string   `json:"price_reason,omitempty"`
}

type PostponementResultDTO struct {
	ReservationID          string `json:"reservation_id"`
	CheckIn                string `json:"check_in"`
	CheckOut               string `json:"check_out"`
	Nights                 int    `json:"nights"`
	DailyRateSnapshot      string `json:"daily_rate_snapshot"`
	TotalPrice             string `json:"total_price"`
	PriceDifference        string `json:"price_difference"`
	RemainingAmount        string `json:"remaining_amount"`
	RequiresReconciliation bool   `json:"requires_reconciliation"`
	ManualOverride         bool   `json:"manual_override"`
	OverrideReason         string `json:"override_reason,omitempty"`
}

func toPostponementDTO(p *booking.PostponementResult) PostponementResultDTO {
	return PostponementResultDTO{
		ReservationID:          string(p.ReservationID),
		CheckIn:                p.CheckIn.String(),
		CheckOut:               p.CheckOut.String(),
		Nights:                 p.Nights,
		DailyRateSnapshot:      p.DailyRateSnapshot.String(),
		TotalPrice:             p.TotalPrice.String(),
		PriceDifference:        p.PriceDifference.String(),
		RemainingAmount:        p.RemainingAmount.String(),
		RequiresReconciliation: p.RequiresReconciliation,
		ManualOverride:         p.ManualOverride,
		OverrideReason:         p.OverrideReason,
	}
}

// =============================================================================
// SETTLEMENT / AUDIT / CALENDAR
// =============================================================================

type SettlementDTO struct {
	ReservationID string `json:"reservation_id"`
	Refund        string `json:"refund"`
	Forfeited     string `json:"forfeited"`
	Tier          string `json:"tier"`
}

func toSettlementDTO(s *booking.CancellationSettlement) SettlementDTO {
	return SettlementDTO{
		ReservationID: string(s.ReservationID),
		Refund:        s.Refund.String(),
		Forfeited:     s.Forfeited.String(),
		Tier:          string(s.Tier),
	}
}

type PaymentDTO struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Method string `json:"method"`
	Notes  string `json:"notes,omitempty"`
	PaidAt string `json:"paid_at"`
}

type StatusChangeDTO struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Reason    string `json:"reason,omitempty"`
	Actor     string `json:"actor,omitempty"`
	ChangedAt string `json:"changed_at"`
}

type DayAvailabilityDTO struct {
	Day       string `json:"day"`
	Available bool   `json:"available"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// ERROR ENVELOPE
// =============================================================================

type ErrorResponse struct {
	Error string `json:"error"`
}
