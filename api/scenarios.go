/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates bungalows and
	reservations that demonstrate specific engine behavior.

AVAILABLE SCENARIOS:

	quiet-week:   Two bungalows, one confirmed booking, lots of free dates
	busy-season:  Back-to-back bookings showing half-open interval edges
	arrears:      Partially paid and unpaid bookings for ledger demos

HOW SCENARIOS WORK:
 1. Reset the store (clear all data)
 2. Create units
 3. Create reservations through the service (so every invariant holds)
 4. Optionally approve / pay / check in some of them

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "busy-season"}

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared helpers
  - booking/service.go: The operations scenarios drive
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/warp/booking-engine/booking"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "quiet-week",
		Name:        "Quiet Week",
		Description: "Two bungalows, one confirmed booking, plenty of availability",
	},
	{
		ID:          "busy-season",
		Name:        "Busy Season",
		Description: "Back-to-back bookings demonstrating checkout-day turnover",
	},
	{
		ID:          "arrears",
		Name:        "Arrears",
		Description: "Partially paid and unpaid bookings for payment-ledger demos",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"scenarios": scenarios,
		"current":   h.currentScenario,
	})
}

func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "quiet-week":
		err = h.loadQuietWeek(ctx)
	case "busy-season":
		err = h.loadBusySeason(ctx)
	case "arrears":
		err = h.loadArrears(ctx)
	default:
		badRequest(w, fmt.Sprintf("unknown scenario: %s", req.ScenarioID))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) seedUnits(ctx context.Context, units ...*booking.Unit) error {
	for _, u := range units {
		u.CreatedAt = h.Svc.Clock.Now()
		if err := h.Store.CreateUnit(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadQuietWeek(ctx context.Context) error {
	if err := h.seedUnits(ctx,
		&booking.Unit{ID: "bng-1", Name: "Lakeside", DailyRate: booking.NewMoney(1000), Capacity: 4},
		&booking.Unit{ID: "bng-2", Name: "Forest Edge", DailyRate: booking.NewMoney(1500), Capacity: 6},
	); err != nil {
		return err
	}

	start := booking.DateOf(h.Svc.Clock.Now()).AddDays(14)
	res, err := h.Svc.Create(ctx, booking.CreateParams{
		UnitID:     "bng-1",
		CustomerID: "cust-100",
		CheckIn:    start,
		CheckOut:   start.AddDays(3),
		GuestCount: 2,
		Deposit:    booking.NewMoney(1000),
	})
	if err != nil {
		return err
	}
	_, err = h.Svc.Approve(ctx, res.ID, "system")
	return err
}

func (h *Handler) loadBusySeason(ctx context.Context) error {
	if err := h.seedUnits(ctx,
		&booking.Unit{ID: "bng-1", Name: "Lakeside", DailyRate: booking.NewMoney(1000), Capacity: 4},
	); err != nil {
		return err
	}

	// Three consecutive stays: each checkout day is the next check-in day,
	// which is legal under half-open intervals.
	start := booking.DateOf(h.Svc.Clock.Now()).AddDays(7)
	for i, customer := range []booking.CustomerID{"cust-200", "cust-201", "cust-202"} {
		in := start.AddDays(i * 3)
		res, err := h.Svc.Create(ctx, booking.CreateParams{
			UnitID:     "bng-1",
			CustomerID: customer,
			CheckIn:    in,
			CheckOut:   in.AddDays(3),
			GuestCount: 2,
		})
		if err != nil {
			return err
		}
		if _, err := h.Svc.Approve(ctx, res.ID, "system"); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadArrears(ctx context.Context) error {
	if err := h.seedUnits(ctx,
		&booking.Unit{ID: "bng-1", Name: "Lakeside", DailyRate: booking.NewMoney(1000), Capacity: 4},
		&booking.Unit{ID: "bng-2", Name: "Forest Edge", DailyRate: booking.NewMoney(1500), Capacity: 6},
	); err != nil {
		return err
	}

	start := booking.DateOf(h.Svc.Clock.Now()).AddDays(10)

	// Partially paid: 3 nights at 1000 -> total 3540, 1000 down.
	partial, err := h.Svc.Create(ctx, booking.CreateParams{
		UnitID:     "bng-1",
		CustomerID: "cust-300",
		CheckIn:    start,
		CheckOut:   start.AddDays(3),
		GuestCount: 3,
		Deposit:    booking.NewMoney(1000),
	})
	if err != nil {
		return err
	}
	if _, err := h.Svc.Approve(ctx, partial.ID, "system"); err != nil {
		return err
	}

	// Unpaid, still pending approval.
	_, err = h.Svc.Create(ctx, booking.CreateParams{
		UnitID:     "bng-2",
		CustomerID: "cust-301",
		CheckIn:    start.AddDays(1),
		CheckOut:   start.AddDays(5),
		GuestCount: 4,
	})
	return err
}
