/*
sweeper.go - Automated no-show sweeper

PURPOSE:
  Periodically scans for reservations still awaiting approval whose
  check-in date has already passed and cancels them as no-shows, so the
  bungalow becomes bookable again without manual cleanup.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Only touches Pending reservations; confirmed guests are never
    auto-cancelled
  - Cancellation goes through the service, so refund tiers and the
    payment ledger apply exactly as for a manual cancellation

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether sweeper is active (default: true)

USAGE:
  sweeper := NewNoShowSweeper(handler)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - booking/service.go: Cancel (the operation the sweeper drives)
  - booking/refund.go: Tier applied to any deposit on the booking
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/booking-engine/booking"
)

// NoShowSweeper cancels pending reservations whose check-in date passed.
type NoShowSweeper struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewNoShowSweeper creates a new sweeper.
func NewNoShowSweeper(handler *Handler) *NoShowSweeper {
	return &NoShowSweeper{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the sweeper.
func (ns *NoShowSweeper) Start() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if !ns.Enabled {
		log.Println("[Sweeper] Disabled, not starting")
		return
	}

	ns.ticker = time.NewTicker(ns.CheckInterval)
	ns.wg.Add(1)

	go ns.run()

	log.Printf("[Sweeper] Started with check interval: %v", ns.CheckInterval)
}

// Stop stops the sweeper.
func (ns *NoShowSweeper) Stop() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if ns.ticker != nil {
		ns.ticker.Stop()
		close(ns.stop)
		ns.wg.Wait()
		log.Println("[Sweeper] Stopped")
	}
}

func (ns *NoShowSweeper) run() {
	defer ns.wg.Done()

	// Run immediately on start
	ns.sweep()

	for {
		select {
		case <-ns.ticker.C:
			ns.sweep()
		case <-ns.stop:
			return
		}
	}
}

// RunNow triggers an immediate sweep (for testing/admin).
func (ns *NoShowSweeper) RunNow() {
	ns.sweep()
}

func (ns *NoShowSweeper) sweep() {
	ctx := context.Background()
	svc := ns.Handler.Svc
	today := booking.DateOf(svc.Clock.Now())

	all, err := svc.Reservations.List(ctx)
	if err != nil {
		log.Printf("[Sweeper] Error listing reservations: %v", err)
		return
	}

	cancelled := 0
	for _, r := range all {
		if r.Status != booking.StatusPending {
			continue
		}
		if !r.CheckIn.Before(today) {
			continue
		}

		_, _, err := svc.Cancel(ctx, r.ID, "no-show: check-in date passed without approval", "system")
		if err != nil {
			log.Printf("[Sweeper] Error cancelling %s: %v", r.ID, err)
			continue
		}
		cancelled++
	}

	if cancelled > 0 {
		log.Printf("[Sweeper] Completed: %d no-show reservation(s) cancelled", cancelled)
	}
}
