/*
statemachine.go - Reservation lifecycle transitions

PURPOSE:
  Governs the legal status changes of a reservation. The table below is
  the whole policy; anything not listed fails with a TransitionError and
  leaves the entity unchanged.

TRANSITIONS:
  Pending    --approve--->  Confirmed
  Confirmed  --check_in-->  CheckedIn
  CheckedIn  --check_out->  CheckedOut
  Pending    --cancel---->  Cancelled
  Confirmed  --cancel---->  Cancelled
  CheckedIn  --cancel---->  Cancelled

TERMINAL STATES:
  CheckedOut and Cancelled accept no further triggers. Cancellation is a
  status, not a deletion: the entity survives for audit and (as cancelled)
  stops blocking the unit's calendar.

SEE ALSO:
  - service.go: Applies transitions with reasons and audit entries
*/
package booking

// =============================================================================
// TRIGGERS
// =============================================================================

type Trigger string

const (
	TriggerApprove  Trigger = "approve"
	TriggerCheckIn  Trigger = "check_in"
	TriggerCheckOut Trigger = "check_out"
	TriggerCancel   Trigger = "cancel"

	// The triggers below never appear in the transition table: they keep
	// the current status. They exist so rejections of those operations on
	// terminal reservations name the operation.
	TriggerPostpone      Trigger = "postpone"
	TriggerReprice       Trigger = "change_price"
	TriggerRecordPayment Trigger = "record_payment"
)

// =============================================================================
// TRANSITION TABLE
// =============================================================================

var transitions = map[Status]map[Trigger]Status{
	StatusPending: {
		TriggerApprove: StatusConfirmed,
		TriggerCancel:  StatusCancelled,
	},
	StatusConfirmed: {
		TriggerCheckIn: StatusCheckedIn,
		TriggerCancel:  StatusCancelled,
	},
	StatusCheckedIn: {
		TriggerCheckOut: StatusCheckedOut,
		TriggerCancel:   StatusCancelled,
	},
	// StatusCheckedOut, StatusCancelled: terminal, no entries.
}

// NextStatus returns the status reached by firing trigger from the given
// state, or a TransitionError if the pair is not in the table.
func NextStatus(from Status, trigger Trigger) (Status, error) {
	if to, ok := transitions[from][trigger]; ok {
		return to, nil
	}
	return from, &TransitionError{From: from, Trigger: trigger}
}

// CanTrigger reports whether the trigger is legal from the given state.
func CanTrigger(from Status, trigger Trigger) bool {
	_, ok := transitions[from][trigger]
	return ok
}
