/*
authorize.go - Authorization rules for destructive actions

PURPOSE:
  Pure decision function: given a live booking, a requested action, and the
  actor requesting it, allow or deny. No I/O, no state, no clock.

RULES (evaluated in order):
  1. Kiosk booking and actor is not admin      -> deny
  2. Device mismatch and actor is not admin    -> deny
  3. Otherwise                                 -> allow

  Creation is deliberately open: any actor with a well-formed device token
  may claim a free slot. The scarce resource is the slot, so the system
  favors availability of booking over access control on creation while
  protecting existing commitments from tampering.
*/
package booking

// Authorize decides whether actor may perform action on the booking.
// Returns nil to allow, or a *ForbiddenError wrapping ErrForbidden.
func Authorize(action Action, b Booking, actor Actor) error {
	if b.Kiosk && !actor.IsAdmin {
		return &ForbiddenError{Action: action, Reason: "kiosk bookings can only be cancelled by admin"}
	}
	if b.DeviceID != actor.DeviceID && !actor.IsAdmin {
		return &ForbiddenError{Action: action, Reason: "you can only cancel your own bookings"}
	}
	return nil
}
