package checkout

import "github.com/angelmondragon/hearth-storefront/pkg/types"

// OutcomeKind classifies the result of a booking confirmation.
type OutcomeKind string

const (
	OutcomeValidationFailed OutcomeKind = "validation_failed"
	OutcomeSucceeded        OutcomeKind = "succeeded"
	OutcomeAuthRequired     OutcomeKind = "auth_required"
	OutcomeFailed           OutcomeKind = "failed"
	OutcomeCanceled         OutcomeKind = "canceled"
)

const (
	msgInvalidDatesAll  = "Please make sure all rooms have valid check-in and check-out dates."
	msgEmptySelection   = "There are no rooms to book."
	msgBookingFailed    = "Booking failed. Try again."
	msgBookingConfirmed = "Booking confirmed."
	msgLoginRequired    = "Please log in to complete your booking."
	msgCheckoutClosed   = "Checkout was closed before the booking completed."
	msgRoomRemoved      = "Room removed from cart."

	loginPath    = "/login"
	checkoutPath = "/checkout"
	homePath     = "/"
)

// Outcome is what the guest sees after confirming: a message, and where to
// go next.
type Outcome struct {
	Kind        OutcomeKind     `json:"kind"`
	Message     string          `json:"message,omitempty"`
	Redirect    *types.Redirect `json:"redirect,omitempty"`
	CartCleared bool            `json:"cart_cleared,omitempty"`
}

func sourceLabel(direct bool) string {
	if direct {
		return "direct"
	}
	return "cart"
}
