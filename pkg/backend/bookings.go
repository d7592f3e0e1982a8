package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

// BookingLine is one room in a booking submission.
type BookingLine struct {
	Room          string      `json:"room"`
	RoomType      string      `json:"roomType"`
	Guests        int         `json:"guests"`
	CheckInDate   time.Time   `json:"checkInDate"`
	CheckOutDate  time.Time   `json:"checkOutDate"`
	PricePerNight types.Money `json:"pricePerNight"`
	TotalNights   int         `json:"totalNights"`
	Subtotal      types.Money `json:"subtotal"`
}

// BookingRequest is the body of POST /api/user/bookings.
type BookingRequest struct {
	Rooms           []BookingLine `json:"rooms"`
	TotalAmount     types.Money   `json:"totalAmount"`
	SpecialRequests string        `json:"specialRequests"`
}

// BookingResult is what the hotel API answers on a created booking.
type BookingResult struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

// CreateBooking submits a booking on behalf of the signed-in user.
func (c *Client) CreateBooking(ctx context.Context, token string, payload BookingRequest) (*BookingResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session token is required")
	}
	if len(payload.Rooms) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one room is required")
	}
	req, err := jsonRequest("create_booking", http.MethodPost, "/api/user/bookings", token, payload)
	if err != nil {
		return nil, err
	}
	var result BookingResult
	status, err := c.do(ctx, req, &result)
	if err != nil {
		return nil, err
	}
	result.StatusCode = status
	return &result, nil
}
