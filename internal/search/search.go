// Package search backs the availability widget on the home page.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/hearth-storefront/internal/checkout"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
)

const (
	defaultAdults = 2
	maxAdults     = 5
	maxKids       = 4

	msgDateOrder = "Check-out date must be after check-in."
)

var promoCodes = map[string]int{
	"SUMMER25": 25,
	"KIDSFREE": 15,
}

// Query is what the widget submits. Dates are YYYY-MM-DD.
type Query struct {
	CheckIn   string `json:"check_in" validate:"required"`
	CheckOut  string `json:"check_out" validate:"required"`
	Adults    int    `json:"adults" validate:"omitempty,min=1,max=5"`
	Kids      int    `json:"kids" validate:"min=0,max=4"`
	PromoCode string `json:"promo_code" validate:"max=32"`
}

// Result echoes the search back as the widget summarises it.
type Result struct {
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Nights          int    `json:"nights"`
	Adults          int    `json:"adults"`
	Kids            int    `json:"kids"`
	DiscountPercent int    `json:"discount_percent"`
	Summary         string `json:"summary"`
}

// Discount returns the percentage granted by code, or 0.
func Discount(code string) int {
	return promoCodes[strings.ToUpper(strings.TrimSpace(code))]
}

// Check validates q in loc and builds the summary.
func Check(q Query, loc *time.Location) (*Result, error) {
	r, err := checkout.ParseDateRange(q.CheckIn, q.CheckOut, loc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "dates must be formatted as YYYY-MM-DD")
	}
	if !r.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgDateOrder)
	}
	adults := q.Adults
	if adults == 0 {
		adults = defaultAdults
	}
	if adults < 1 || adults > maxAdults {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("adults must be between 1 and %d", maxAdults))
	}
	if q.Kids < 0 || q.Kids > maxKids {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("kids must be between 0 and %d", maxKids))
	}

	discount := Discount(q.PromoCode)
	return &Result{
		CheckIn:         r.Start.Format("2006-01-02"),
		CheckOut:        r.End.Format("2006-01-02"),
		Nights:          checkout.Nights(r),
		Adults:          adults,
		Kids:            q.Kids,
		DiscountPercent: discount,
		Summary: fmt.Sprintf("Booking from %s to %s for %d adults and %d kids. Discount: %d%%",
			longDate(r.Start), longDate(r.End), adults, q.Kids, discount),
	}, nil
}

// longDate renders "January 2nd, 2026".
func longDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s, %d", t.Month(), t.Day(), ordinal(t.Day()), t.Year())
}

func ordinal(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
