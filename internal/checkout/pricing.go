package checkout

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DateRange is a stay from check-in to check-out, both at day precision.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether check-out falls on a later day than check-in.
func (r DateRange) Valid() bool {
	return Nights(r) > 0
}

// ParseDateRange reads two YYYY-MM-DD dates in loc.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(dateLayout, strings.TrimSpace(start), loc)
	if err != nil {
		return DateRange{}, err
	}
	e, err := time.ParseInLocation(dateLayout, strings.TrimSpace(end), loc)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}

// Nights is the number of whole calendar days between check-in and
// check-out. It is negative when the range is reversed.
func Nights(r DateRange) int {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	start := civilDay(r.Start)
	end := civilDay(r.End)
	return int(end.Sub(start).Hours() / 24)
}

// Subtotal prices one line: nights x nightly price x guests.
func Subtotal(nights int, price decimal.Decimal, guests int) decimal.Decimal {
	if nights <= 0 || guests <= 0 {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(int64(nights))).Mul(decimal.NewFromInt(int64(guests)))
}

// ParseGuestCount accepts raw only when it is an integer in [1, max].
func ParseGuestCount(raw string, max int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if n < 1 || n > max {
		return 0, false
	}
	return n, true
}

// civilDay drops the clock and zone so day arithmetic ignores DST shifts.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
