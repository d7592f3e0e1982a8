// Package checkout drives the booking confirmation flow for one browser
// session: per-room guest counts and stay dates, validation, pricing and the
// single booking submission to the hotel API.
package checkout

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/hearth-storefront/internal/cart"
	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/metrics"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	defaultSubmitTimeout = 20 * time.Second
	defaultSuccessDelay  = 2 * time.Second
)

type cartStore interface {
	Items() []cart.Item
	Remove(ctx context.Context, key cart.Key) (bool, error)
	Clear(ctx context.Context) error
}

type bookingSubmitter interface {
	CreateBooking(ctx context.Context, token string, payload backend.BookingRequest) (*backend.BookingResult, error)
}

// Navigation is the state the room pages hand to checkout. With
// DirectBooking set the working set is exactly Room and the cart is not read.
type Navigation struct {
	DirectBooking bool       `json:"directBooking"`
	Room          *cart.Item `json:"room,omitempty"`
}

// Options tunes a Composer. Zero values fall back to defaults.
type Options struct {
	Location      *time.Location
	Now           func() time.Time
	SubmitTimeout time.Duration
	SuccessDelay  time.Duration
	Metrics       *metrics.CheckoutMetrics
	Logger        *logger.Logger
}

type lineState struct {
	guests       int
	dates        DateRange
	calendarOpen bool
}

// Composer holds the editable checkout form. All methods are safe for
// concurrent use; a booking submission runs without holding the lock and its
// result is dropped if the composer was closed meanwhile.
type Composer struct {
	mu       sync.Mutex
	cart     cartStore
	bookings bookingSubmitter
	opts     Options

	direct  bool
	items   []cart.Item
	lines   map[cart.Key]*lineState
	special string

	validationErr  string
	notice         string
	submitting     bool
	confirmOpen    bool
	pendingRemoval *cart.Key

	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// New resolves the working set from nav and seeds every line with one guest
// staying from today until tomorrow.
func New(store cartStore, bookings bookingSubmitter, nav Navigation, opts Options) (*Composer, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	if bookings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "booking client required")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = defaultSubmitTimeout
	}
	if opts.SuccessDelay <= 0 {
		opts.SuccessDelay = defaultSuccessDelay
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	var items []cart.Item
	if nav.DirectBooking {
		if nav.Room == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "direct booking requires a room")
		}
		key := nav.Room.Key()
		if key.RoomID == "" || key.RoomType == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "direct booking room needs an id and a selected configuration")
		}
		items = []cart.Item{*nav.Room}
	} else {
		items = store.Items()
	}

	c := &Composer{
		cart:     store,
		bookings: bookings,
		opts:     opts,
		direct:   nav.DirectBooking,
		items:    items,
		lines:    make(map[cart.Key]*lineState, len(items)),
	}
	today := startOfDay(opts.Now(), opts.Location)
	for _, item := range items {
		c.lines[item.Key()] = &lineState{
			guests: 1,
			dates:  DateRange{Start: today, End: today.AddDate(0, 0, 1)},
		}
	}
	return c, nil
}

// Direct reports whether the composer was opened for a direct booking.
func (c *Composer) Direct() bool {
	return c.direct
}

// SetGuestCount applies raw only when it parses to an integer within
// [1, maxPeople] of the line's configuration. Rejected input leaves the stored
// count untouched and reports false.
func (c *Composer) SetGuestCount(key cart.Key, raw string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, line, err := c.lineLocked(key)
	if err != nil {
		return false, err
	}
	n, ok := ParseGuestCount(raw, item.SelectedConfiguration.MaxPeople)
	if !ok {
		return false, nil
	}
	line.guests = n
	return true, nil
}

// SetDateRange replaces the stay for key. Ordering is checked at confirmation.
func (c *Composer) SetDateRange(key cart.Key, r DateRange) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, line, err := c.lineLocked(key)
	if err != nil {
		return err
	}
	if !r.Start.IsZero() {
		r.Start = startOfDay(r.Start, c.opts.Location)
	}
	if !r.End.IsZero() {
		r.End = startOfDay(r.End, c.opts.Location)
	}
	line.dates = r
	return nil
}

// ToggleCalendar flips the date picker of one line and returns its new state.
func (c *Composer) ToggleCalendar(key cart.Key) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, line, err := c.lineLocked(key)
	if err != nil {
		return false, err
	}
	line.calendarOpen = !line.calendarOpen
	return line.calendarOpen, nil
}

func (c *Composer) SetSpecialRequests(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.special = text
}

// RequestRemoval asks the guest to confirm removing key. Nothing is removed
// until ConfirmRemoval.
func (c *Composer) RequestRemoval(key cart.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, _, err := c.lineLocked(key); err != nil {
		return err
	}
	k := key
	c.pendingRemoval = &k
	return nil
}

func (c *Composer) CancelRemoval() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingRemoval = nil
}

// ConfirmRemoval drops the pending line from the working set and the cart.
func (c *Composer) ConfirmRemoval(ctx context.Context) (cart.Key, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingRemoval == nil {
		return cart.Key{}, pkgerrors.New(pkgerrors.CodeConflict, "no removal pending")
	}
	key := *c.pendingRemoval
	if _, err := c.cart.Remove(ctx, key); err != nil {
		return cart.Key{}, err
	}
	c.pendingRemoval = nil
	for i, item := range c.items {
		if item.Key() == key {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			break
		}
	}
	delete(c.lines, key)
	c.notice = msgRoomRemoved
	return key, nil
}

// RequestConfirmation opens the confirmation dialog when every line has a
// check-out after its check-in.
func (c *Composer) RequestConfirmation() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		c.validationErr = msgEmptySelection
		return pkgerrors.New(pkgerrors.CodeValidation, msgEmptySelection)
	}
	for _, item := range c.items {
		if !c.lines[item.Key()].dates.Valid() {
			c.validationErr = msgInvalidDatesAll
			return pkgerrors.New(pkgerrors.CodeValidation, msgInvalidDatesAll)
		}
	}
	c.validationErr = ""
	c.confirmOpen = true
	return nil
}

func (c *Composer) DismissConfirmation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmOpen = false
}

// ConfirmBooking validates every line again, then submits all of them as one
// booking. Errors are reserved for calls that cannot start: a submission is
// already running or the composer is closed.
func (c *Composer) ConfirmBooking(ctx context.Context, token string) (Outcome, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Outcome{}, pkgerrors.New(pkgerrors.CodeCanceled, "checkout closed")
	}
	if c.submitting {
		c.mu.Unlock()
		return Outcome{}, pkgerrors.New(pkgerrors.CodeConflict, "booking submission already in progress")
	}
	c.confirmOpen = false

	if msg := c.validateLocked(); msg != "" {
		c.validationErr = msg
		c.mu.Unlock()
		return c.finish(ctx, Outcome{Kind: OutcomeValidationFailed, Message: msg}), nil
	}
	c.validationErr = ""
	payload := c.payloadLocked()

	c.submitting = true
	c.generation++
	gen := c.generation
	subCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.SubmitTimeout)
	c.cancel = cancel
	c.mu.Unlock()

	result, err := c.bookings.CreateBooking(subCtx, token, payload)
	cancel()

	c.mu.Lock()
	if gen != c.generation || c.closed {
		c.mu.Unlock()
		return c.finish(ctx, Outcome{Kind: OutcomeCanceled, Message: msgCheckoutClosed}), nil
	}
	c.submitting = false
	c.cancel = nil
	outcome := c.applyLocked(ctx, result, err)
	c.mu.Unlock()
	return c.finish(ctx, outcome), nil
}

// Close tears the composer down. A running submission is cancelled and its
// late result discarded.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.generation++
	c.submitting = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Composer) finish(ctx context.Context, outcome Outcome) Outcome {
	c.opts.Metrics.IncOutcome(string(outcome.Kind), sourceLabel(c.direct))
	ctx = c.opts.Logger.WithFields(ctx, map[string]any{
		"outcome": string(outcome.Kind),
		"source":  sourceLabel(c.direct),
	})
	c.opts.Logger.Info(ctx, "checkout confirmation finished")
	return outcome
}

func (c *Composer) validateLocked() string {
	if len(c.items) == 0 {
		return msgEmptySelection
	}
	for _, item := range c.items {
		line := c.lines[item.Key()]
		if !line.dates.Valid() {
			return fmt.Sprintf("Invalid dates selected for %s", item.Title)
		}
		if max := item.SelectedConfiguration.MaxPeople; line.guests > max {
			return fmt.Sprintf("%q allows up to %d guests.", item.Title, max)
		}
	}
	return ""
}

func (c *Composer) payloadLocked() backend.BookingRequest {
	lines := make([]backend.BookingLine, 0, len(c.items))
	total := decimal.Zero
	for _, item := range c.items {
		line := c.lines[item.Key()]
		nights := Nights(line.dates)
		price := item.SelectedConfiguration.Price.Decimal
		subtotal := Subtotal(nights, price, line.guests)
		total = total.Add(subtotal)
		lines = append(lines, backend.BookingLine{
			Room:          item.ID,
			RoomType:      item.SelectedConfiguration.RoomType,
			Guests:        line.guests,
			CheckInDate:   line.dates.Start,
			CheckOutDate:  line.dates.End,
			PricePerNight: types.NewMoney(price),
			TotalNights:   nights,
			Subtotal:      types.NewMoney(subtotal),
		})
	}
	return backend.BookingRequest{
		Rooms:           lines,
		TotalAmount:     types.NewMoney(total),
		SpecialRequests: c.special,
	}
}

func (c *Composer) applyLocked(ctx context.Context, result *backend.BookingResult, err error) Outcome {
	if err != nil {
		return c.failureLocked(ctx, err)
	}

	message := msgBookingConfirmed
	if result != nil && strings.TrimSpace(result.Message) != "" {
		message = result.Message
	}
	c.notice = message

	if c.direct {
		return Outcome{
			Kind:    OutcomeSucceeded,
			Message: message,
			Redirect: &types.Redirect{
				To:      homePath,
				AfterMS: c.opts.SuccessDelay.Milliseconds(),
			},
		}
	}

	outcome := Outcome{Kind: OutcomeSucceeded, Message: message}
	if clearErr := c.cart.Clear(ctx); clearErr != nil {
		c.opts.Logger.Error(ctx, "clear cart after booking failed", clearErr)
	} else {
		outcome.CartCleared = true
	}
	c.items = nil
	c.lines = map[cart.Key]*lineState{}
	c.pendingRemoval = nil
	return outcome
}

func (c *Composer) failureLocked(ctx context.Context, err error) Outcome {
	status, _ := backend.StatusOf(err)
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeCanceled):
		return Outcome{Kind: OutcomeCanceled, Message: msgCheckoutClosed}
	case status == http.StatusUnauthorized || status == http.StatusNotFound || (status == 0 && pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized)):
		message := backend.MessageOf(err)
		if message == "" {
			message = msgLoginRequired
		}
		c.notice = message
		return Outcome{
			Kind:     OutcomeAuthRequired,
			Message:  message,
			Redirect: &types.Redirect{To: loginPath, From: checkoutPath},
		}
	default:
		c.opts.Logger.Error(ctx, "booking submission failed", err)
		c.notice = msgBookingFailed
		return Outcome{Kind: OutcomeFailed, Message: msgBookingFailed}
	}
}

func (c *Composer) lineLocked(key cart.Key) (cart.Item, *lineState, error) {
	line, ok := c.lines[key]
	if !ok {
		return cart.Item{}, nil, pkgerrors.New(pkgerrors.CodeNotFound, "room is not part of this checkout").
			WithDetails(map[string]string{"room_id": key.RoomID, "room_type": key.RoomType})
	}
	for _, item := range c.items {
		if item.Key() == key {
			return item, line, nil
		}
	}
	return cart.Item{}, nil, pkgerrors.New(pkgerrors.CodeNotFound, "room is not part of this checkout")
}
