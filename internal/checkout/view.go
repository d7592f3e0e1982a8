package checkout

import (
	"github.com/angelmondragon/hearth-storefront/internal/cart"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// LineView is one room as the checkout page renders it.
type LineView struct {
	Key           cart.Key    `json:"key"`
	Title         string      `json:"title"`
	RoomType      string      `json:"room_type"`
	PricePerNight types.Money `json:"price_per_night"`
	MaxPeople     int         `json:"max_people"`
	Guests        int         `json:"guests"`
	CheckIn       string      `json:"check_in"`
	CheckOut      string      `json:"check_out"`
	CalendarOpen  bool        `json:"calendar_open"`
	Nights        int         `json:"nights"`
	// StayPrice is nights x nightly price, the figure listed in the summary.
	StayPrice types.Money `json:"stay_price"`
	Subtotal  types.Money `json:"subtotal"`
}

// View is a snapshot of the whole checkout form.
type View struct {
	Source          string      `json:"source"`
	Items           []LineView  `json:"items"`
	Total           types.Money `json:"total"`
	SpecialRequests string      `json:"special_requests"`
	ValidationError string      `json:"validation_error,omitempty"`
	Notice          string      `json:"notice,omitempty"`
	Submitting      bool        `json:"submitting"`
	ConfirmOpen     bool        `json:"confirm_open"`
	PendingRemoval  *cart.Key   `json:"pending_removal,omitempty"`
	Empty           bool        `json:"empty"`
}

func (c *Composer) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{
		Source:          sourceLabel(c.direct),
		Items:           make([]LineView, 0, len(c.items)),
		SpecialRequests: c.special,
		ValidationError: c.validationErr,
		Notice:          c.notice,
		Submitting:      c.submitting,
		ConfirmOpen:     c.confirmOpen,
		Empty:           len(c.items) == 0,
	}
	if c.pendingRemoval != nil {
		k := *c.pendingRemoval
		view.PendingRemoval = &k
	}

	total := decimal.Zero
	for _, item := range c.items {
		line := c.lines[item.Key()]
		nights := Nights(line.dates)
		price := item.SelectedConfiguration.Price.Decimal
		subtotal := Subtotal(nights, price, line.guests)
		total = total.Add(subtotal)
		view.Items = append(view.Items, LineView{
			Key:           item.Key(),
			Title:         item.Title,
			RoomType:      item.SelectedConfiguration.RoomType,
			PricePerNight: types.NewMoney(price),
			MaxPeople:     item.SelectedConfiguration.MaxPeople,
			Guests:        line.guests,
			CheckIn:       formatDate(line.dates.Start),
			CheckOut:      formatDate(line.dates.End),
			CalendarOpen:  line.calendarOpen,
			Nights:        nights,
			StayPrice:     types.NewMoney(Subtotal(nights, price, 1)),
			Subtotal:      types.NewMoney(subtotal),
		})
	}
	view.Total = types.NewMoney(total)
	return view
}
