package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/hearth-storefront/api/middleware"
	"github.com/angelmondragon/hearth-storefront/api/responses"
	"github.com/angelmondragon/hearth-storefront/api/validators"
	"github.com/angelmondragon/hearth-storefront/internal/cart"
	"github.com/angelmondragon/hearth-storefront/internal/catalog"
	"github.com/angelmondragon/hearth-storefront/internal/checkout"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

const maxSpecialRequestsLen = 2000

type lineKeyRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	RoomType string `json:"room_type" validate:"required"`
}

func (k lineKeyRequest) key() cart.Key {
	return cart.Key{RoomID: k.RoomID, RoomType: k.RoomType}
}

type guestsRequest struct {
	lineKeyRequest
	// Guests is the raw field value; anything that is not a whole number in
	// range is ignored.
	Guests string `json:"guests"`
}

type datesRequest struct {
	lineKeyRequest
	CheckIn  string `json:"check_in" validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
}

type specialRequestsRequest struct {
	SpecialRequests string `json:"special_requests"`
}

type calendarResponse struct {
	Open bool          `json:"open"`
	View checkout.View `json:"view"`
}

type confirmResponse struct {
	Outcome checkout.Outcome `json:"outcome"`
	View    checkout.View    `json:"view"`
}

type composerHandler func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer)

// withComposer resolves the session's open checkout before calling next.
func withComposer(spaces Workspaces, logg *logger.Logger, next composerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := sessionWorkspace(w, r, spaces, logg)
		if !ok {
			return
		}
		composer, err := ws.Checkout()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next(w, r, composer)
	}
}

// CheckoutOpen starts a checkout from the navigation state of the room or
// cart page. Any checkout already open for the session is closed. A direct
// booking names its room by id and room type only; price and occupancy come
// from the hotel API.
func CheckoutOpen(spaces Workspaces, rooms RoomFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := sessionWorkspace(w, r, spaces, logg)
		if !ok {
			return
		}
		var nav checkout.Navigation
		if r.ContentLength != 0 {
			if err := validators.DecodeJSON(r, &nav); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if nav.DirectBooking && nav.Room != nil {
			item, err := refetchDirectRoom(r, rooms, nav.Room.Key())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			nav.Room = &item
		}
		composer, err := ws.OpenCheckout(nav)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, composer.View())
	}
}

func refetchDirectRoom(r *http.Request, rooms RoomFetcher, key cart.Key) (cart.Item, error) {
	if rooms == nil {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeInternal, "room store unavailable")
	}
	roomID, roomType := strings.TrimSpace(key.RoomID), strings.TrimSpace(key.RoomType)
	if roomID == "" || roomType == "" {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "direct booking room needs an id and a selected configuration")
	}
	room, err := rooms.FetchRoom(r.Context(), roomID)
	if err != nil {
		return cart.Item{}, err
	}
	return catalog.SelectRoomType(*room, roomType)
}

func CheckoutGet(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		responses.WriteSuccess(w, composer.View())
	})
}

func CheckoutClose(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := sessionWorkspace(w, r, spaces, logg)
		if !ok {
			return
		}
		ws.CloseCheckout()
		w.WriteHeader(http.StatusNoContent)
	}
}

func CheckoutSetGuests(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		var payload guestsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := composer.SetGuestCount(payload.key(), payload.Guests); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, composer.View())
	})
}

// CheckoutSetDates takes YYYY-MM-DD dates read in the hotel's calendar.
func CheckoutSetDates(spaces Workspaces, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		var payload datesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dates, err := checkout.ParseDateRange(payload.CheckIn, payload.CheckOut, loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "dates must be YYYY-MM-DD"))
			return
		}
		if err := composer.SetDateRange(payload.key(), dates); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, composer.View())
	})
}

func CheckoutToggleCalendar(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		var payload lineKeyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		open, err := composer.ToggleCalendar(payload.key())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, calendarResponse{Open: open, View: composer.View()})
	})
}

func CheckoutSetSpecialRequests(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		var payload specialRequestsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		composer.SetSpecialRequests(validators.SanitizeString(payload.SpecialRequests, maxSpecialRequestsLen))
		responses.WriteSuccess(w, composer.View())
	})
}

func CheckoutRequestRemoval(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		var payload lineKeyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := composer.RequestRemoval(payload.key()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, composer.View())
	})
}

func CheckoutConfirmRemoval(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		if _, err := composer.ConfirmRemoval(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, composer.View())
	})
}

func CheckoutCancelRemoval(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		composer.CancelRemoval()
		responses.WriteSuccess(w, composer.View())
	})
}

func CheckoutRequestConfirmation(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		if err := composer.RequestConfirmation(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, composer.View())
	})
}

func CheckoutDismissConfirmation(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		composer.DismissConfirmation()
		responses.WriteSuccess(w, composer.View())
	})
}

// CheckoutConfirm submits the booking with the session's API token. Every
// outcome, including validation and auth failures, is returned as data.
func CheckoutConfirm(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withComposer(spaces, logg, func(w http.ResponseWriter, r *http.Request, composer *checkout.Composer) {
		state, _ := middleware.AuthStateFromContext(r.Context())
		outcome, err := composer.ConfirmBooking(r.Context(), state.Token())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, confirmResponse{Outcome: outcome, View: composer.View()})
	})
}
