package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/hearth-storefront/api/responses"
	"github.com/angelmondragon/hearth-storefront/api/validators"
	"github.com/angelmondragon/hearth-storefront/internal/cart"
	"github.com/angelmondragon/hearth-storefront/internal/catalog"
	"github.com/angelmondragon/hearth-storefront/internal/checkout"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

const (
	msgAddedToCart   = "Room added to cart."
	msgAlreadyInCart = "This room is already in your cart."
	msgCartCleared   = "Cart cleared."
)

type cartResponse struct {
	Items   []cart.Item `json:"items"`
	Count   int         `json:"count"`
	Message string      `json:"message,omitempty"`
}

func newCartResponse(store *cart.Store, message string) cartResponse {
	items := store.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponse{Items: items, Count: len(items), Message: message}
}

// roomSelectionRequest picks one configuration of a room, by room type.
type roomSelectionRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	RoomType string `json:"room_type" validate:"required"`
}

func resolveSelection(r *http.Request, rooms RoomFetcher) (cart.Item, error) {
	var payload roomSelectionRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return cart.Item{}, err
	}
	room, err := rooms.FetchRoom(r.Context(), strings.TrimSpace(payload.RoomID))
	if err != nil {
		return cart.Item{}, err
	}
	return catalog.SelectRoomType(*room, payload.RoomType)
}

func CartGet(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := sessionWorkspace(w, r, spaces, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCartResponse(ws.Cart(), ""))
	}
}

// CartAddItem adds a room configuration fetched from the hotel API. Adding a
// room that is already in the cart is reported, not treated as an error.
func CartAddItem(spaces Workspaces, rooms RoomFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rooms == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "room store unavailable"))
			return
		}
		ws, ok := sessionWorkspace(w, r, spaces, logg)
		if !ok {
			return
		}
		item, err := resolveSelection(r, rooms)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		added, err := ws.Cart().Add(r.Context(), item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !added {
			responses.WriteSuccess(w, newCartResponse(ws.Cart(), msgAlreadyInCart))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(ws.Cart(), msgAddedToCart))
	}
}

func CartRemoveItem(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := sessionWorkspace(w, r, spaces, logg)
		if !ok {
			return
		}
		values, err := validators.RequireQuery(r, "room_id", "room_type")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		key := cart.Key{RoomID: values[0], RoomType: values[1]}
		if _, err := ws.Cart().Remove(r.Context(), key); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(ws.Cart(), ""))
	}
}

func CartClear(spaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := sessionWorkspace(w, r, spaces, logg)
		if !ok {
			return
		}
		if err := ws.Cart().Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(ws.Cart(), msgCartCleared))
	}
}

// CartBookNow returns the navigation state that opens a direct checkout for a
// single room without touching the cart.
func CartBookNow(rooms RoomFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rooms == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "room store unavailable"))
			return
		}
		item, err := resolveSelection(r, rooms)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkout.Navigation{DirectBooking: true, Room: &item})
	}
}
