package controllers

import (
	"net/http"
	"testing"

	"github.com/angelmondragon/hearth-storefront/internal/checkout"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

func TestCartAddItemAndDuplicate(t *testing.T) {
	spaces := newTestWorkspaces(t, &recordingBookings{})
	rooms := stubRooms{rooms: map[string]types.Room{"room-1": gardenSuite()}}
	handler := CartAddItem(spaces, rooms, nil)

	rec := serve(handler, sessionRequest(http.MethodPost, "/api/cart/items", `{"room_id":"room-1","room_type":"Double"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var body cartResponse
	decodeData(t, rec, &body)
	if body.Count != 1 || body.Items[0].SelectedConfiguration.RoomType != "Double" {
		t.Fatalf("unexpected cart %+v", body)
	}

	rec = serve(handler, sessionRequest(http.MethodPost, "/api/cart/items", `{"room_id":"room-1","room_type":"Double"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate got %d", rec.Code)
	}
	decodeData(t, rec, &body)
	if body.Count != 1 || body.Message != msgAlreadyInCart {
		t.Fatalf("duplicate must not grow the cart: %+v", body)
	}

	rec = serve(handler, sessionRequest(http.MethodPost, "/api/cart/items", `{"room_id":"room-1","room_type":"Family"}`))
	decodeData(t, rec, &body)
	if body.Count != 2 {
		t.Fatalf("same room with another type is a separate line, got %d", body.Count)
	}
}

func TestCartAddItemUnknownRoomType(t *testing.T) {
	spaces := newTestWorkspaces(t, &recordingBookings{})
	rooms := stubRooms{rooms: map[string]types.Room{"room-1": gardenSuite()}}

	rec := serve(CartAddItem(spaces, rooms, nil), sessionRequest(http.MethodPost, "/api/cart/items", `{"room_id":"room-1","room_type":"Penthouse"}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}

	rec = serve(CartAddItem(spaces, rooms, nil), sessionRequest(http.MethodPost, "/api/cart/items", `{"room_id":"room-1"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", got)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	spaces := newTestWorkspaces(t, &recordingBookings{})
	rooms := stubRooms{rooms: map[string]types.Room{"room-1": gardenSuite()}}
	add := CartAddItem(spaces, rooms, nil)
	serve(add, sessionRequest(http.MethodPost, "/api/cart/items", `{"room_id":"room-1","room_type":"Double"}`))
	serve(add, sessionRequest(http.MethodPost, "/api/cart/items", `{"room_id":"room-1","room_type":"Family"}`))

	rec := serve(CartRemoveItem(spaces, nil), sessionRequest(http.MethodDelete, "/api/cart/items?room_id=room-1&room_type=Double", ""))
	var body cartResponse
	decodeData(t, rec, &body)
	if body.Count != 1 || body.Items[0].SelectedConfiguration.RoomType != "Family" {
		t.Fatalf("unexpected cart after remove %+v", body)
	}

	rec = serve(CartRemoveItem(spaces, nil), sessionRequest(http.MethodDelete, "/api/cart/items?room_id=room-9&room_type=Double", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("removing an absent line is a no-op, got %d", rec.Code)
	}

	rec = serve(CartRemoveItem(spaces, nil), sessionRequest(http.MethodDelete, "/api/cart/items?room_id=room-1", ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without room_type, got %d", rec.Code)
	}

	rec = serve(CartClear(spaces, nil), sessionRequest(http.MethodDelete, "/api/cart", ""))
	decodeData(t, rec, &body)
	if body.Count != 0 {
		t.Fatalf("expected empty cart, got %d", body.Count)
	}

	rec = serve(CartGet(spaces, nil), sessionRequest(http.MethodGet, "/api/cart", ""))
	decodeData(t, rec, &body)
	if body.Count != 0 || body.Items == nil {
		t.Fatalf("expected empty item list, got %+v", body)
	}
}

func TestCartBookNowLeavesCartAlone(t *testing.T) {
	spaces := newTestWorkspaces(t, &recordingBookings{})
	rooms := stubRooms{rooms: map[string]types.Room{"room-1": gardenSuite()}}

	rec := serve(CartBookNow(rooms, nil), sessionRequest(http.MethodPost, "/api/cart/book-now", `{"room_id":"room-1","room_type":"Family"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var nav checkout.Navigation
	decodeData(t, rec, &nav)
	if !nav.DirectBooking || nav.Room == nil || nav.Room.SelectedConfiguration.RoomType != "Family" {
		t.Fatalf("unexpected navigation %+v", nav)
	}

	var body cartResponse
	decodeData(t, serve(CartGet(spaces, nil), sessionRequest(http.MethodGet, "/api/cart", "")), &body)
	if body.Count != 0 {
		t.Fatalf("book now must not touch the cart")
	}
}

func TestCartRequiresSession(t *testing.T) {
	spaces := newTestWorkspaces(t, &recordingBookings{})
	req, _ := http.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := serve(CartGet(spaces, nil), req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}
}
