package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/angelmondragon/hearth-storefront/api/middleware"
	"github.com/angelmondragon/hearth-storefront/internal/auth"
	"github.com/angelmondragon/hearth-storefront/internal/workspace"
	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/localstore"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

const testSession = "sess-1"

type stubRooms struct {
	rooms map[string]types.Room
}

func (s stubRooms) FetchRoom(_ context.Context, id string) (*types.Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Failed to fetch room")
	}
	return &room, nil
}

func gardenSuite() types.Room {
	return types.Room{
		ID:    "room-1",
		Title: "Garden Suite",
		Configurations: []types.RoomConfiguration{
			{RoomType: "Double", Price: types.MoneyFromInt(150), MaxPeople: 2},
			{RoomType: "Family", Price: types.MoneyFromInt(220), MaxPeople: 4},
		},
	}
}

type recordingBookings struct {
	mu       sync.Mutex
	calls    int
	token    string
	payload  backend.BookingRequest
	response *backend.BookingResult
	err      error
}

func (b *recordingBookings) CreateBooking(_ context.Context, token string, payload backend.BookingRequest) (*backend.BookingResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.token = token
	b.payload = payload
	if b.err != nil {
		return nil, b.err
	}
	if b.response != nil {
		return b.response, nil
	}
	return &backend.BookingResult{StatusCode: http.StatusCreated, Message: "Booking confirmed."}, nil
}

func newTestWorkspaces(t *testing.T, bookings *recordingBookings) *workspace.Manager {
	t.Helper()
	m, err := workspace.NewManager(workspace.ManagerParams{
		Storage:  localstore.NewMemory(),
		Bookings: bookings,
	})
	if err != nil {
		t.Fatalf("workspace manager: %v", err)
	}
	return m
}

func sessionRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithSessionID(req.Context(), testSession))
}

func signedIn(req *http.Request, token string) *http.Request {
	state := auth.State{IsAuthenticated: true, CurrentUser: &auth.User{Token: token}}
	return req.WithContext(middleware.WithAuthState(req.Context(), state))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data %s: %v", envelope.Data, err)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error %q: %v", rec.Body.String(), err)
	}
	return envelope.Error
}

func extractData(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return string(envelope.Data)
}
