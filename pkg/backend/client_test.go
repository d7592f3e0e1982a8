package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/hearth-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://hotel.test/", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected missing base url to fail")
	}
	client, err := NewClient("http://hotel.test", WithTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.httpClient.Timeout != 3*time.Second {
		t.Fatalf("expected timeout override, got %v", client.httpClient.Timeout)
	}
}

func TestWithTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{}
	client, err := NewClient("http://hotel.test", WithHTTPClient(shared), WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if shared.Timeout != 0 {
		t.Fatalf("shared client timeout changed to %v", shared.Timeout)
	}
	if client.httpClient == shared || client.httpClient.Timeout != 2*time.Second {
		t.Fatalf("expected a copied client with the timeout applied")
	}
}

func TestListRooms(t *testing.T) {
	var capturedURL string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		if req.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", req.Method)
		}
		return jsonResponse(http.StatusOK, `[{"_id":"r1","title":"Garden","configurations":[{"roomType":"Double","price":3000,"maxPeople":2}]}]`), nil
	})

	rooms, err := client.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if capturedURL != "http://hotel.test/api/user/rooms" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if len(rooms) != 1 || rooms[0].ID != "r1" || rooms[0].Configurations[0].MaxPeople != 2 {
		t.Fatalf("unexpected rooms %+v", rooms)
	}
}

func TestListRoomsEmptyBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, ``), nil
	})
	rooms, err := client.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if rooms == nil || len(rooms) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rooms)
	}
}

func TestGetRoomNotFoundCarriesMessage(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/user/room/abc%2F1" && req.URL.RawPath != "/api/user/room/abc%2F1" {
			t.Fatalf("unexpected path %q raw=%q", req.URL.Path, req.URL.RawPath)
		}
		return jsonResponse(http.StatusNotFound, `{"message":"Room not found"}`), nil
	})

	_, err := client.GetRoom(context.Background(), "abc/1")
	if err == nil {
		t.Fatalf("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
	if typed.Message() != "Room not found" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
	if status, ok := StatusOf(err); !ok || status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d %v", status, ok)
	}
	if MessageOf(err) != "Room not found" {
		t.Fatalf("unexpected upstream message %q", MessageOf(err))
	}
}

func TestGetRoomRequiresID(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})
	if _, err := client.GetRoom(context.Background(), " "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingSendsCredentialAndPayload(t *testing.T) {
	checkIn := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	var headers http.Header
	var body map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		headers = req.Header.Clone()
		raw, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(http.StatusCreated, `{"message":"Booking created"}`), nil
	})

	result, err := client.CreateBooking(context.Background(), "tok-1", BookingRequest{
		Rooms: []BookingLine{{
			Room:          "r1",
			RoomType:      "Double",
			Guests:        2,
			CheckInDate:   checkIn,
			CheckOutDate:  checkIn.AddDate(0, 0, 3),
			PricePerNight: types.MoneyFromInt(3000),
			TotalNights:   3,
			Subtotal:      types.MoneyFromInt(18000),
		}},
		TotalAmount:     types.NewMoney(decimal.NewFromInt(18000)),
		SpecialRequests: "late arrival",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if result.StatusCode != http.StatusCreated || result.Message != "Booking created" {
		t.Fatalf("unexpected result %+v", result)
	}
	if headers.Get("Authorization") != "Bearer tok-1" || headers.Get("x-access-token") != "tok-1" {
		t.Fatalf("credential headers missing: %v", headers)
	}
	if body["totalAmount"] != float64(18000) || body["specialRequests"] != "late arrival" {
		t.Fatalf("unexpected body %v", body)
	}
	line := body["rooms"].([]any)[0].(map[string]any)
	if line["room"] != "r1" || line["totalNights"] != float64(3) || line["checkInDate"] != "2025-07-01T00:00:00Z" {
		t.Fatalf("unexpected line %v", line)
	}
}

func TestCreateBookingGuards(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})
	if _, err := client.CreateBooking(context.Background(), "", BookingRequest{Rooms: []BookingLine{{}}}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := client.CreateBooking(context.Background(), "tok", BookingRequest{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
}

func TestServerErrorMapsToDependency(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `<html>bad gateway</html>`), nil
	})
	_, err := client.ListGallery(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if MessageOf(err) != "" {
		t.Fatalf("non-json bodies carry no message, got %q", MessageOf(err))
	}
}

func TestTransportErrors(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListRooms(ctx)
	if !pkgerrors.IsCode(err, pkgerrors.CodeCanceled) {
		t.Fatalf("expected canceled, got %v", err)
	}

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelTimeout()
	_, err = client.ListRooms(ctx)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency || !strings.Contains(typed.Message(), "timed out") {
		t.Fatalf("expected timeout dependency error, got %v", err)
	}
	if _, ok := StatusOf(err); ok {
		t.Fatalf("transport failures have no upstream status")
	}
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/user/login" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"message":"ok","token":"jwt-1"}`), nil
	})
	result, err := client.Login(context.Background(), "a@b.co", "secret1")
	if err != nil || result.Token != "jwt-1" {
		t.Fatalf("unexpected login %+v %v", result, err)
	}

	empty := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"message":"ok"}`), nil
	})
	if _, err := empty.Login(context.Background(), "a@b.co", "x"); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected missing token to fail, got %v", err)
	}
}

func TestRegisterBadRequestUsesBackendMessage(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"message":"Email already registered"}`), nil
	})
	_, err := client.Register(context.Background(), RegisterRequest{Email: "a@b.co"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation || typed.Message() != "Email already registered" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestVerifyEmailAndContact(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		paths = append(paths, req.URL.Path)
		return jsonResponse(http.StatusOK, `{"message":"done"}`), nil
	})
	if _, err := client.VerifyEmail(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty token")
	}
	if res, err := client.VerifyEmail(context.Background(), "tok"); err != nil || res.Message != "done" {
		t.Fatalf("verify: %+v %v", res, err)
	}
	if _, err := client.SendContact(context.Background(), ContactRequest{Name: "A"}); err != nil {
		t.Fatalf("contact: %v", err)
	}
	if strings.Join(paths, ",") != "/api/user/verify-email,/api/user/contact" {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestCreateRoomMultipart(t *testing.T) {
	fields := map[string]string{}
	files := map[string][]string{}
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/admin/create-room" || req.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		_, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		if err != nil {
			t.Fatalf("parse content type: %v", err)
		}
		reader := multipart.NewReader(req.Body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("next part: %v", err)
			}
			data, _ := io.ReadAll(part)
			if part.FileName() != "" {
				files[part.FormName()] = append(files[part.FormName()], part.FileName()+"="+string(data))
				continue
			}
			fields[part.FormName()] = string(data)
		}
		return jsonResponse(http.StatusCreated, `{"message":"Room created"}`), nil
	})

	result, err := client.CreateRoom(context.Background(), "admin-tok", RoomForm{
		Title:          "Garden",
		RoomNumber:     "7",
		Configurations: []types.RoomConfiguration{{RoomType: "Double", Price: types.MoneyFromInt(3000), NumberOfBeds: 1, BedType: enums.BedTypeQueen, MaxPeople: 2}},
		Status:         enums.RoomStatusAvailable,
		ImagesToKeep:   []string{"a.jpg"},
		KeepFrontView:  true,
		FrontView:      &FilePart{Filename: "front.jpg", ContentType: "image/jpeg", Content: strings.NewReader("F")},
		Pictures:       []FilePart{{Filename: "p1.jpg", Content: strings.NewReader("P1")}},
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if result.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status %d", result.StatusCode)
	}
	if fields["title"] != "Garden" || fields["status"] != "available" || fields["amenities"] != "[]" || fields["imagesToKeep"] != `["a.jpg"]` {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["keepFrontView"]; ok {
		t.Fatalf("keepFrontView must be omitted when a new front image is uploaded")
	}
	if !strings.Contains(fields["configurations"], `"price":3000`) {
		t.Fatalf("configurations not encoded: %s", fields["configurations"])
	}
	if files["frontViewPicture"][0] != "front.jpg=F" || files["pictures"][0] != "p1.jpg=P1" {
		t.Fatalf("unexpected files %v", files)
	}
}

func TestUpdateGalleryAndDeleteRoom(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		calls = append(calls, req.Method+" "+req.URL.Path)
		if req.Body != nil {
			_, _ = io.Copy(io.Discard, req.Body)
		}
		return jsonResponse(http.StatusOK, `{"message":"ok"}`), nil
	})
	if _, err := client.UpdateGallery(context.Background(), "tok", "g1", GalleryForm{Caption: "Pool", Category: enums.GalleryCategoryAmenities}); err != nil {
		t.Fatalf("update gallery: %v", err)
	}
	if _, err := client.DeleteRoom(context.Background(), "tok", "r9"); err != nil {
		t.Fatalf("delete room: %v", err)
	}
	if _, err := client.UpdateRoom(context.Background(), "tok", "", RoomForm{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected id validation, got %v", err)
	}
	if strings.Join(calls, ",") != "PUT /api/admin/gallery/g1,DELETE /api/admin/room/r9" {
		t.Fatalf("unexpected calls %v", calls)
	}
}
