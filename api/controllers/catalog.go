package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/hearth-storefront/api/responses"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

// RoomLister serves the rooms page.
type RoomLister interface {
	FetchRooms(ctx context.Context) ([]types.Room, error)
}

// RoomFetcher serves the room detail page.
type RoomFetcher interface {
	FetchRoom(ctx context.Context, id string) (*types.Room, error)
}

// GalleryLister serves the gallery page.
type GalleryLister interface {
	FetchGallery(ctx context.Context) ([]types.GalleryEntry, error)
}

func RoomsList(svc RoomLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "room store unavailable"))
			return
		}
		rooms, err := svc.FetchRooms(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rooms == nil {
			rooms = []types.Room{}
		}
		responses.WriteSuccess(w, rooms)
	}
}

func RoomGet(svc RoomFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "room store unavailable"))
			return
		}
		id := chi.URLParam(r, "roomId")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithRoomID(ctx, id)
		}
		room, err := svc.FetchRoom(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, room)
	}
}

func GalleryList(svc GalleryLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gallery store unavailable"))
			return
		}
		entries, err := svc.FetchGallery(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if entries == nil {
			entries = []types.GalleryEntry{}
		}
		responses.WriteSuccess(w, entries)
	}
}
