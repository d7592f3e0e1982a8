// Package catalog exposes the read-only room and gallery data served by the
// hotel API.
package catalog

import (
	"context"
	"strings"

	"github.com/angelmondragon/hearth-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

const (
	msgFetchRooms   = "Failed to fetch rooms"
	msgFetchRoom    = "Failed to fetch room"
	msgFetchGallery = "Failed to fetch gallery"
)

type catalogClient interface {
	ListRooms(ctx context.Context) ([]types.Room, error)
	GetRoom(ctx context.Context, id string) (*types.Room, error)
	ListGallery(ctx context.Context) ([]types.GalleryEntry, error)
}

// RoomStore fetches the room list.
type RoomStore struct {
	client catalogClient
	logg   *logger.Logger
	res    resource[[]types.Room]
}

// RoomDetailStore fetches one room by id.
type RoomDetailStore struct {
	client catalogClient
	logg   *logger.Logger
	res    resource[*types.Room]
}

// GalleryStore fetches the gallery entries.
type GalleryStore struct {
	client catalogClient
	logg   *logger.Logger
	res    resource[[]types.GalleryEntry]
}

// Stores groups the three catalog stores around one client.
type Stores struct {
	Rooms   *RoomStore
	Room    *RoomDetailStore
	Gallery *GalleryStore
}

func NewStores(client catalogClient, logg *logger.Logger) (*Stores, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Stores{
		Rooms:   &RoomStore{client: client, logg: logg, res: resource[[]types.Room]{fallback: msgFetchRooms}},
		Room:    &RoomDetailStore{client: client, logg: logg, res: resource[*types.Room]{fallback: msgFetchRoom}},
		Gallery: &GalleryStore{client: client, logg: logg, res: resource[[]types.GalleryEntry]{fallback: msgFetchGallery}},
	}, nil
}

func (s *RoomStore) FetchRooms(ctx context.Context) ([]types.Room, error) {
	rooms, err := s.res.fetch(ctx, func(ctx context.Context) ([]types.Room, error) {
		rooms, err := s.client.ListRooms(ctx)
		if rooms == nil && err == nil {
			rooms = []types.Room{}
		}
		return rooms, err
	})
	if err != nil {
		s.logg.Error(ctx, "fetch rooms failed", err)
	}
	return rooms, err
}

func (s *RoomStore) Snapshot() Snapshot[[]types.Room] {
	return s.res.snapshot()
}

func (s *RoomDetailStore) FetchRoom(ctx context.Context, id string) (*types.Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room id is required")
	}
	ctx = s.logg.WithRoomID(ctx, id)
	room, err := s.res.fetch(ctx, func(ctx context.Context) (*types.Room, error) {
		return s.client.GetRoom(ctx, id)
	})
	if err != nil {
		s.logg.Error(ctx, "fetch room failed", err)
	}
	return room, err
}

func (s *RoomDetailStore) Snapshot() Snapshot[*types.Room] {
	return s.res.snapshot()
}

func (s *GalleryStore) FetchGallery(ctx context.Context) ([]types.GalleryEntry, error) {
	entries, err := s.res.fetch(ctx, func(ctx context.Context) ([]types.GalleryEntry, error) {
		entries, err := s.client.ListGallery(ctx)
		if entries == nil && err == nil {
			entries = []types.GalleryEntry{}
		}
		return entries, err
	})
	if err != nil {
		s.logg.Error(ctx, "fetch gallery failed", err)
	}
	return entries, err
}

func (s *GalleryStore) Snapshot() Snapshot[[]types.GalleryEntry] {
	return s.res.snapshot()
}

// SelectConfiguration builds the cart line for the configuration at index.
func SelectConfiguration(room types.Room, index int) (cart.Item, error) {
	if index < 0 || index >= len(room.Configurations) {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "room configuration not found").
			WithDetails(map[string]any{"room_id": room.ID, "index": index})
	}
	return cart.NewItem(room, room.Configurations[index]), nil
}

// SelectRoomType builds the cart line for the configuration named roomType.
func SelectRoomType(room types.Room, roomType string) (cart.Item, error) {
	cfg, ok := room.Configuration(roomType)
	if !ok {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "room configuration not found").
			WithDetails(map[string]any{"room_id": room.ID, "room_type": roomType})
	}
	return cart.NewItem(room, cfg), nil
}
