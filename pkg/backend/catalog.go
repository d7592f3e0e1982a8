package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

// ListRooms fetches every room from GET /api/user/rooms.
func (c *Client) ListRooms(ctx context.Context) ([]types.Room, error) {
	var rooms []types.Room
	if _, err := c.do(ctx, request{operation: "list_rooms", method: http.MethodGet, path: "/api/user/rooms"}, &rooms); err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []types.Room{}
	}
	return rooms, nil
}

// GetRoom fetches a single room from GET /api/user/room/:id.
func (c *Client) GetRoom(ctx context.Context, id string) (*types.Room, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room id is required")
	}
	var room types.Room
	path := "/api/user/room/" + url.PathEscape(trimmed)
	if _, err := c.do(ctx, request{operation: "get_room", method: http.MethodGet, path: path}, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// ListGallery fetches the gallery from GET /api/user/gallery.
func (c *Client) ListGallery(ctx context.Context) ([]types.GalleryEntry, error) {
	var entries []types.GalleryEntry
	if _, err := c.do(ctx, request{operation: "list_gallery", method: http.MethodGet, path: "/api/user/gallery"}, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []types.GalleryEntry{}
	}
	return entries, nil
}
