package cart

import (
	"strings"

	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

// Key identifies a cart line: one room under one configuration.
type Key struct {
	RoomID   string `json:"room_id"`
	RoomType string `json:"room_type"`
}

func (k Key) validate() error {
	if strings.TrimSpace(k.RoomID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "room id is required")
	}
	if strings.TrimSpace(k.RoomType) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "room type is required")
	}
	return nil
}

// Item is a room snapshot together with the configuration the guest picked.
type Item struct {
	types.Room
	SelectedConfiguration types.RoomConfiguration `json:"selectedConfiguration"`
}

func (i Item) Key() Key {
	return Key{RoomID: i.ID, RoomType: i.SelectedConfiguration.RoomType}
}

// NewItem pins cfg onto a copy of room.
func NewItem(room types.Room, cfg types.RoomConfiguration) Item {
	return Item{Room: room, SelectedConfiguration: cfg}
}
