package types

import (
	"time"

	"github.com/angelmondragon/hearth-storefront/pkg/enums"
)

// RoomConfiguration is one sellable variant of a room.
type RoomConfiguration struct {
	RoomType     string        `json:"roomType"`
	Price        Money         `json:"price"`
	NumberOfBeds int           `json:"numberOfBeds"`
	BedType      enums.BedType `json:"bedType"`
	MaxPeople    int           `json:"maxPeople"`
}

// Room mirrors the room document served by the hotel API.
type Room struct {
	ID               string              `json:"_id"`
	Title            string              `json:"title"`
	RoomNumber       string              `json:"roomNumber,omitempty"`
	Description      string              `json:"description,omitempty"`
	Amenities        []string            `json:"amenities,omitempty"`
	Configurations   []RoomConfiguration `json:"configurations,omitempty"`
	Pictures         []string            `json:"pictures,omitempty"`
	FrontViewPicture string              `json:"frontViewPicture,omitempty"`
	Status           enums.RoomStatus    `json:"status,omitempty"`
	StarRating       float64             `json:"starRating,omitempty"`
	CreatedAt        *time.Time          `json:"createdAt,omitempty"`
}

// Configuration returns the configuration matching roomType.
func (r Room) Configuration(roomType string) (RoomConfiguration, bool) {
	for _, cfg := range r.Configurations {
		if cfg.RoomType == roomType {
			return cfg, true
		}
	}
	return RoomConfiguration{}, false
}

// GalleryEntry is one captioned set of pictures on the gallery page.
type GalleryEntry struct {
	ID       string                `json:"_id"`
	Caption  string                `json:"caption"`
	Category enums.GalleryCategory `json:"category"`
	Pictures []string              `json:"pictures"`
}
