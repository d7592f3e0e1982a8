package admin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	"github.com/angelmondragon/hearth-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var amenityChoices = []string{
	"Room 20m²", "Room 26m²", "Toothbrush", "Shampoo", "Slippers", "Room 16m²", "Room 24m²", "Room 28m²",
	"Double Beds", "Single Bed", "Tripple", "Smart TV", "Sauna", "Room Service", "Bath tab",
	"AC", "Booking", "Storage", "Outdoor Kitchen", "Towels",
	"Big Wardrobe", "Cable TV", "Family Room", "Shower", "Breakfast", "Soundproof", "Dryer",
}

// AmenityChoices lists the amenities a room can be tagged with.
func AmenityChoices() []string {
	out := make([]string, len(amenityChoices))
	copy(out, amenityChoices)
	return out
}

func isAmenity(value string) bool {
	for _, choice := range amenityChoices {
		if choice == value {
			return true
		}
	}
	return false
}

// RoomInput is the room editor. ExistingFrontView and ExistingPictures are
// the image URLs of the stored room the admin chose to keep.
type RoomInput struct {
	Title             string                    `validate:"required,max=200"`
	RoomNumber        string                    `validate:"required,max=32"`
	Description       string                    `validate:"max=5000"`
	Configurations    []types.RoomConfiguration `validate:"required,min=1"`
	Status            enums.RoomStatus
	Amenities         []string
	ExistingFrontView string
	ExistingPictures  []string
	FrontView         *backend.FilePart
	Pictures          []backend.FilePart
}

// GalleryInput is the gallery editor.
type GalleryInput struct {
	Caption          string `validate:"required,max=300"`
	Category         enums.GalleryCategory
	ExistingPictures []string
	Pictures         []backend.FilePart
}

// KeyFromURL returns the storage key of an image URL: its last path segment
// without the query string.
func KeyFromURL(raw string) string {
	parts := strings.Split(raw, "/")
	last := parts[len(parts)-1]
	return strings.SplitN(last, "?", 2)[0]
}

func keysFromURLs(urls []string) []string {
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		keys = append(keys, KeyFromURL(u))
	}
	return keys
}

func (s *Service) validateRoom(in RoomInput) error {
	if in.FrontView == nil && strings.TrimSpace(in.ExistingFrontView) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, msgFrontViewRequired)
	}
	if len(in.Pictures) == 0 && len(keysFromURLs(in.ExistingPictures)) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, msgSlideshowRequired)
	}

	var errs error
	if err := s.validate.Struct(in); err != nil {
		errs = multierr.Append(errs, fieldErrors(err))
	}
	if in.Status != "" && !in.Status.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("status %q is not valid", in.Status))
	}
	for i, cfg := range in.Configurations {
		if strings.TrimSpace(cfg.RoomType) == "" {
			errs = multierr.Append(errs, fmt.Errorf("configuration %d: room type is required", i+1))
		}
		if cfg.Price.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("configuration %d: price must not be negative", i+1))
		}
		if cfg.NumberOfBeds < 1 {
			errs = multierr.Append(errs, fmt.Errorf("configuration %d: number of beds must be at least 1", i+1))
		}
		if !cfg.BedType.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("configuration %d: bed type %q is not valid", i+1, cfg.BedType))
		}
		if cfg.MaxPeople < 1 {
			errs = multierr.Append(errs, fmt.Errorf("configuration %d: max people must be at least 1", i+1))
		}
	}
	seen := map[string]struct{}{}
	for _, cfg := range in.Configurations {
		if _, dup := seen[cfg.RoomType]; dup && cfg.RoomType != "" {
			errs = multierr.Append(errs, fmt.Errorf("room type %q is configured twice", cfg.RoomType))
		}
		seen[cfg.RoomType] = struct{}{}
	}
	for _, a := range in.Amenities {
		if !isAmenity(a) {
			errs = multierr.Append(errs, fmt.Errorf("amenity %q is not offered", a))
		}
	}
	return asValidation(errs)
}

func (s *Service) validateGallery(in GalleryInput) error {
	if len(in.Pictures) == 0 && len(keysFromURLs(in.ExistingPictures)) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, msgImageRequired)
	}
	var errs error
	if err := s.validate.Struct(in); err != nil {
		errs = multierr.Append(errs, fieldErrors(err))
	}
	if !in.Category.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("category %q is not valid", in.Category))
	}
	return asValidation(errs)
}

func fieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var out error
	for _, fe := range verrs {
		out = multierr.Append(out, fmt.Errorf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return out
}

func asValidation(errs error) error {
	if errs == nil {
		return nil
	}
	problems := multierr.Errors(errs)
	details := make([]string, 0, len(problems))
	for _, p := range problems {
		details = append(details, p.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, problems[0].Error()).WithDetails(map[string]any{"problems": details})
}
