package enums

import "fmt"

// GalleryCategory groups gallery entries on the public gallery page.
type GalleryCategory string

const (
	GalleryCategoryRooms       GalleryCategory = "Rooms & Suites"
	GalleryCategoryDining      GalleryCategory = "Dining & Cuisine"
	GalleryCategoryReception   GalleryCategory = "Reception & Lounge"
	GalleryCategoryAmenities   GalleryCategory = "Amenities"
	GalleryCategoryOutdoor     GalleryCategory = "Outdoor & Garden"
	GalleryCategoryEvents      GalleryCategory = "Events & Conferences"
	GalleryCategoryExperience  GalleryCategory = "Guest Experience"
	GalleryCategoryAttractions GalleryCategory = "Nearby Attractions"
)

var validGalleryCategories = []GalleryCategory{
	GalleryCategoryRooms,
	GalleryCategoryDining,
	GalleryCategoryReception,
	GalleryCategoryAmenities,
	GalleryCategoryOutdoor,
	GalleryCategoryEvents,
	GalleryCategoryExperience,
	GalleryCategoryAttractions,
}

// GalleryCategories returns the categories in display order.
func GalleryCategories() []GalleryCategory {
	out := make([]GalleryCategory, len(validGalleryCategories))
	copy(out, validGalleryCategories)
	return out
}

// String implements fmt.Stringer.
func (c GalleryCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known GalleryCategory.
func (c GalleryCategory) IsValid() bool {
	for _, candidate := range validGalleryCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseGalleryCategory converts raw input into a GalleryCategory.
func ParseGalleryCategory(value string) (GalleryCategory, error) {
	for _, candidate := range validGalleryCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gallery category %q", value)
}
