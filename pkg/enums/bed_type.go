package enums

import "fmt"

type BedType string

const (
	BedTypeSingle BedType = "Single"
	BedTypeQueen  BedType = "Queen"
	BedTypeDouble BedType = "Double"
	BedTypeKing   BedType = "King"
	BedTypeBunk   BedType = "Bunk"
)

var validBedTypes = []BedType{
	BedTypeSingle,
	BedTypeQueen,
	BedTypeDouble,
	BedTypeKing,
	BedTypeBunk,
}

// String implements fmt.Stringer.
func (b BedType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BedType.
func (b BedType) IsValid() bool {
	for _, candidate := range validBedTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBedType converts raw input into a BedType.
func ParseBedType(value string) (BedType, error) {
	for _, candidate := range validBedTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bed type %q", value)
}
