package enums

import "fmt"

// PackBadge is the optional merchandising badge shown on a variant or pack.
type PackBadge string

const (
	PackBadgePopular   PackBadge = "popular"
	PackBadgeBestValue PackBadge = "best_value"
	PackBadgeLimited   PackBadge = "limited"
	PackBadgeNew       PackBadge = "new"
)

var validPackBadges = []PackBadge{
	PackBadgePopular,
	PackBadgeBestValue,
	PackBadgeLimited,
	PackBadgeNew,
}

// String implements fmt.Stringer.
func (b PackBadge) String() string {
	return string(b)
}

// IsValid reports whether the value is a known PackBadge.
func (b PackBadge) IsValid() bool {
	for _, candidate := range validPackBadges {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParsePackBadge converts raw input into a PackBadge.
func ParsePackBadge(value string) (PackBadge, error) {
	for _, candidate := range validPackBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pack badge %q", value)
}
