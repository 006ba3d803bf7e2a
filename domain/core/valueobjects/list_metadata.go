package valueobjects

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Pre-compiled regular expressions for metadata validation
var (
	// hexColorRegex matches #RGB and #RRGGBB hex colors
	hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// namedColors is the fixed allow-list of CSS color names accepted for lists.
var namedColors = map[string]bool{
	"black": true, "silver": true, "gray": true, "grey": true, "white": true,
	"maroon": true, "red": true, "purple": true, "fuchsia": true, "green": true,
	"lime": true, "olive": true, "yellow": true, "navy": true, "blue": true,
	"teal": true, "aqua": true, "orange": true, "pink": true, "brown": true,
	"gold": true, "indigo": true, "violet": true, "coral": true, "salmon": true,
	"turquoise": true, "crimson": true, "lavender": true, "beige": true,
}

const (
	maxListNameLength = 100
	maxListIconLength = 50
)

// ListMetadata is an immutable value object carrying a list's display
// attributes. Construction validates every field; a ListMetadata that exists
// is valid.
type ListMetadata struct {
	name        string
	icon        string
	color       string
	description string
}

// NewListMetadata creates a validated ListMetadata.
// Name and icon are required; color and description are optional.
func NewListMetadata(name, icon, color, description string) (ListMetadata, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ListMetadata{}, ErrEmptyListName
	}
	// Limits are in characters, not bytes, so multibyte names count fairly.
	if utf8.RuneCountInString(name) > maxListNameLength {
		return ListMetadata{}, ErrListNameTooLong
	}

	icon = strings.TrimSpace(icon)
	if icon == "" {
		return ListMetadata{}, ErrEmptyListIcon
	}
	if utf8.RuneCountInString(icon) > maxListIconLength {
		return ListMetadata{}, ErrListIconTooLong
	}

	color = strings.TrimSpace(color)
	if err := validateColor(color); err != nil {
		return ListMetadata{}, err
	}

	return ListMetadata{
		name:        name,
		icon:        icon,
		color:       color,
		description: description,
	}, nil
}

// validateColor accepts the empty string, hex colors, and allow-listed names
func validateColor(color string) error {
	if color == "" {
		return nil
	}
	if hexColorRegex.MatchString(color) {
		return nil
	}
	if namedColors[strings.ToLower(color)] {
		return nil
	}
	return ErrInvalidColor
}

// Name returns the list name
func (m ListMetadata) Name() string { return m.name }

// Icon returns the list icon
func (m ListMetadata) Icon() string { return m.icon }

// Color returns the list color, empty when unset
func (m ListMetadata) Color() string { return m.color }

// Description returns the optional description
func (m ListMetadata) Description() string { return m.description }

// WithName returns a copy with the name replaced
func (m ListMetadata) WithName(name string) (ListMetadata, error) {
	return NewListMetadata(name, m.icon, m.color, m.description)
}

// WithIcon returns a copy with the icon replaced
func (m ListMetadata) WithIcon(icon string) (ListMetadata, error) {
	return NewListMetadata(m.name, icon, m.color, m.description)
}

// WithColor returns a copy with the color replaced
func (m ListMetadata) WithColor(color string) (ListMetadata, error) {
	return NewListMetadata(m.name, m.icon, color, m.description)
}

// WithDescription returns a copy with the description replaced
func (m ListMetadata) WithDescription(description string) (ListMetadata, error) {
	return NewListMetadata(m.name, m.icon, m.color, description)
}

// Equals checks if two ListMetadata values are identical
func (m ListMetadata) Equals(other ListMetadata) bool {
	return m == other
}
