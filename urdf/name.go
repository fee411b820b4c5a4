package urdf

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyName is returned when a name to sanitize is empty.
var ErrEmptyName = errors.New("name must not be empty")

// SanitizeName maps a display name onto the identifier charset URDF accepts: ASCII
// letters, digits, underscores and dashes. Every other rune becomes an underscore.
func SanitizeName(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String(), nil
}
