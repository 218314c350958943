package combo

import "github.com/google/uuid"

// maxSessionIDLength bounds client-supplied session ids.
const maxSessionIDLength = 128

// NewSessionID issues a fresh opaque session id.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID accepts 8 to 128 characters from [A-Za-z0-9_-].
func ValidSessionID(id string) bool {
	if len(id) < 8 || len(id) > maxSessionIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
