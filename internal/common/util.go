package common

import "strings"

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeRole maps API role names onto RoleAdmin / RoleUser.
func NormalizeRole(role string) string {
	switch strings.ToUpper(strings.TrimSpace(role)) {
	case "ADMIN", "MASTER":
		return RoleAdmin
	default:
		return RoleUser
	}
}
