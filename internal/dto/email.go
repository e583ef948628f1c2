package dto

import "net/mail"

// IsValidEmail reports whether s is a bare address such as a@b.example,
// without display name or angle brackets.
func IsValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && addr.Name == ""
}
