package utils

import (
	"crypto/rand"
	"encoding/base64"
	"regexp"

	"github.com/google/uuid"
)

var cnicPattern = regexp.MustCompile(`^\d{13}$`)

// ValidCNIC reports whether the value is a 13-digit CNIC without dashes.
func ValidCNIC(cnic string) bool {
	return cnicPattern.MatchString(cnic)
}

// StringToUUIDPtr converts a string to a UUID pointer, nil on empty or invalid input
func StringToUUIDPtr(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &u
}

// StringPtr returns a pointer to the string value
func StringPtr(s string) *string {
	return &s
}

// GenerateTempPassword produces an opaque single-use credential for
// provisioned staff accounts.
func GenerateTempPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
