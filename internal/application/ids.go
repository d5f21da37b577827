package application

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// NewRecordID returns a fresh identifier for a stored record.
func NewRecordID() string {
	return uuid.NewString()
}

// NewShareID returns an opaque handle used to build shareable links.
func NewShareID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
