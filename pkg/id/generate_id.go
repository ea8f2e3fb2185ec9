package id

import (
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes),
// rendered from a random UUIDv4.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
