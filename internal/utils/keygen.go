package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ModelIDLength is the length of a console-generated SKU model id.
const ModelIDLength = 8

// NewModelID returns an upper-case hex token for a new SKU, e.g. "3FA85F64".
func NewModelID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:ModelIDLength])
}

// NewUniqueModelID draws model ids until one is not taken. taken may be nil.
func NewUniqueModelID(taken func(id string) bool) string {
	for {
		id := NewModelID()
		if taken == nil || !taken(id) {
			return id
		}
	}
}

// NewSessionID returns a random console session id.
func NewSessionID() string {
	return uuid.NewString()
}
