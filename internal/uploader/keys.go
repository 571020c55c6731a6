package uploader

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultKeyPrefix is the namespace all uploaded images live under.
const DefaultKeyPrefix = "images"

// NewKey returns a fresh destination key of the form "<prefix>/<uuid>".
// Every call yields a new random identifier, so uploading the same file
// twice never overwrites the earlier object.
func NewKey(prefix string) string {
	id := uuid.NewString()
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return id
	}
	return prefix + "/" + id
}
