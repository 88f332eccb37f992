// Package storage persists uploaded helper photos.
package storage

import (
	"context"
	"path/filepath"
	"strings"
)

// PhotoStore writes photo bytes under a generated filename and returns the
// reference recorded in HelperRecord.PhotoPath.
type PhotoStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// cleanName strips any directory components a client put in the upload's
// filename, so a photo can only land directly inside the uploads location.
func cleanName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
