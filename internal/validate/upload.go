// Package validate checks uploads before any storage or record call is
// made. Rejections here are fully recoverable and change no state.
package validate

import (
	"errors"
	"fmt"
)

// MaxUploadSize is the upload ceiling: 50 MiB.
const MaxUploadSize = 50 << 20

// allowedTypes is the content-type allow-list: raster images plus two
// video types.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
	"video/webm": true,
}

var (
	ErrUnsupportedType = errors.New("unsupported file type: upload an image or video")
	ErrTooLarge        = fmt.Errorf("file exceeds the %d MiB limit", MaxUploadSize>>20)
)

// Upload validates type then size, in that order.
func Upload(fileType string, size int64) error {
	if !allowedTypes[fileType] {
		return ErrUnsupportedType
	}
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	return nil
}
