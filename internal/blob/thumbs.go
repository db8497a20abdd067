package blob

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

const thumbWidth = 320

// thumbable raster types. Video and webp previews are out of scope;
// the grid falls back to the original URL for those.
var thumbTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ThumbPath maps an object path onto its thumbnail path, or "" when no
// thumbnail is ever generated for that content type.
func ThumbPath(p, fileType string) string {
	if !thumbTypes[fileType] {
		return ""
	}
	dot := strings.LastIndex(p, ".")
	if dot < 0 {
		return p + "_thumb.jpg"
	}
	return p[:dot] + "_thumb.jpg"
}

// SaveThumbnail decodes the image and writes a width-capped JPEG
// thumbnail beside the original. Callers treat failure as non-fatal;
// the upload itself already succeeded.
func (s *Store) SaveThumbnail(p, fileType string, data []byte) error {
	tp := ThumbPath(p, fileType)
	if tp == "" {
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}

	thumb := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return err
	}
	return s.Save(tp, io.Reader(&buf))
}
