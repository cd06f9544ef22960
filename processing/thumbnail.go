package processing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

const (
	thumbnailWidth  = 640
	thumbnailHeight = 360
)

// placeholderThumbnail renders a solid-color PNG standing in for a
// real frame grab. The deterministic thumbnails/<id>.png key is the
// contract; the pixels are not, and a media-aware generator can
// replace this function without touching the worker.
func placeholderThumbnail() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, thumbnailWidth, thumbnailHeight))
	fill := color.RGBA{R: 52, G: 152, B: 219, A: 255}
	for y := 0; y < thumbnailHeight; y++ {
		for x := 0; x < thumbnailWidth; x++ {
			img.SetRGBA(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
