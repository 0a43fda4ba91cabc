// Package diffgen builds the black-on-white difference mask for a pair of
// game images.
package diffgen

import (
	"github.com/christophe-asselin/7-differences/internal/bitmap"
)

// widenRadius is how far a single mismatched pixel bleeds into the mask.
// Dilation merges mismatches that sit close together (anti-aliasing noise)
// into one visible blob.
const widenRadius = 3

// Service generates difference masks
type Service struct{}

// New creates a difference generator
func New() *Service {
	return &Service{}
}

// GenerateDifferenceImage compares two same-size bitmaps pixel by pixel and
// returns a mask where every mismatch is dilated into a black blob on a
// white background. It always produces an image; whether the mask is a
// playable one is judged by validation.
func (s *Service) GenerateDifferenceImage(original, modified *bitmap.Bitmap) *bitmap.Bitmap {
	mask := bitmap.NewBlank()

	for x := 0; x < bitmap.Width; x++ {
		for y := 0; y < bitmap.Height; y++ {
			if original.Pixel(x, y) != modified.Pixel(x, y) {
				widenPixel(mask, x, y)
			}
		}
	}

	return mask
}

// widenPixel blackens (x, y) plus a 3-pixel-radius cross neighborhood with
// rounded corners, clipped to image bounds.
func widenPixel(mask *bitmap.Bitmap, x, y int) {
	writeBlack(mask, x, y)

	for i := 1; i <= widenRadius; i++ {
		for j := -1; j <= 1; j++ {
			writeBlack(mask, x+i, y+j)
			writeBlack(mask, x-i, y+j)
			writeBlack(mask, x+j, y+i)
			writeBlack(mask, x+j, y-i)
		}
	}

	const edge = 2
	writeBlack(mask, x-edge, y-edge)
	writeBlack(mask, x-edge, y+edge)
	writeBlack(mask, x+edge, y-edge)
	writeBlack(mask, x+edge, y+edge)
}

func writeBlack(mask *bitmap.Bitmap, x, y int) {
	if bitmap.InBounds(x, y) {
		mask.SetPixel(x, y, bitmap.Black)
	}
}
