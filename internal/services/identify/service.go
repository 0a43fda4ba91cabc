// Package identify resolves player clicks against the labeled difference
// regions of a 2D game, and object reveals against the 3D object list.
package identify

import (
	"encoding/base64"

	"github.com/christophe-asselin/7-differences/internal/bitmap"
	"github.com/christophe-asselin/7-differences/internal/model"
)

const dataURIPrefix = "data:image/bmp;base64,"

// Service resolves difference identifications
type Service struct{}

// New creates an identification service
func New() *Service {
	return &Service{}
}

// VerifyPosition returns the region containing the click coordinate, or an
// empty slice when the click lands in the background. Regions from one
// labeling pass are disjoint, so iteration order over labels cannot change
// the result; labels are scanned in creation order.
func (s *Service) VerifyPosition(regions [][]model.Coordinate, click model.Coordinate) []model.Coordinate {
	for label := 1; label < len(regions); label++ {
		for _, c := range regions[label] {
			if c == click {
				return regions[label]
			}
		}
	}
	if len(regions) == 0 {
		return nil
	}
	return regions[0]
}

// ReplacePixels heals the found difference: every coordinate of the region
// is copied from the original image into the modified one, and the healed
// image is re-encoded as a base64 data URI.
func (s *Service) ReplacePixels(region []model.Coordinate, original, modified *bitmap.Bitmap) string {
	for _, c := range region {
		modified.SetPixel(c.X, c.Y, original.Pixel(c.X, c.Y))
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(modified.Bytes())
}

// GenerateResponse resolves a click into the full identification response:
// a found response carries the healed coordinates and updated image, a miss
// carries only the negative flag.
func (s *Service) GenerateResponse(original, modified *bitmap.Bitmap, click model.Coordinate, regions [][]model.Coordinate) model.DifferenceIdentification {
	region := s.VerifyPosition(regions, click)
	if len(region) == 0 {
		return model.DifferenceIdentification{
			Title:                model.TitleSuccess,
			DifferenceIdentified: false,
		}
	}

	return model.DifferenceIdentification{
		Title:                model.TitleSuccess,
		DifferenceIdentified: true,
		Coordinates:          region,
		NewModifiedImageURL:  s.ReplacePixels(region, original, modified),
	}
}

// FreeDifferenceExists reports whether the clicked 3D object index is a
// findable difference of the game.
func (s *Service) FreeDifferenceExists(game *model.FreeGame, index int) bool {
	return game.HasObjectIndex(index)
}
