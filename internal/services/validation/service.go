// Package validation labels the connected regions of a difference mask and
// enforces the seven-differences rule of the 2D game.
package validation

import (
	"fmt"

	"github.com/christophe-asselin/7-differences/internal/bitmap"
	"github.com/christophe-asselin/7-differences/internal/model"
)

// RequiredDifferences is the number of regions a playable 2D game must have
const RequiredDifferences = 7

// 8-connectivity neighbor offsets, diagonals included
var (
	dx = []int{1, 0, -1, -1, -1, 0, 1, 1}
	dy = []int{-1, -1, -1, 0, 1, 1, 1, 0}
)

// Result reports whether a mask is playable, along with the labeled region
// table reused by click identification for the lifetime of the game.
type Result struct {
	Valid   bool
	Count   int
	Message string
	Regions model.DifferenceRegions
}

// Service runs connected-component labeling on difference masks
type Service struct{}

// New creates a validation service
func New() *Service {
	return &Service{}
}

// VerifyImageDifference partitions the black pixels of the mask into
// 8-connected regions and accepts the mask only when exactly seven regions
// exist. An all-white mask yields zero regions and is rejected like any
// other wrong count.
func (s *Service) VerifyImageDifference(mask *bitmap.Bitmap) Result {
	regions := labelRegions(mask)
	count := regions.RegionCount()

	if count != RequiredDifferences {
		return Result{
			Valid:   false,
			Count:   count,
			Message: fmt.Sprintf("image contains %d difference(s), expected %d", count, RequiredDifferences),
			Regions: regions,
		}
	}

	return Result{
		Valid:   true,
		Count:   count,
		Message: fmt.Sprintf("image contains %d differences", RequiredDifferences),
		Regions: regions,
	}
}

// labelRegions scans the mask in raster order and breadth-first expands
// each unlabeled black pixel into a new region. Labels start at 1;
// Regions[0] stays the empty background placeholder.
func labelRegions(mask *bitmap.Bitmap) model.DifferenceRegions {
	labels := make([][]int, bitmap.Width)
	for x := range labels {
		labels[x] = make([]int, bitmap.Height)
	}

	regions := model.DifferenceRegions{
		Labels:  labels,
		Regions: [][]model.Coordinate{{}},
	}

	next := 0
	for y := 0; y < bitmap.Height; y++ {
		for x := 0; x < bitmap.Width; x++ {
			if isBlack(mask, x, y) && labels[x][y] == 0 {
				next++
				regions.Regions = append(regions.Regions, floodLabel(mask, labels, x, y, next))
			}
		}
	}

	return regions
}

// floodLabel collects every unlabeled black pixel 8-connected to (x, y)
// into one region.
func floodLabel(mask *bitmap.Bitmap, labels [][]int, x, y, label int) []model.Coordinate {
	var region []model.Coordinate
	queue := []model.Coordinate{{X: x, Y: y}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if !bitmap.InBounds(p.X, p.Y) || !isBlack(mask, p.X, p.Y) || labels[p.X][p.Y] != 0 {
			continue
		}

		labels[p.X][p.Y] = label
		region = append(region, p)

		for n := range dx {
			queue = append(queue, model.Coordinate{X: p.X + dx[n], Y: p.Y + dy[n]})
		}
	}

	return region
}

func isBlack(mask *bitmap.Bitmap, x, y int) bool {
	return mask.Pixel(x, y) == bitmap.Black
}
