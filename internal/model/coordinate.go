package model

// Coordinate is a pixel position in image space, origin at the bottom-left
// row of the bitmap pixel array.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DifferenceRegions is the labeled partition of a difference mask.
// Labels maps every pixel [x][y] to its region label, 0 meaning background.
// Regions[label] lists the pixels belonging to that label in discovery
// order; Regions[0] is the (empty) background placeholder.
type DifferenceRegions struct {
	Labels  [][]int        `json:"labels"`
	Regions [][]Coordinate `json:"regions"`
}

// RegionCount returns the number of non-background regions.
func (d *DifferenceRegions) RegionCount() int {
	if len(d.Regions) == 0 {
		return 0
	}
	return len(d.Regions) - 1
}
