package validation

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/christophe-asselin/7-differences/internal/bitmap"
	"github.com/christophe-asselin/7-differences/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

// blob draws a filled square of black pixels at (x, y)
func blob(mask *bitmap.Bitmap, x, y, size int) {
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			mask.SetPixel(x+i, y+j, bitmap.Black)
		}
	}
}

// maskWithBlobs draws n well-separated square blobs
func maskWithBlobs(n int) *bitmap.Bitmap {
	mask := bitmap.NewBlank()
	for i := 0; i < n; i++ {
		blob(mask, 10+i*40, 10, 5)
	}
	return mask
}

func (s *ServiceSuite) TestSevenBlobsAreValid() {
	result := s.service.VerifyImageDifference(maskWithBlobs(7))

	s.True(result.Valid)
	s.Equal(7, result.Count)
	s.Equal(7, result.Regions.RegionCount())
}

func (s *ServiceSuite) TestWrongBlobCountsAreRejected() {
	for _, n := range []int{0, 1, 5, 9} {
		result := s.service.VerifyImageDifference(maskWithBlobs(n))

		s.False(result.Valid, "blobs=%d", n)
		s.Equal(n, result.Count, "blobs=%d", n)
		s.Contains(result.Message, "expected 7", "blobs=%d", n)
	}
}

func (s *ServiceSuite) TestAllWhiteMaskYieldsZeroRegions() {
	result := s.service.VerifyImageDifference(bitmap.NewBlank())

	s.False(result.Valid)
	s.Equal(0, result.Count)
	s.Equal(0, result.Regions.RegionCount())
}

func (s *ServiceSuite) TestDiagonalPixelsShareOneLabel() {
	mask := bitmap.NewBlank()
	mask.SetPixel(100, 100, bitmap.Black)
	mask.SetPixel(101, 101, bitmap.Black)

	result := s.service.VerifyImageDifference(mask)

	s.Equal(1, result.Count)
	s.Equal(result.Regions.Labels[100][100], result.Regions.Labels[101][101])
}

func (s *ServiceSuite) TestSeparatedBlobsGetDistinctLabels() {
	mask := bitmap.NewBlank()
	mask.SetPixel(10, 10, bitmap.Black)
	mask.SetPixel(10, 12, bitmap.Black) // one white row between

	result := s.service.VerifyImageDifference(mask)

	s.Equal(2, result.Count)
	s.NotEqual(result.Regions.Labels[10][10], result.Regions.Labels[10][12])
}

func (s *ServiceSuite) TestRegionListsMatchLabelGrid() {
	mask := maskWithBlobs(3)
	result := s.service.VerifyImageDifference(mask)

	s.Empty(result.Regions.Regions[0])
	for label := 1; label <= result.Count; label++ {
		s.Len(result.Regions.Regions[label], 25)
		for _, c := range result.Regions.Regions[label] {
			s.Equal(label, result.Regions.Labels[c.X][c.Y])
		}
	}
}

func (s *ServiceSuite) TestBackgroundPlaceholderIsAlwaysPresent() {
	result := s.service.VerifyImageDifference(bitmap.NewBlank())
	s.Len(result.Regions.Regions, 1)
	s.Equal([]model.Coordinate{}, result.Regions.Regions[0])
}
