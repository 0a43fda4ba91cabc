// Package bitmap decodes and encodes the fixed-format images used by the
// 2D game: 640x480, 24-bit uncompressed BMP. Pixels are exposed as an
// [x][y] grid in file row order (y=0 is the first stored row).
package bitmap

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Width and Height are the only accepted image dimensions
	Width  = 640
	Height = 480

	bitCount    = 24
	headerSize  = 54
	bytesPerPix = 3
)

// Header field offsets in the BMP file layout
const (
	offType        = 0
	offFileSize    = 2
	offReserved1   = 6
	offReserved2   = 8
	offPixelData   = 10
	offInfoSize    = 14
	offWidth       = 18
	offHeight      = 22
	offPlanes      = 26
	offBitCount    = 28
	offCompression = 30
	offImageSize   = 34
	offXPelsPerM   = 38
	offYPelsPerM   = 42
	offClrUsed     = 46
	offClrImportant = 50
)

// ErrFormat reports a malformed or unsupported image buffer.
var ErrFormat = errors.New("invalid bitmap format")

// Pixel is one 24-bit color sample
type Pixel struct {
	R uint8
	G uint8
	B uint8
}

var (
	// White is the background color of a difference mask
	White = Pixel{R: 255, G: 255, B: 255}
	// Black marks a difference in a mask
	Black = Pixel{R: 0, G: 0, B: 0}
)

type fileHeader struct {
	fileType  uint16
	fileSize  uint32
	reserved1 uint16
	reserved2 uint16
	pixelData uint32
}

type infoHeader struct {
	size         uint32
	width        uint32
	height       uint32
	planes       uint16
	bitCount     uint16
	compression  uint32
	imageSize    uint32
	xPelsPerM    uint32
	yPelsPerM    uint32
	clrUsed      uint32
	clrImportant uint32
}

// Bitmap is an in-memory 640x480 24-bit image. The original headers are
// preserved so encoding round-trips byte layout.
type Bitmap struct {
	file   fileHeader
	info   infoHeader
	pixels [][]Pixel // indexed [x][y]
}

// New decodes a BMP buffer, failing on anything that is not an
// uncompressed 24-bit 640x480 image.
func New(buf []byte) (*Bitmap, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrFormat)
	}
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: file is truncated", ErrFormat)
	}

	b := &Bitmap{
		file: fileHeader{
			fileType:  binary.LittleEndian.Uint16(buf[offType:]),
			fileSize:  binary.LittleEndian.Uint32(buf[offFileSize:]),
			reserved1: binary.LittleEndian.Uint16(buf[offReserved1:]),
			reserved2: binary.LittleEndian.Uint16(buf[offReserved2:]),
			pixelData: binary.LittleEndian.Uint32(buf[offPixelData:]),
		},
		info: infoHeader{
			size:         binary.LittleEndian.Uint32(buf[offInfoSize:]),
			width:        binary.LittleEndian.Uint32(buf[offWidth:]),
			height:       binary.LittleEndian.Uint32(buf[offHeight:]),
			planes:       binary.LittleEndian.Uint16(buf[offPlanes:]),
			bitCount:     binary.LittleEndian.Uint16(buf[offBitCount:]),
			compression:  binary.LittleEndian.Uint32(buf[offCompression:]),
			imageSize:    binary.LittleEndian.Uint32(buf[offImageSize:]),
			xPelsPerM:    binary.LittleEndian.Uint32(buf[offXPelsPerM:]),
			yPelsPerM:    binary.LittleEndian.Uint32(buf[offYPelsPerM:]),
			clrUsed:      binary.LittleEndian.Uint32(buf[offClrUsed:]),
			clrImportant: binary.LittleEndian.Uint32(buf[offClrImportant:]),
		},
	}

	if b.info.bitCount != bitCount {
		return nil, fmt.Errorf("%w: image is not a 24-bit BMP", ErrFormat)
	}
	if b.info.width != Width || b.info.height != Height {
		return nil, fmt.Errorf("%w: image must be %dx%d", ErrFormat, Width, Height)
	}

	need := int(b.file.pixelData) + Width*Height*bytesPerPix
	if len(buf) < need {
		return nil, fmt.Errorf("%w: pixel data is truncated", ErrFormat)
	}
	// Bytes sizes the encode buffer from this field, so an understated
	// value must be rejected here rather than panic later
	if int(b.file.fileSize) < need {
		return nil, fmt.Errorf("%w: header file size is smaller than the pixel data", ErrFormat)
	}

	b.pixels = newGrid()
	offset := int(b.file.pixelData)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			b.pixels[x][y] = Pixel{B: buf[offset], G: buf[offset+1], R: buf[offset+2]}
			offset += bytesPerPix
		}
	}

	return b, nil
}

// NewBlank returns an all-white bitmap with freshly synthesized headers,
// used as the canvas for difference masks.
func NewBlank() *Bitmap {
	size := uint32(headerSize + Width*Height*bytesPerPix)
	b := &Bitmap{
		file: fileHeader{
			fileType:  0x4D42, // "BM"
			fileSize:  size,
			pixelData: headerSize,
		},
		info: infoHeader{
			size:      40,
			width:     Width,
			height:    Height,
			planes:    1,
			bitCount:  bitCount,
			imageSize: Width * Height * bytesPerPix,
		},
		pixels: newGrid(),
	}
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			b.pixels[x][y] = White
		}
	}
	return b
}

func newGrid() [][]Pixel {
	pixels := make([][]Pixel, Width)
	for x := range pixels {
		pixels[x] = make([]Pixel, Height)
	}
	return pixels
}

// Pixel returns the color at (x, y).
func (b *Bitmap) Pixel(x, y int) Pixel {
	return b.pixels[x][y]
}

// SetPixel overwrites the color at (x, y).
func (b *Bitmap) SetPixel(x, y int, p Pixel) {
	b.pixels[x][y] = p
}

// InBounds reports whether (x, y) lies inside the image.
func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// Bytes re-encodes the bitmap using its original headers.
func (b *Bitmap) Bytes() []byte {
	buf := make([]byte, b.file.fileSize)

	binary.LittleEndian.PutUint16(buf[offType:], b.file.fileType)
	binary.LittleEndian.PutUint32(buf[offFileSize:], b.file.fileSize)
	binary.LittleEndian.PutUint16(buf[offReserved1:], b.file.reserved1)
	binary.LittleEndian.PutUint16(buf[offReserved2:], b.file.reserved2)
	binary.LittleEndian.PutUint32(buf[offPixelData:], b.file.pixelData)

	binary.LittleEndian.PutUint32(buf[offInfoSize:], b.info.size)
	binary.LittleEndian.PutUint32(buf[offWidth:], b.info.width)
	binary.LittleEndian.PutUint32(buf[offHeight:], b.info.height)
	binary.LittleEndian.PutUint16(buf[offPlanes:], b.info.planes)
	binary.LittleEndian.PutUint16(buf[offBitCount:], b.info.bitCount)
	binary.LittleEndian.PutUint32(buf[offCompression:], b.info.compression)
	binary.LittleEndian.PutUint32(buf[offImageSize:], b.info.imageSize)
	binary.LittleEndian.PutUint32(buf[offXPelsPerM:], b.info.xPelsPerM)
	binary.LittleEndian.PutUint32(buf[offYPelsPerM:], b.info.yPelsPerM)
	binary.LittleEndian.PutUint32(buf[offClrUsed:], b.info.clrUsed)
	binary.LittleEndian.PutUint32(buf[offClrImportant:], b.info.clrImportant)

	offset := int(b.file.pixelData)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			p := b.pixels[x][y]
			buf[offset] = p.B
			buf[offset+1] = p.G
			buf[offset+2] = p.R
			offset += bytesPerPix
		}
	}

	return buf
}
