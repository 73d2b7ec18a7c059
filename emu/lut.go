package emu

// PixelFormat selects the layout of pixels written into a FrameBuffer.
type PixelFormat int

const (
	// PixelFormat32 stores each pixel as 4 bytes in R, G, B, A order,
	// the same layout as image.RGBA.
	PixelFormat32 PixelFormat = iota
	// PixelFormat16 stores each pixel as a little-endian RGB565 word.
	PixelFormat16
)

// BytesPerPixel returns the pixel size for the format.
func (f PixelFormat) BytesPerPixel() int {
	if f == PixelFormat16 {
		return 2
	}
	return 4
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormat32:
		return "rgba32"
	case PixelFormat16:
		return "rgb565"
	default:
		return "unknown"
	}
}

// Opaque black and white in both formats.
const (
	black32 uint32 = 0xFF000000
	white32 uint32 = 0xFFFFFFFF
	black16 uint16 = 0x0000
	white16 uint16 = 0xFFFF
)

// grayRamp32 is the fixed four shade palette of monochrome hardware,
// lightest first.
var grayRamp32 = [4]uint32{
	rgbTo32(0xFF, 0xFF, 0xFF),
	rgbTo32(0xAA, 0xAA, 0xAA),
	rgbTo32(0x55, 0x55, 0x55),
	rgbTo32(0x00, 0x00, 0x00),
}

var grayRamp16 = [4]uint16{
	rgbTo16(0xFF, 0xFF, 0xFF),
	rgbTo16(0xAA, 0xAA, 0xAA),
	rgbTo16(0x55, 0x55, 0x55),
	rgbTo16(0x00, 0x00, 0x00),
}

func rgbTo32(r, g, b uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | 0xFF000000
}

func rgbTo16(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// colorTable32 and colorTable16 translate 15-bit BGR555 colors
// (red in bits 0-4, green 5-9, blue 10-14) into display pixels.
var colorTable32, colorTable16 = func() ([0x8000]uint32, [0x8000]uint16) {
	var t32 [0x8000]uint32
	var t16 [0x8000]uint16

	for c := 0; c < 0x8000; c++ {
		r := uint8(c & 0x1F)
		g := uint8((c >> 5) & 0x1F)
		b := uint8((c >> 10) & 0x1F)

		// 5-bit channels expand to 8 bits by repeating the high bits
		t32[c] = rgbTo32(r<<3|r>>2, g<<3|g>>2, b<<3|b>>2)
		t16[c] = uint16(r)<<11 | uint16(g<<1|g>>4)<<5 | uint16(b)
	}

	return t32, t16
}()

// LookupColor32 returns the 32-bit display pixel for a 15-bit color.
func LookupColor32(raw uint16) uint32 {
	return colorTable32[raw&0x7FFF]
}

// LookupColor16 returns the RGB565 display pixel for a 15-bit color.
func LookupColor16(raw uint16) uint16 {
	return colorTable16[raw&0x7FFF]
}

// tileRowTable unpacks the two bitplane bytes of one tile row, indexed as
// b0 | b1<<8, into eight 2-bit color indices. The leftmost pixel lands in
// bits 0-1 so a row can be consumed by shifting right two bits per pixel.
// flippedTileRowTable produces the horizontally mirrored row.
var tileRowTable, flippedTileRowTable = func() ([0x10000]uint16, [0x10000]uint16) {
	var normal, flipped [0x10000]uint16

	for v := 0; v < 0x10000; v++ {
		b0 := uint16(v & 0xFF)
		b1 := uint16(v >> 8)
		var n, f uint16
		for k := 0; k < 8; k++ {
			// Bit 7 of each plane is the leftmost pixel
			bit := uint(7 - k)
			c := (b0>>bit)&1 | ((b1>>bit)&1)<<1
			n |= c << (2 * k)
			f |= c << (2 * (7 - k))
		}
		normal[v] = n
		flipped[v] = f
	}

	return normal, flipped
}()

// unpackTileRow returns the unpacked pixel row for a pair of bitplane bytes.
func unpackTileRow(b0, b1 uint8, flip bool) uint16 {
	index := uint16(b0) | uint16(b1)<<8
	if flip {
		return flippedTileRowTable[index]
	}
	return tileRowTable[index]
}
