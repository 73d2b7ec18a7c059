package emu

const (
	oamEntries     = 40
	spritesPerLine = 10
)

// OAM attribute bits.
const (
	attrPalette     = 0x07 // color hardware palette number
	attrBank        = 0x08 // color hardware VRAM bank
	attrMonoPalette = 0x10
	attrFlipX       = 0x20
	attrFlipY       = 0x40
	attrBehindBg    = 0x80
)

// spriteCandidate is an object selected for the current scanline.
// It covers columns [left, right).
type spriteCandidate struct {
	left     int
	right    int
	pixels   uint16 // unpacked row, leftmost pixel in bits 0-1
	palette  uint8  // object palette number
	priority bool   // drawn over non-zero background pixels
}

// searchSprites fills out with the first 10 objects in OAM order that
// intersect line and returns how many were found. Later objects on a
// full line are dropped, as on hardware.
func searchSprites(out *[spritesPerLine]spriteCandidate, oam *[OAMSize]byte, vram *[VideoMemorySize]byte, line, height int, color bool) int {
	count := 0
	for i := 0; i < oamEntries && count < spritesPerLine; i++ {
		entry := oam[i*4 : i*4+4]
		top := int(entry[0]) - 16
		if line < top || line >= top+height {
			continue
		}

		attr := entry[3]
		s := &out[count]
		s.left = int(entry[1]) - 8
		s.right = int(entry[1])
		s.priority = attr&attrBehindBg == 0
		if color {
			s.palette = attr & attrPalette
		} else {
			s.palette = (attr & attrMonoPalette) >> 4
		}

		row := line - top
		if attr&attrFlipY != 0 {
			row = height - 1 - row
		}

		tile := int(entry[2])
		if height == 16 {
			tile &= 0xFE
		}
		offset := tile*16 + row*2
		if color && attr&attrBank != 0 {
			offset += 0x2000
		}

		s.pixels = unpackTileRow(vram[offset], vram[offset+1], attr&attrFlipX != 0)
		count++
	}
	return count
}
