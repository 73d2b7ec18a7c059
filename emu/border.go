package emu

import "encoding/binary"

// Border data sizes.
const (
	BorderMapWords      = 0x440  // 32x32 tile entries followed by 64 colors
	BorderCharacterSize = 0x2000 // 256 tiles of 4bpp planar data
	borderColorBase     = 0x400
	borderPaletteFirst  = 4
	borderColumns       = BorderWidth / 8
)

// BorderData is the tile map and character set of a console border.
// Map words 0x400-0x43F hold the 15-bit colors of border palettes 4-7.
type BorderData struct {
	Map        [BorderMapWords]uint16
	Characters [BorderCharacterSize]byte
}

// borderPalettes converts the four border palettes. Entries of
// palettes 0-3 stay zero and draw as transparent.
func (b *BorderData) borderPalettes() ([8][16]uint32, [8][16]uint16) {
	var p32 [8][16]uint32
	var p16 [8][16]uint16
	for i := 0; i < 0x40; i++ {
		raw := b.Map[borderColorBase+i]
		p32[borderPaletteFirst+i/16][i%16] = LookupColor32(raw)
		p16[borderPaletteFirst+i/16][i%16] = LookupColor16(raw)
	}
	return p32, p16
}

// drawBorder decodes the border into fb. Color 0 of every tile is written
// as a fully transparent pixel so the screen shows through. In 16-bit
// buffers transparency is recorded in fb.Alpha.
func drawBorder(fb FrameBuffer, b *BorderData) {
	p32, p16 := b.borderPalettes()
	bpp := fb.Format.BytesPerPixel()

	for y := 0; y < BorderHeight; y++ {
		start := y * fb.Stride
		row := fb.Pix[start : start+BorderWidth*bpp]
		var alpha []byte
		if fb.Alpha != nil {
			alpha = fb.Alpha[y*BorderWidth : (y+1)*BorderWidth]
		}
		mapRow := (y >> 3) * 32
		rowOffset := (y & 7) * 2

		for col := 0; col < borderColumns; col++ {
			info := b.Map[mapRow+col]
			offset := rowOffset
			if info&0x8000 != 0 {
				offset = 0xE - rowOffset
			}
			offset += int(info&0xFF) * 32
			pal := (info >> 10) & 7
			flipX := info&0x4000 != 0

			p0 := b.Characters[offset]
			p1 := b.Characters[offset+1]
			p2 := b.Characters[offset+16]
			p3 := b.Characters[offset+17]

			for k := 0; k < 8; k++ {
				bit := uint(7 - k)
				if flipX {
					bit = uint(k)
				}
				c := (p0>>bit)&1 | ((p1>>bit)&1)<<1 | ((p2>>bit)&1)<<2 | ((p3>>bit)&1)<<3

				px := (col*8 + k) * bpp
				if alpha != nil {
					alpha[col*8+k] = 0
					if c != 0 {
						alpha[col*8+k] = 0xFF
					}
				}
				if fb.Format == PixelFormat16 {
					var v uint16
					if c != 0 {
						v = p16[pal][c]
					}
					binary.LittleEndian.PutUint16(row[px:], v)
				} else {
					var v uint32
					if c != 0 {
						v = p32[pal][c]
					}
					binary.LittleEndian.PutUint32(row[px:], v)
				}
			}
		}
	}
}
