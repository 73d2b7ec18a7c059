package emu

import (
	"encoding/binary"
	"testing"
)

// makeTestRecord creates a frame with the LCD enabled and the given LCDC
// bits, a BGP/OBP mapping of shade i to entry i, and empty event logs.
func makeTestRecord(lcdc uint8) *FrameRecord {
	rec := &FrameRecord{}
	rec.Snapshot.LCDC = lcdcEnable | lcdc
	rec.Snapshot.BGP = 0xE4
	rec.Snapshot.OBP0 = 0xE4
	rec.Snapshot.OBP1 = 0xE4
	rec.Snapshot.WX = 167 // window off screen
	rec.Snapshot.WY = 0
	return rec
}

// setTileRow writes the two bitplane bytes of one tile row. base is the
// tile data offset in VRAM.
func setTileRow(rec *FrameRecord, base, row int, b0, b1 uint8) {
	rec.Snapshot.VideoMemory[base+row*2] = b0
	rec.Snapshot.VideoMemory[base+row*2+1] = b1
}

// fillTile sets every row of a tile to the same bitplanes.
func fillTile(rec *FrameRecord, base int, b0, b1 uint8) {
	for row := 0; row < 8; row++ {
		setTileRow(rec, base, row, b0, b1)
	}
}

// setPaletteColor writes a 15-bit color into palette memory. slot is the
// flat palette number (0-7 background, 8-15 object).
func setPaletteColor(rec *FrameRecord, slot, index int, raw uint16) {
	offset := (slot*4 + index) * 2
	binary.LittleEndian.PutUint16(rec.Snapshot.PaletteMemory[offset:], raw)
}

// setSprite writes one OAM entry.
func setSprite(rec *FrameRecord, n int, y, x, tile, attr uint8) {
	copy(rec.Snapshot.ObjectAttributeMemory[n*4:], []byte{y, x, tile, attr})
}

// renderTest renders rec on a fresh compositor and returns the renderer.
func renderTest(t *testing.T, color bool, format PixelFormat, rec *FrameRecord) *MemoryRenderer {
	t.Helper()
	v := NewVideo(color)
	r := NewMemoryRenderer(format, false)
	if err := v.SetRenderer(r); err != nil {
		t.Fatalf("SetRenderer failed: %v", err)
	}
	if err := v.RenderFrame(rec); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	return r
}

// pixel32 reads a presented 32-bit pixel.
func pixel32(r *MemoryRenderer, x, y int) uint32 {
	return binary.LittleEndian.Uint32(r.Screen()[y*r.Stride()+x*4:])
}

// pixel16 reads a presented RGB565 pixel.
func pixel16(r *MemoryRenderer, x, y int) uint16 {
	return binary.LittleEndian.Uint16(r.Screen()[y*r.Stride()+x*2:])
}

// checkRow compares a run of pixels on one line against expected values.
func checkRow(t *testing.T, r *MemoryRenderer, y, x0 int, expected []uint32) {
	t.Helper()
	for i, want := range expected {
		if got := pixel32(r, x0+i, y); got != want {
			t.Errorf("Pixel (%d, %d): expected 0x%08X, got 0x%08X", x0+i, y, want, got)
		}
	}
}

// checkUniform verifies every visible pixel equals want.
func checkUniform(t *testing.T, r *MemoryRenderer, want uint32) {
	t.Helper()
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if got := pixel32(r, x, y); got != want {
				t.Fatalf("Pixel (%d, %d): expected 0x%08X, got 0x%08X", x, y, want, got)
			}
		}
	}
}
