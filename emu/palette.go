package emu

import "encoding/binary"

// MonoTarget selects which monochrome palette register a value decodes into.
type MonoTarget int

const (
	MonoBackground MonoTarget = iota // BGP, palette slot 0
	MonoObject0                      // OBP0, palette slot 8
	MonoObject1                      // OBP1, palette slot 9
)

// Palette layout: slots 0-7 are background palettes, 8-15 object palettes.
const (
	paletteCount       = 16
	objectPaletteBase  = 8
	colorsPerPalette   = 4
	paletteMemorySize  = 0x80
	paletteMemoryColor = paletteMemorySize / 2
)

// blankIndex addresses the fixed blank color (gray ramp entry 0) in a
// composed scanline. All other indices are slot*4 + color.
const blankIndex uint8 = 0xFF

var monoSlots = [3]int{0, objectPaletteBase, objectPaletteBase + 1}

// PaletteStore holds the display-ready colors used while compositing.
// Both pixel widths are kept in sync so either output format can be
// produced without conversion.
type PaletteStore struct {
	colors32 [paletteCount][colorsPerPalette]uint32
	colors16 [paletteCount][colorsPerPalette]uint16

	// Monochrome shade ramps for BGP, OBP0 and OBP1
	ramps32 [3][colorsPerPalette]uint32
	ramps16 [3][colorsPerPalette]uint16
}

// NewPaletteStore creates a palette store with gray ramps.
func NewPaletteStore() *PaletteStore {
	p := &PaletteStore{}
	p.ResetRamps()
	return p
}

// SetColorPalette converts a 15-bit color and stores it at (bank, index).
// bank is the flat slot number 0-15.
func (p *PaletteStore) SetColorPalette(bank, index int, raw uint16) {
	p.colors32[bank][index] = LookupColor32(raw)
	p.colors16[bank][index] = LookupColor16(raw)
}

// SetMonoPalette decodes a 2-bit-per-entry palette register against the
// ramp of target and stores the four colors in the target's slot.
func (p *PaletteStore) SetMonoPalette(value uint8, target MonoTarget) {
	slot := monoSlots[target]
	for i := 0; i < colorsPerPalette; i++ {
		shade := value & 3
		p.colors32[slot][i] = p.ramps32[target][shade]
		p.colors16[slot][i] = p.ramps16[target][shade]
		value >>= 2
	}
}

// Fill converts all 64 colors of raw palette memory.
func (p *PaletteStore) Fill(paletteMemory []byte) {
	for i := 0; i < paletteMemoryColor; i++ {
		raw := binary.LittleEndian.Uint16(paletteMemory[i*2:])
		p.SetColorPalette(i/colorsPerPalette, i%colorsPerPalette, raw)
	}
}

// ApplyPaletteByte writes one byte into palette memory and refreshes the
// color containing it.
func (p *PaletteStore) ApplyPaletteByte(paletteMemory []byte, offset, value uint8) {
	offset &= paletteMemorySize - 1
	paletteMemory[offset] = value
	color := int(offset) / 2
	raw := binary.LittleEndian.Uint16(paletteMemory[color*2:])
	p.SetColorPalette(color/colorsPerPalette, color%colorsPerPalette, raw)
}

// ResetRamps restores the gray shade ramps.
func (p *PaletteStore) ResetRamps() {
	for i := range p.ramps32 {
		p.ramps32[i] = grayRamp32
		p.ramps16[i] = grayRamp16
	}
}

// LoadRamps replaces the shade ramps with colors from palette memory:
// background palette 0 and object palettes 0 and 1.
func (p *PaletteStore) LoadRamps(paletteMemory []byte) {
	p.Fill(paletteMemory)
	for target, slot := range monoSlots {
		p.ramps32[target] = p.colors32[slot]
		p.ramps16[target] = p.colors16[slot]
	}
}

// Color32 returns the 32-bit color at (bank, index).
func (p *PaletteStore) Color32(bank, index int) uint32 {
	return p.colors32[bank][index]
}

// Color16 returns the RGB565 color at (bank, index).
func (p *PaletteStore) Color16(bank, index int) uint16 {
	return p.colors16[bank][index]
}

func (p *PaletteStore) indexed32(i uint8) uint32 {
	if i == blankIndex {
		return grayRamp32[0]
	}
	return p.colors32[i>>2][i&3]
}

func (p *PaletteStore) indexed16(i uint8) uint16 {
	if i == blankIndex {
		return grayRamp16[0]
	}
	return p.colors16[i>>2][i&3]
}
