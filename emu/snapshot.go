package emu

// Display geometry and timing.
const (
	ScreenWidth   = 160
	ScreenHeight  = 144
	BorderWidth   = 256
	BorderHeight  = 224
	ClocksPerLine = 456
)

// Memory sizes as seen by the video hardware.
const (
	VideoMemorySize = 0x4000 // two 8KB banks
	OAMSize         = 0xA0
	PaletteMemSize  = paletteMemorySize
)

// LCDC bits.
const (
	lcdcBackground   = 0x01 // BG enable on monochrome, master priority on color
	lcdcObjects      = 0x02
	lcdcTallObjects  = 0x04
	lcdcBgMapHigh    = 0x08
	lcdcUnsignedData = 0x10
	lcdcWindow       = 0x20
	lcdcWindowMapHi  = 0x40
	lcdcEnable       = 0x80
)

// ScreenMask is a console-level override of the displayed frame.
type ScreenMask uint8

const (
	ScreenMaskNormal ScreenMask = iota
	ScreenMaskFrozen
	ScreenMaskBlack
	ScreenMaskColor
	ScreenMaskWhite
)

func (m ScreenMask) String() string {
	switch m {
	case ScreenMaskNormal:
		return "normal"
	case ScreenMaskFrozen:
		return "frozen"
	case ScreenMaskBlack:
		return "black"
	case ScreenMaskColor:
		return "color"
	case ScreenMaskWhite:
		return "white"
	default:
		return "unknown"
	}
}

// VideoStatusSnapshot is the video state captured at the start of a frame.
// VideoMemory offsets are relative to 0x8000; bank 1 starts at 0x2000.
// PaletteMemory holds 32 background colors followed by 32 object colors,
// each a little-endian 15-bit value.
type VideoStatusSnapshot struct {
	LCDC uint8
	SCX  uint8
	SCY  uint8
	WX   uint8
	WY   uint8
	BGP  uint8
	OBP0 uint8
	OBP1 uint8

	ScreenMask ScreenMask
	MaskColor  uint16 // 15-bit color used by ScreenMaskColor

	VideoMemory           [VideoMemorySize]byte
	ObjectAttributeMemory [OAMSize]byte
	PaletteMemory         [PaletteMemSize]byte
}

// EventTarget identifies what a TimedEvent writes to.
type EventTarget uint8

const (
	TargetDisplayControl EventTarget = iota
	TargetScrollX
	TargetScrollY
	TargetWindowX
	TargetMonoBgPalette
	TargetMonoObjPalette0
	TargetMonoObjPalette1
	TargetPaletteMemoryByte
)

func (t EventTarget) String() string {
	switch t {
	case TargetDisplayControl:
		return "LCDC"
	case TargetScrollX:
		return "SCX"
	case TargetScrollY:
		return "SCY"
	case TargetWindowX:
		return "WX"
	case TargetMonoBgPalette:
		return "BGP"
	case TargetMonoObjPalette0:
		return "OBP0"
	case TargetMonoObjPalette1:
		return "OBP1"
	case TargetPaletteMemoryByte:
		return "PAL"
	default:
		return "?"
	}
}

// TimedEvent is a write performed by the CPU while the frame was being
// displayed. Clock counts from the start of the frame, 456 clocks per line.
// Offset is the palette memory byte for TargetPaletteMemoryByte.
type TimedEvent struct {
	Clock  int
	Target EventTarget
	Offset uint8
	Value  uint8
}

// FrameRecord holds everything needed to composite one frame. Both event
// slices must be sorted by ascending Clock.
type FrameRecord struct {
	Snapshot       VideoStatusSnapshot
	RegisterEvents []TimedEvent
	PaletteEvents  []TimedEvent
}

// Clone returns a deep copy of the record.
func (r *FrameRecord) Clone() *FrameRecord {
	c := &FrameRecord{Snapshot: r.Snapshot}
	if r.RegisterEvents != nil {
		c.RegisterEvents = append([]TimedEvent(nil), r.RegisterEvents...)
	}
	if r.PaletteEvents != nil {
		c.PaletteEvents = append([]TimedEvent(nil), r.PaletteEvents...)
	}
	return c
}

// CopyInto overwrites dst with the contents of r, reusing dst's slices.
func (r *FrameRecord) CopyInto(dst *FrameRecord) {
	dst.Snapshot = r.Snapshot
	dst.RegisterEvents = append(dst.RegisterEvents[:0], r.RegisterEvents...)
	dst.PaletteEvents = append(dst.PaletteEvents[:0], r.PaletteEvents...)
}
