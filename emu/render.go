package emu

import "encoding/binary"

// hardwareCaps describes how the compositor behaves on a hardware model.
type hardwareCaps struct {
	// tileAttributes enables the color attribute map: per-tile palette,
	// VRAM bank, flips and priority, plus banked 8-color objects.
	tileAttributes bool
	// masterPriority makes LCDC bit 0 a sprite priority switch instead of
	// a background enable.
	masterPriority bool
	// monoRegisters applies BGP/OBP0/OBP1 writes through the shade ramps.
	monoRegisters bool
	// paletteEvents applies palette memory writes between lines.
	paletteEvents bool
}

var (
	monochromeCaps = hardwareCaps{monoRegisters: true}
	colorCaps      = hardwareCaps{tileAttributes: true, masterPriority: true, paletteEvents: true}
)

// Object colors are stored in palette slots 8-15.
const objectIndexBase = objectPaletteBase * colorsPerPalette

// Results of the sprite lookup for one pixel.
const (
	objNone   = 0
	objBehind = 1 // drawn only over background color 0
	objAbove  = 2 // drawn unless the tile claims priority
)

// lineRegisters is the register state in effect for the current line.
type lineRegisters struct {
	lcdc uint8
	scx  int
	scy  int
	wx   int // WX - 7
	wy   int
}

// tileFetch is the tile row currently being shifted out.
type tileFetch struct {
	data     uint16
	palette  uint8 // index of color 0 in the palette store
	priority bool
}

// scanlineEngine composites frames one line at a time. Each line is first
// resolved to palette indices, then written out in the buffer's format.
type scanlineEngine struct {
	caps     hardwareCaps
	palettes *PaletteStore

	regs    lineRegisters
	sprites [spritesPerLine]spriteCandidate
	line    [ScreenWidth]uint8
}

func newScanlineEngine(caps hardwareCaps, palettes *PaletteStore) *scanlineEngine {
	return &scanlineEngine{
		caps:     caps,
		palettes: palettes,
	}
}

// drawFrame composites all 144 lines of rec into fb. Palette memory in
// the snapshot is updated in place as palette events are consumed.
func (e *scanlineEngine) drawFrame(fb FrameBuffer, rec *FrameRecord) {
	snap := &rec.Snapshot

	e.regs = lineRegisters{
		lcdc: snap.LCDC,
		scx:  int(snap.SCX),
		scy:  int(snap.SCY),
		wx:   int(snap.WX) - 7,
		wy:   int(snap.WY),
	}
	if e.caps.monoRegisters {
		e.palettes.SetMonoPalette(snap.BGP, MonoBackground)
		e.palettes.SetMonoPalette(snap.OBP0, MonoObject0)
		e.palettes.SetMonoPalette(snap.OBP1, MonoObject1)
	}

	ri, pi := 0, 0
	for y := 0; y < ScreenHeight; y++ {
		lineClock := y * ClocksPerLine

		// Register writes up to and including the line clock are visible,
		// palette writes only if strictly before it.
		for ri < len(rec.RegisterEvents) && rec.RegisterEvents[ri].Clock <= lineClock {
			e.applyRegister(rec.RegisterEvents[ri])
			ri++
		}
		if e.caps.paletteEvents {
			for pi < len(rec.PaletteEvents) && rec.PaletteEvents[pi].Clock < lineClock {
				ev := rec.PaletteEvents[pi]
				e.palettes.ApplyPaletteByte(snap.PaletteMemory[:], ev.Offset, ev.Value)
				pi++
			}
		}

		e.composeLine(snap, y)
		e.emitLine(fb, y)
	}
}

func (e *scanlineEngine) applyRegister(ev TimedEvent) {
	switch ev.Target {
	case TargetDisplayControl:
		e.regs.lcdc = ev.Value
	case TargetScrollX:
		e.regs.scx = int(ev.Value)
	case TargetScrollY:
		e.regs.scy = int(ev.Value)
	case TargetWindowX:
		e.regs.wx = int(ev.Value) - 7
	case TargetMonoBgPalette:
		if e.caps.monoRegisters {
			e.palettes.SetMonoPalette(ev.Value, MonoBackground)
		}
	case TargetMonoObjPalette0:
		if e.caps.monoRegisters {
			e.palettes.SetMonoPalette(ev.Value, MonoObject0)
		}
	case TargetMonoObjPalette1:
		if e.caps.monoRegisters {
			e.palettes.SetMonoPalette(ev.Value, MonoObject1)
		}
	}
}

// composeLine resolves line y into palette indices in e.line.
func (e *scanlineEngine) composeLine(snap *VideoStatusSnapshot, y int) {
	r := &e.regs
	vram := &snap.VideoMemory

	bgEnabled := r.lcdc&lcdcBackground != 0
	// On color hardware the background is always shown and bit 0 only
	// decides whether tiles may claim priority over objects.
	bgVisible := bgEnabled || e.caps.masterPriority
	master := bgEnabled && e.caps.masterPriority
	forceAbove := e.caps.masterPriority && !bgEnabled

	height := 8
	if r.lcdc&lcdcTallObjects != 0 {
		height = 16
	}
	spriteCount := 0
	if r.lcdc&lcdcObjects != 0 {
		spriteCount = searchSprites(&e.sprites, &snap.ObjectAttributeMemory, vram, y, height, e.caps.tileAttributes)
	}

	signed := r.lcdc&lcdcUnsignedData == 0
	bgMap := 0x1800
	if r.lcdc&lcdcBgMapHigh != 0 {
		bgMap = 0x1C00
	}
	winMap := 0x1800
	if r.lcdc&lcdcWindowMapHi != 0 {
		winMap = 0x1C00
	}

	bgY := r.scy + y
	bgRow := bgMap + ((bgY>>3)&31)*32
	bgLine := bgY & 7
	bgCol := r.scx >> 3

	windowActive := r.lcdc&lcdcWindow != 0 && y >= r.wy
	winRow := winMap + ((y-r.wy)>>3)*32
	winLine := (y - r.wy) & 7
	winCol := 0
	wx := r.wx

	var tile tileFetch
	pixelIndex := r.scx & 7

	for x := 0; x < ScreenWidth; x++ {
		objColor, objDrawn := e.spritePixel(x, spriteCount, forceAbove)

		if windowActive && x >= wx {
			if pixelIndex >= 8 || x == 0 || x == wx {
				tile = e.fetchTile(vram, winRow+winCol, winLine, signed, master)
				winCol++
				if x == 0 && wx < 0 {
					pixelIndex = -wx
					tile.data >>= 2 * pixelIndex
				} else {
					pixelIndex = 0
				}
			}
		} else if bgVisible {
			if pixelIndex >= 8 || x == 0 {
				tile = e.fetchTile(vram, bgRow+bgCol, bgLine, signed, master)
				bgCol = (bgCol + 1) & 31
				if x == 0 && pixelIndex > 0 {
					tile.data >>= 2 * pixelIndex
				} else {
					pixelIndex = 0
				}
			}
		} else {
			// Monochrome with the background off: objects over white
			if objDrawn != objNone {
				e.line[x] = objColor
			} else {
				e.line[x] = blankIndex
			}
			continue
		}

		bgColor := uint8(tile.data & 3)
		if objDrawn != objNone && ((objDrawn == objAbove && !tile.priority) || bgColor == 0) {
			e.line[x] = objColor
		} else {
			e.line[x] = tile.palette + bgColor
		}
		tile.data >>= 2
		pixelIndex++
	}
}

// spritePixel returns the color index of the first object in OAM order
// with an opaque pixel at column x.
func (e *scanlineEngine) spritePixel(x, count int, forceAbove bool) (uint8, int) {
	for i := 0; i < count; i++ {
		s := &e.sprites[i]
		if x < s.left || x >= s.right {
			continue
		}
		c := uint8(s.pixels>>(2*(x-s.left))) & 3
		if c == 0 {
			continue
		}
		drawn := objBehind
		if forceAbove || s.priority {
			drawn = objAbove
		}
		return objectIndexBase + s.palette*colorsPerPalette + c, drawn
	}
	return 0, objNone
}

// fetchTile reads the tile referenced by the map entry at mapOffset and
// unpacks row line of it.
func (e *scanlineEngine) fetchTile(vram *[VideoMemorySize]byte, mapOffset, line int, signed, master bool) tileFetch {
	index := vram[mapOffset]

	var attr uint8
	if e.caps.tileAttributes {
		attr = vram[mapOffset+0x2000]
	}

	if attr&attrFlipY != 0 {
		line = 7 - line
	}

	var offset int
	if signed {
		offset = 0x1000 + int(int8(index))*16
	} else {
		offset = int(index) * 16
	}
	offset += line * 2
	if attr&attrBank != 0 {
		offset += 0x2000
	}

	return tileFetch{
		data:     unpackTileRow(vram[offset], vram[offset+1], attr&attrFlipX != 0),
		palette:  (attr & attrPalette) * colorsPerPalette,
		priority: master && attr&attrBehindBg != 0,
	}
}

// emitLine writes the composed line y into fb.
func (e *scanlineEngine) emitLine(fb FrameBuffer, y int) {
	start := y * fb.Stride
	switch fb.Format {
	case PixelFormat16:
		row := fb.Pix[start : start+ScreenWidth*2]
		for x, index := range e.line {
			binary.LittleEndian.PutUint16(row[x*2:], e.palettes.indexed16(index))
		}
	default:
		row := fb.Pix[start : start+ScreenWidth*4]
		for x, index := range e.line {
			binary.LittleEndian.PutUint32(row[x*4:], e.palettes.indexed32(index))
		}
	}
}

// fillBuffer writes a single color over the visible area.
func fillBuffer(fb FrameBuffer, c32 uint32, c16 uint16) {
	for y := 0; y < ScreenHeight; y++ {
		start := y * fb.Stride
		switch fb.Format {
		case PixelFormat16:
			row := fb.Pix[start : start+ScreenWidth*2]
			for x := 0; x < len(row); x += 2 {
				binary.LittleEndian.PutUint16(row[x:], c16)
			}
		default:
			row := fb.Pix[start : start+ScreenWidth*4]
			for x := 0; x < len(row); x += 4 {
				binary.LittleEndian.PutUint32(row[x:], c32)
			}
		}
	}
}
