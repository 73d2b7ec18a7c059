package emu

import (
	"bytes"
	"testing"
)

const (
	rawRed   uint16 = 0x001F
	rawGreen uint16 = 0x03E0
	rawBlue  uint16 = 0x7C00
	rawGray  uint16 = 0x4210
)

// fillMap writes the same tile index into every entry of a 32x32 map.
func fillMap(rec *FrameRecord, base int, tile uint8) {
	for i := 0; i < 0x400; i++ {
		rec.Snapshot.VideoMemory[base+i] = tile
	}
}

// makeSpriteRecord builds a frame with one 8x8 object whose top-left pixel
// is at screen (0, 16). Its first row unpacks to colors 3 1 2 0 3 1 2 0.
func makeSpriteRecord(lcdc uint8) *FrameRecord {
	rec := makeTestRecord(lcdcBackground | lcdcObjects | lcdcUnsignedData | lcdc)
	setSprite(rec, 0, 16+16, 8, 1, 0)
	setTileRow(rec, 16, 0, 0xCC, 0xAA)

	setPaletteColor(rec, 0, 0, rawGray)
	setPaletteColor(rec, 8, 0, 0x7FFF)
	setPaletteColor(rec, 8, 1, rawRed)
	setPaletteColor(rec, 8, 2, rawGreen)
	setPaletteColor(rec, 8, 3, rawBlue)
	return rec
}

func TestRender_SpriteColor(t *testing.T) {
	r := renderTest(t, true, PixelFormat32, makeSpriteRecord(0))

	bg := LookupColor32(rawGray)
	red, green, blue := LookupColor32(rawRed), LookupColor32(rawGreen), LookupColor32(rawBlue)

	checkRow(t, r, 16, 0, []uint32{blue, red, green, bg, blue, red, green, bg, bg})
	checkRow(t, r, 15, 0, []uint32{bg, bg, bg, bg, bg, bg, bg, bg})
	// Second sprite row is empty, so the background shows through
	checkRow(t, r, 17, 0, []uint32{bg, bg, bg, bg})
}

func TestRender_SpriteMonochrome(t *testing.T) {
	r := renderTest(t, false, PixelFormat32, makeSpriteRecord(0))

	g := grayRamp32
	checkRow(t, r, 16, 0, []uint32{g[3], g[1], g[2], g[0], g[3], g[1], g[2], g[0], g[0]})
}

func TestRender_SpriteMonochrome_ObjectPalette1(t *testing.T) {
	rec := makeSpriteRecord(0)
	setSprite(rec, 0, 16+16, 8, 1, attrMonoPalette)
	rec.Snapshot.OBP1 = 0x00 // every shade white

	r := renderTest(t, false, PixelFormat32, rec)
	checkRow(t, r, 16, 0, []uint32{grayRamp32[0], grayRamp32[0], grayRamp32[0]})
}

func TestRender_SpriteObjectsDisabled(t *testing.T) {
	rec := makeSpriteRecord(0)
	rec.Snapshot.LCDC &^= lcdcObjects

	r := renderTest(t, true, PixelFormat32, rec)
	bg := LookupColor32(rawGray)
	checkRow(t, r, 16, 0, []uint32{bg, bg, bg, bg})
}

func TestRender_SpriteOverlapFirstOpaqueWins(t *testing.T) {
	rec := makeSpriteRecord(0)
	// Entry 1 sits one pixel to the right on the same line using tile 2
	setSprite(rec, 1, 16+16, 9, 2, 0)
	fillTile(rec, 32, 0xFF, 0xFF) // color 3

	r := renderTest(t, true, PixelFormat32, rec)
	red, blue := LookupColor32(rawRed), LookupColor32(rawBlue)
	// Column 3 is transparent in entry 0, so entry 1 shows there
	checkRow(t, r, 16, 0, []uint32{blue, red, LookupColor32(rawGreen), blue, blue, red})
}

func TestRender_PriorityColor(t *testing.T) {
	testCases := []struct {
		name       string
		master     bool
		tileAttr   uint8
		spriteAttr uint8
		bgOpaque   bool
		wantSprite bool
	}{
		{"sprite over opaque bg", true, 0x00, 0x00, true, true},
		{"tile priority hides sprite", true, 0x80, 0x00, true, false},
		{"tile priority over bg color 0", true, 0x80, 0x00, false, true},
		{"master off ignores tile priority", false, 0x80, 0x00, true, true},
		{"sprite behind opaque bg", true, 0x00, 0x80, true, false},
		{"sprite behind bg color 0", true, 0x00, 0x80, false, true},
		{"master off ignores sprite priority", false, 0x00, 0x80, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lcdc := uint8(lcdcObjects | lcdcUnsignedData)
			if tc.master {
				lcdc |= lcdcBackground
			}
			rec := makeTestRecord(lcdc)
			for i := 0; i < 0x400; i++ {
				rec.Snapshot.VideoMemory[0x3800+i] = tc.tileAttr
			}
			if tc.bgOpaque {
				fillTile(rec, 0, 0xFF, 0x00)
			}
			setSprite(rec, 0, 16, 8, 1, tc.spriteAttr)
			fillTile(rec, 16, 0xFF, 0x00)

			setPaletteColor(rec, 0, 0, rawBlue)
			setPaletteColor(rec, 0, 1, rawGreen)
			setPaletteColor(rec, 8, 1, rawRed)

			r := renderTest(t, true, PixelFormat32, rec)

			want := LookupColor32(rawRed)
			if !tc.wantSprite {
				want = LookupColor32(rawGreen)
			}
			if got := pixel32(r, 0, 0); got != want {
				t.Errorf("Pixel (0, 0): expected 0x%08X, got 0x%08X", want, got)
			}
		})
	}
}

func TestRender_PriorityMonochrome(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcObjects | lcdcUnsignedData)
	// Left half of the background tile is color 2, right half color 0
	fillTile(rec, 0, 0x00, 0xF0)
	setSprite(rec, 0, 16, 8, 1, attrBehindBg)
	fillTile(rec, 16, 0xFF, 0xFF)

	r := renderTest(t, false, PixelFormat32, rec)
	g := grayRamp32
	checkRow(t, r, 0, 0, []uint32{g[2], g[2], g[2], g[2], g[3], g[3], g[3], g[3]})
}

func TestRender_BackgroundScrollX(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	fillMap(rec, 0x1800, 1)
	fillTile(rec, 16, 0x10, 0x00) // pixel 3 is color 1
	rec.Snapshot.SCX = 3

	r := renderTest(t, false, PixelFormat32, rec)
	g := grayRamp32
	checkRow(t, r, 0, 0, []uint32{g[1], g[0], g[0], g[0], g[0], g[0], g[0], g[0], g[1], g[0]})
}

func TestRender_BackgroundWrap(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	fillTile(rec, 32, 0xFF, 0x00)
	rec.Snapshot.VideoMemory[0x1800] = 2 // row 0, column 0

	t.Run("horizontal", func(t *testing.T) {
		rec := rec.Clone()
		rec.Snapshot.SCX = 248 // starts at column 31

		r := renderTest(t, false, PixelFormat32, rec)
		g := grayRamp32
		checkRow(t, r, 0, 6, []uint32{g[0], g[0], g[1], g[1], g[1], g[1], g[1], g[1], g[1], g[1], g[0]})
	})

	t.Run("vertical", func(t *testing.T) {
		rec := rec.Clone()
		rec.Snapshot.SCY = 250 // line 6 is map row 0

		r := renderTest(t, false, PixelFormat32, rec)
		if got := pixel32(r, 0, 5); got != grayRamp32[0] {
			t.Errorf("Line 5: expected 0x%08X, got 0x%08X", grayRamp32[0], got)
		}
		if got := pixel32(r, 0, 6); got != grayRamp32[1] {
			t.Errorf("Line 6: expected 0x%08X, got 0x%08X", grayRamp32[1], got)
		}
		if got := pixel32(r, 0, 14); got != grayRamp32[0] {
			t.Errorf("Line 14: expected 0x%08X, got 0x%08X", grayRamp32[0], got)
		}
	})
}

func TestRender_SignedTileAddressing(t *testing.T) {
	rec := makeTestRecord(lcdcBackground)
	fillMap(rec, 0x1800, 1)
	fillTile(rec, 0x1010, 0xFF, 0x00) // signed tile 1
	fillTile(rec, 0x0010, 0x00, 0xFF) // unsigned tile 1

	r := renderTest(t, false, PixelFormat32, rec)
	checkUniform(t, r, grayRamp32[1])
}

func TestRender_SignedTileAddressing_Negative(t *testing.T) {
	rec := makeTestRecord(lcdcBackground)
	fillMap(rec, 0x1800, 0xFF) // -1 -> 0x0FF0
	fillTile(rec, 0x0FF0, 0xFF, 0xFF)

	r := renderTest(t, false, PixelFormat32, rec)
	checkUniform(t, r, grayRamp32[3])
}

func TestRender_UnsignedTileAddressing(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	fillMap(rec, 0x1800, 1)
	fillTile(rec, 0x1010, 0xFF, 0x00)
	fillTile(rec, 0x0010, 0x00, 0xFF)

	r := renderTest(t, false, PixelFormat32, rec)
	checkUniform(t, r, grayRamp32[2])
}

func TestRender_ColorTileAttributes(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	// Palette 3, bank 1, horizontal flip
	for i := 0; i < 0x400; i++ {
		rec.Snapshot.VideoMemory[0x3800+i] = 0x03 | attrBank | attrFlipX
	}
	fillTile(rec, 0x2000, 0x80, 0x00)
	fillTile(rec, 0x0000, 0xFF, 0xFF) // bank 0 must not be used
	setPaletteColor(rec, 3, 0, rawBlue)
	setPaletteColor(rec, 3, 1, rawRed)

	r := renderTest(t, true, PixelFormat32, rec)
	b, red := LookupColor32(rawBlue), LookupColor32(rawRed)
	checkRow(t, r, 0, 0, []uint32{b, b, b, b, b, b, b, red, b})
}

func TestRender_ColorTileFlipY(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	for i := 0; i < 0x400; i++ {
		rec.Snapshot.VideoMemory[0x3800+i] = attrFlipY
	}
	setTileRow(rec, 0, 0, 0xFF, 0x00)
	setPaletteColor(rec, 0, 1, rawRed)

	r := renderTest(t, true, PixelFormat32, rec)
	if got := pixel32(r, 0, 7); got != LookupColor32(rawRed) {
		t.Errorf("Line 7: expected flipped row 0, got 0x%08X", got)
	}
	if got := pixel32(r, 0, 0); got != LookupColor32(0) {
		t.Errorf("Line 0: expected color 0, got 0x%08X", got)
	}
}

// makeWindowRecord builds a frame whose background is color 0 and whose
// window (map 0x1C00) is color 1 everywhere.
func makeWindowRecord(wx, wy uint8) *FrameRecord {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData | lcdcWindow | lcdcWindowMapHi)
	fillMap(rec, 0x1C00, 1)
	fillTile(rec, 16, 0xFF, 0x00)
	rec.Snapshot.WX = wx
	rec.Snapshot.WY = wy
	rec.Snapshot.SCX = 13
	rec.Snapshot.SCY = 7
	return rec
}

func TestRender_WindowFullScreen(t *testing.T) {
	r := renderTest(t, false, PixelFormat32, makeWindowRecord(7, 0))
	checkUniform(t, r, grayRamp32[1])
}

func TestRender_WindowStartLine(t *testing.T) {
	r := renderTest(t, false, PixelFormat32, makeWindowRecord(7, 72))

	for _, y := range []int{0, 71} {
		if got := pixel32(r, 40, y); got != grayRamp32[0] {
			t.Errorf("Line %d: expected background, got 0x%08X", y, got)
		}
	}
	for _, y := range []int{72, 143} {
		if got := pixel32(r, 40, y); got != grayRamp32[1] {
			t.Errorf("Line %d: expected window, got 0x%08X", y, got)
		}
	}
}

func TestRender_WindowStartColumn(t *testing.T) {
	r := renderTest(t, false, PixelFormat32, makeWindowRecord(7+80, 0))
	g := grayRamp32
	checkRow(t, r, 50, 78, []uint32{g[0], g[0], g[1], g[1], g[1]})
	checkRow(t, r, 50, 152, []uint32{g[1], g[1], g[1], g[1], g[1], g[1], g[1], g[1]})
}

func TestRender_WindowNegativeX(t *testing.T) {
	rec := makeWindowRecord(3, 0) // starts 4 pixels left of the screen
	fillTile(rec, 16, 0x0F, 0x00)

	r := renderTest(t, false, PixelFormat32, rec)
	g := grayRamp32
	checkRow(t, r, 0, 0, []uint32{g[1], g[1], g[1], g[1], g[0], g[0], g[0], g[0], g[1], g[1], g[1], g[1], g[0]})
}

func TestRender_WindowDisabled(t *testing.T) {
	rec := makeWindowRecord(7, 0)
	rec.Snapshot.LCDC &^= lcdcWindow

	r := renderTest(t, false, PixelFormat32, rec)
	checkUniform(t, r, grayRamp32[0])
}

func TestRender_MonochromeBackgroundOffKeepsWindow(t *testing.T) {
	rec := makeWindowRecord(7+80, 0)
	rec.Snapshot.LCDC &^= lcdcBackground
	rec.Snapshot.BGP = 0x1B // color 0 -> black, color 1 -> dark gray

	r := renderTest(t, false, PixelFormat32, rec)
	g := grayRamp32
	checkRow(t, r, 10, 78, []uint32{g[0], g[0], g[2], g[2]})
}

func TestRender_AllLayersOff(t *testing.T) {
	t.Run("color", func(t *testing.T) {
		rec := makeSpriteRecord(0)
		rec.Snapshot.LCDC = lcdcEnable
		setPaletteColor(rec, 0, 0, rawGreen)

		r := renderTest(t, true, PixelFormat32, rec)
		checkUniform(t, r, LookupColor32(rawGreen))
	})

	t.Run("monochrome", func(t *testing.T) {
		rec := makeSpriteRecord(0)
		rec.Snapshot.LCDC = lcdcEnable
		rec.Snapshot.BGP = 0xFF
		fillTile(rec, 0x1000, 0xFF, 0xFF)

		r := renderTest(t, false, PixelFormat32, rec)
		checkUniform(t, r, grayRamp32[0])
	})
}

func TestRender_PaletteEventTiming(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	rec.PaletteEvents = []TimedEvent{
		{Clock: 10 * ClocksPerLine, Target: TargetPaletteMemoryByte, Offset: 0, Value: 0x1F},
		{Clock: 20*ClocksPerLine + 1, Target: TargetPaletteMemoryByte, Offset: 1, Value: 0x7C},
	}

	r := renderTest(t, true, PixelFormat32, rec)

	black := LookupColor32(0)
	red := LookupColor32(0x001F)
	magenta := LookupColor32(0x7C1F)

	testCases := []struct {
		line int
		want uint32
	}{
		{0, black},
		{10, black}, // event clock equals the line clock
		{11, red},
		{20, red},
		{21, magenta},
		{143, magenta},
	}
	for _, tc := range testCases {
		if got := pixel32(r, 100, tc.line); got != tc.want {
			t.Errorf("Line %d: expected 0x%08X, got 0x%08X", tc.line, tc.want, got)
		}
	}

	if rec.Snapshot.PaletteMemory[0] != 0x1F || rec.Snapshot.PaletteMemory[1] != 0x7C {
		t.Errorf("Palette memory: expected events applied, got %02X %02X",
			rec.Snapshot.PaletteMemory[0], rec.Snapshot.PaletteMemory[1])
	}
}

func TestRender_PaletteEventsIgnoredOnMonochrome(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	rec.PaletteEvents = []TimedEvent{
		{Clock: 0, Target: TargetPaletteMemoryByte, Offset: 0, Value: 0x1F},
	}

	r := renderTest(t, false, PixelFormat32, rec)
	checkUniform(t, r, grayRamp32[0])
}

func TestRender_RegisterEventTiming(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	rec.RegisterEvents = []TimedEvent{
		{Clock: 10 * ClocksPerLine, Target: TargetMonoBgPalette, Value: 0xFF},
		{Clock: 30*ClocksPerLine + 1, Target: TargetMonoBgPalette, Value: 0xE4},
	}

	r := renderTest(t, false, PixelFormat32, rec)

	testCases := []struct {
		line int
		want uint32
	}{
		{9, grayRamp32[0]},
		{10, grayRamp32[3]}, // event clock equals the line clock
		{30, grayRamp32[3]},
		{31, grayRamp32[0]},
	}
	for _, tc := range testCases {
		if got := pixel32(r, 0, tc.line); got != tc.want {
			t.Errorf("Line %d: expected 0x%08X, got 0x%08X", tc.line, tc.want, got)
		}
	}
}

func TestRender_ScrollEventMidFrame(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	fillMap(rec, 0x1800, 1)
	fillTile(rec, 16, 0x80, 0x00) // pixel 0 of every tile is color 1
	rec.RegisterEvents = []TimedEvent{
		{Clock: 50*ClocksPerLine - 100, Target: TargetScrollX, Value: 1},
		{Clock: 60 * ClocksPerLine, Target: TargetDisplayControl, Value: lcdcEnable},
	}

	r := renderTest(t, false, PixelFormat32, rec)
	g := grayRamp32
	checkRow(t, r, 49, 0, []uint32{g[1], g[0], g[0], g[0], g[0], g[0], g[0], g[0], g[1]})
	checkRow(t, r, 50, 0, []uint32{g[0], g[0], g[0], g[0], g[0], g[0], g[0], g[1], g[0]})
	// Background disabled from line 60 on
	checkRow(t, r, 60, 0, []uint32{g[0], g[0], g[0], g[0], g[0], g[0], g[0], g[0]})
}

func TestRender_Deterministic(t *testing.T) {
	rec := makeWindowRecord(7+40, 20)
	setSprite(rec, 0, 40, 40, 1, 0)
	setSprite(rec, 1, 60, 100, 1, attrFlipX|attrFlipY)

	v := NewVideo(true)
	r := NewMemoryRenderer(PixelFormat32, false)
	if err := v.SetRenderer(r); err != nil {
		t.Fatalf("SetRenderer failed: %v", err)
	}

	if err := v.RenderFrame(rec.Clone()); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	first := append([]byte(nil), r.Screen()...)

	if err := v.RenderFrame(rec.Clone()); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	if !bytes.Equal(first, r.Screen()) {
		t.Error("Rendering the same frame twice produced different output")
	}
}

func TestRender_Format16MatchesFormat32(t *testing.T) {
	rec := makeWindowRecord(7+40, 20)
	setSprite(rec, 0, 40, 40, 1, 0)
	setPaletteColor(rec, 0, 0, rawGray)
	setPaletteColor(rec, 0, 1, 0x1234)
	setPaletteColor(rec, 8, 1, 0x5A5A)

	r32 := renderTest(t, true, PixelFormat32, rec.Clone())
	r16 := renderTest(t, true, PixelFormat16, rec.Clone())

	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			p := pixel32(r32, x, y)
			want := rgbTo16(uint8(p), uint8(p>>8), uint8(p>>16))
			if got := pixel16(r16, x, y); got != want {
				t.Fatalf("Pixel (%d, %d): expected 0x%04X, got 0x%04X", x, y, want, got)
			}
		}
	}
}

func TestRender_Format16Sprite(t *testing.T) {
	r := renderTest(t, true, PixelFormat16, makeSpriteRecord(0))

	if got := pixel16(r, 0, 16); got != LookupColor16(rawBlue) {
		t.Errorf("Pixel (0, 16): expected 0x%04X, got 0x%04X", LookupColor16(rawBlue), got)
	}
	if got := pixel16(r, 3, 16); got != LookupColor16(rawGray) {
		t.Errorf("Pixel (3, 16): expected 0x%04X, got 0x%04X", LookupColor16(rawGray), got)
	}
}

func TestRender_StrideRespected(t *testing.T) {
	rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
	rec.Snapshot.BGP = 0xFF

	stride := ScreenWidth*4 + 64
	fb := FrameBuffer{Pix: make([]byte, stride*ScreenHeight), Stride: stride, Format: PixelFormat32}
	e := newScanlineEngine(monochromeCaps, NewPaletteStore())
	e.drawFrame(fb, rec)

	for y := 0; y < ScreenHeight; y++ {
		pad := fb.Pix[y*stride+ScreenWidth*4 : (y+1)*stride]
		for _, b := range pad {
			if b != 0 {
				t.Fatalf("Line %d: padding bytes were written", y)
			}
		}
		if fb.Pix[y*stride] != 0x00 || fb.Pix[y*stride+3] != 0xFF {
			t.Fatalf("Line %d: expected opaque black first pixel", y)
		}
	}
}

// pixelCheck is an expected presented pixel.
type pixelCheck struct {
	x, y int
	want uint32
}

// makeTwoSpriteRecord places the object of makeSpriteRecord on line 16
// and a copy of it on line 100, both with the given attributes.
func makeTwoSpriteRecord(attr uint8) *FrameRecord {
	rec := makeSpriteRecord(0)
	setSprite(rec, 0, 16+16, 8, 1, attr)
	setSprite(rec, 1, 100+16, 8, 1, attr)
	return rec
}

func TestRender_RegisterEventTargets(t *testing.T) {
	g := grayRamp32

	testCases := []struct {
		name   string
		color  bool
		rec    func() *FrameRecord
		checks []pixelCheck
	}{
		{
			name: "scroll y",
			rec: func() *FrameRecord {
				rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
				setTileRow(rec, 0, 0, 0xFF, 0xFF) // row 0 of every tile is color 3
				rec.RegisterEvents = []TimedEvent{{Clock: 40 * ClocksPerLine, Target: TargetScrollY, Value: 1}}
				return rec
			},
			checks: []pixelCheck{{0, 32, g[3]}, {0, 39, g[0]}, {0, 40, g[0]}, {0, 47, g[3]}},
		},
		{
			name: "window x",
			rec: func() *FrameRecord {
				rec := makeWindowRecord(167, 0)
				rec.RegisterEvents = []TimedEvent{{Clock: 20 * ClocksPerLine, Target: TargetWindowX, Value: 7 + 80}}
				return rec
			},
			checks: []pixelCheck{{100, 19, g[0]}, {79, 20, g[0]}, {80, 20, g[1]}, {159, 143, g[1]}},
		},
		{
			name: "object palette 0",
			rec: func() *FrameRecord {
				rec := makeTwoSpriteRecord(0)
				rec.RegisterEvents = []TimedEvent{{Clock: 50 * ClocksPerLine, Target: TargetMonoObjPalette0, Value: 0x1B}}
				return rec
			},
			checks: []pixelCheck{{1, 16, g[1]}, {2, 16, g[2]}, {1, 100, g[2]}, {2, 100, g[1]}},
		},
		{
			name: "object palette 1",
			rec: func() *FrameRecord {
				rec := makeTwoSpriteRecord(attrMonoPalette)
				rec.RegisterEvents = []TimedEvent{
					{Clock: 50 * ClocksPerLine, Target: TargetMonoObjPalette0, Value: 0x00},
					{Clock: 50 * ClocksPerLine, Target: TargetMonoObjPalette1, Value: 0x1B},
				}
				return rec
			},
			checks: []pixelCheck{{1, 16, g[1]}, {2, 16, g[2]}, {1, 100, g[2]}, {2, 100, g[1]}},
		},
		{
			name: "background map select",
			rec: func() *FrameRecord {
				rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
				fillMap(rec, 0x1C00, 1)
				fillTile(rec, 16, 0xFF, 0x00)
				rec.RegisterEvents = []TimedEvent{{
					Clock:  72 * ClocksPerLine,
					Target: TargetDisplayControl,
					Value:  lcdcEnable | lcdcBackground | lcdcUnsignedData | lcdcBgMapHigh,
				}}
				return rec
			},
			checks: []pixelCheck{{0, 71, g[0]}, {0, 72, g[1]}, {159, 143, g[1]}},
		},
		{
			name:  "monochrome palettes ignored on color hardware",
			color: true,
			rec: func() *FrameRecord {
				rec := makeTestRecord(lcdcBackground | lcdcUnsignedData)
				setPaletteColor(rec, 0, 0, rawRed)
				rec.RegisterEvents = []TimedEvent{
					{Clock: 0, Target: TargetMonoBgPalette, Value: 0xFF},
					{Clock: 0, Target: TargetMonoObjPalette0, Value: 0xFF},
					{Clock: 0, Target: TargetMonoObjPalette1, Value: 0xFF},
				}
				return rec
			},
			checks: []pixelCheck{{0, 0, LookupColor32(rawRed)}, {159, 143, LookupColor32(rawRed)}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := renderTest(t, tc.color, PixelFormat32, tc.rec())
			for _, c := range tc.checks {
				if got := pixel32(r, c.x, c.y); got != c.want {
					t.Errorf("Pixel (%d, %d): expected 0x%08X, got 0x%08X", c.x, c.y, c.want, got)
				}
			}
		})
	}
}

func TestRender_BackgroundMapSelect(t *testing.T) {
	for _, color := range []bool{false, true} {
		rec := makeTestRecord(lcdcBackground | lcdcUnsignedData | lcdcBgMapHigh)
		fillMap(rec, 0x1C00, 1)
		fillTile(rec, 16, 0xFF, 0x00)
		setPaletteColor(rec, 0, 1, rawRed)

		want := grayRamp32[1]
		if color {
			want = LookupColor32(rawRed)
		}
		checkUniform(t, renderTest(t, color, PixelFormat32, rec), want)
	}
}

func TestRender_TallSprite(t *testing.T) {
	g := grayRamp32

	testCases := []struct {
		name   string
		attr   uint8
		top    uint32 // line 16, first object row
		bottom uint32 // line 31, last object row
	}{
		{"upright", 0, g[1], g[2]},
		{"flip y", attrFlipY, g[2], g[1]},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := makeTestRecord(lcdcBackground | lcdcObjects | lcdcTallObjects | lcdcUnsignedData)
			// Odd tile index; the pair is tiles 2 (top) and 3 (bottom)
			setSprite(rec, 0, 16+16, 8, 3, tc.attr)
			setTileRow(rec, 2*16, 0, 0xFF, 0x00) // top row color 1
			setTileRow(rec, 3*16, 7, 0x00, 0xFF) // bottom row color 2

			r := renderTest(t, false, PixelFormat32, rec)
			checks := []pixelCheck{
				{0, 15, g[0]},
				{0, 16, tc.top},
				{7, 16, tc.top},
				{0, 31, tc.bottom},
				{7, 31, tc.bottom},
				{0, 32, g[0]},
			}
			for _, c := range checks {
				if got := pixel32(r, c.x, c.y); got != c.want {
					t.Errorf("Pixel (%d, %d): expected 0x%08X, got 0x%08X", c.x, c.y, c.want, got)
				}
			}
		})
	}
}
