package emu

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Video drives frame compositing for one emulated machine and hands the
// results to a VideoRenderer. It is not safe for concurrent use, except
// for IsRendering.
type Video struct {
	renderer VideoRenderer
	palettes *PaletteStore
	engine   *scanlineEngine
	color    bool

	// Set when the monochrome shade ramps must be reloaded from palette
	// memory, e.g. after an external colorizer changed them.
	rampsDirty bool

	border *BorderData

	observers    []observerEntry
	nextObserver ObserverID
	event        FrameEvent

	rendering atomic.Bool
}

// NewVideo creates a compositor for color or monochrome hardware.
func NewVideo(color bool) *Video {
	v := &Video{palettes: NewPaletteStore()}
	v.SetColorMode(color)
	return v
}

// SetColorMode switches between color and monochrome compositing.
func (v *Video) SetColorMode(color bool) {
	v.color = color
	caps := monochromeCaps
	if color {
		caps = colorCaps
	}
	v.engine = newScanlineEngine(caps, v.palettes)
}

// ColorMode reports whether color compositing is active.
func (v *Video) ColorMode() bool {
	return v.color
}

// Palettes returns the palette store used for compositing.
func (v *Video) Palettes() *PaletteStore {
	return v.palettes
}

// Renderer returns the attached renderer, or nil.
func (v *Video) Renderer() VideoRenderer {
	return v.renderer
}

// SetRenderer attaches r and clears its screen to black. A nil renderer
// turns all frame operations into no-ops.
func (v *Video) SetRenderer(r VideoRenderer) error {
	v.renderer = r
	return v.ClearBuffer()
}

// IsRendering reports whether a frame is being composited. The flag is
// released as soon as the frame record is no longer needed, so producers
// may reuse it before presentation finishes.
func (v *Video) IsRendering() bool {
	return v.rendering.Load()
}

// ObserverID identifies a registered observer.
type ObserverID uint64

type observerEntry struct {
	id       ObserverID
	observer FrameObserver
}

// AddObserver registers an observer for frame notifications. The returned
// ID removes it again.
func (v *Video) AddObserver(o FrameObserver) ObserverID {
	v.nextObserver++
	v.observers = append(v.observers, observerEntry{id: v.nextObserver, observer: o})
	return v.nextObserver
}

// RemoveObserver unregisters the observer with the given ID. Removing the
// last observer resets the frame event state.
func (v *Video) RemoveObserver(id ObserverID) {
	for i, cur := range v.observers {
		if cur.id == id {
			v.observers = append(v.observers[:i], v.observers[i+1:]...)
			break
		}
	}
	if len(v.observers) == 0 {
		v.event.reset()
	}
}

// MarkRampsDirty requests that the monochrome shade ramps be reloaded from
// the palette memory of the next rendered frame.
func (v *Video) MarkRampsDirty() {
	v.rampsDirty = true
}

// RenderFrame composites rec and presents it. The snapshot's palette
// memory is modified by the frame's palette events.
func (v *Video) RenderFrame(rec *FrameRecord) error {
	v.rendering.Store(true)
	defer v.rendering.Store(false)

	for _, o := range v.observers {
		o.observer.BeforeRendering(&v.event)
	}

	var err error
	if v.event.SkipFrame {
		v.rendering.Store(false)
	} else {
		err = v.renderVideoFrame(rec)
	}

	for _, o := range v.observers {
		o.observer.AfterRendering()
	}
	return err
}

func (v *Video) renderVideoFrame(rec *FrameRecord) error {
	if v.renderer == nil {
		v.rendering.Store(false)
		return nil
	}

	if rec.Snapshot.ScreenMask == ScreenMaskFrozen {
		v.rendering.Store(false)
	} else if err := v.composeScreen(rec); err != nil {
		return err
	}

	v.renderer.Render()
	return nil
}

// composeScreen draws rec or the screen mask fill into the locked screen
// buffer. The buffer is unlocked on every exit once acquired.
func (v *Video) composeScreen(rec *FrameRecord) error {
	fb, err := v.renderer.LockScreenBuffer()
	if err != nil {
		v.rendering.Store(false)
		return fmt.Errorf("failed to lock screen buffer: %w", err)
	}
	defer v.renderer.UnlockScreenBuffer()

	snap := &rec.Snapshot
	if snap.ScreenMask == ScreenMaskNormal && snap.LCDC&lcdcEnable != 0 {
		if v.color {
			v.palettes.Fill(snap.PaletteMemory[:])
		} else if v.rampsDirty {
			v.palettes.LoadRamps(snap.PaletteMemory[:])
			v.rampsDirty = false
		}
		v.engine.drawFrame(fb, rec)
		v.rendering.Store(false)
		return nil
	}

	v.rendering.Store(false)
	switch snap.ScreenMask {
	case ScreenMaskBlack:
		fillBuffer(fb, black32, black16)
	case ScreenMaskColor:
		fillBuffer(fb, LookupColor32(snap.MaskColor), LookupColor16(snap.MaskColor))
	default:
		fillBuffer(fb, white32, white16)
	}
	return nil
}

// ClearBuffer fills the screen with black and presents it.
func (v *Video) ClearBuffer() error {
	if v.renderer == nil {
		return nil
	}
	if err := v.fillScreen(black32, black16); err != nil {
		return err
	}
	v.renderer.Render()
	return nil
}

func (v *Video) fillScreen(c32 uint32, c16 uint16) error {
	fb, err := v.renderer.LockScreenBuffer()
	if err != nil {
		return fmt.Errorf("failed to lock screen buffer: %w", err)
	}
	defer v.renderer.UnlockScreenBuffer()

	fillBuffer(fb, c32, c16)
	return nil
}

// SetBorder replaces the border and redraws it. A nil border clears it.
func (v *Video) SetBorder(b *BorderData) error {
	if b != nil {
		copied := *b
		b = &copied
	}
	v.border = b
	return v.RenderBorder()
}

// Border returns the current border, or nil.
func (v *Video) Border() *BorderData {
	return v.border
}

// RenderBorder draws the border into the renderer's border buffer.
// Renderers without a border buffer are silently skipped.
func (v *Video) RenderBorder() error {
	if v.renderer == nil {
		return nil
	}

	fb, err := v.renderer.LockBorderBuffer()
	if err != nil {
		if errors.Is(err, ErrNotSupported) || errors.Is(err, ErrNotImplemented) {
			return nil
		}
		return fmt.Errorf("failed to lock border buffer: %w", err)
	}
	defer v.renderer.UnlockBorderBuffer()

	if v.border != nil {
		drawBorder(fb, v.border)
	} else {
		clearBorder(fb)
	}
	return nil
}

// Reset restores the gray shade ramps, resets the renderer and redraws the
// border and a blank frame.
func (v *Video) Reset() error {
	if !v.color {
		v.rampsDirty = false
		v.palettes.ResetRamps()
	}
	if v.renderer == nil {
		return nil
	}

	v.renderer.Reset()
	if err := v.RenderBorder(); err != nil {
		return err
	}
	return v.ClearBuffer()
}

func clearBorder(fb FrameBuffer) {
	rowBytes := BorderWidth * fb.Format.BytesPerPixel()
	for y := 0; y < BorderHeight; y++ {
		row := fb.Pix[y*fb.Stride : y*fb.Stride+rowBytes]
		clear(row)
	}
	clear(fb.Alpha)
}
