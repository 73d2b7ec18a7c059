//go:build !libretro && !ios

// Package ebiten provides an Ebiten-specific wrapper for the capture player.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/egbc/emu"
)

// Position of the screen inside the border.
const (
	screenOffsetX = (emu.BorderWidth - emu.ScreenWidth) / 2
	screenOffsetY = (emu.BorderHeight - emu.ScreenHeight) / 2
)

// Emulator wraps emu.Emulator with Ebiten-specific functionality
type Emulator struct {
	emu.Emulator

	screenImg *ebiten.Image // Native resolution screen
	borderImg *ebiten.Image // Native resolution border, transparent where the screen shows
	canvas    *ebiten.Image // Border with the screen composited into it

	screenPix []byte
	borderPix []byte

	drawOpts ebiten.DrawImageOptions // Pre-allocated draw options to avoid per-frame allocation
}

// NewEmulator creates a new player instance with Ebiten rendering.
func NewEmulator(capture []byte, region emu.Region) (*Emulator, error) {
	base, err := emu.NewEmulator(capture, region)
	if err != nil {
		return nil, err
	}
	return &Emulator{
		Emulator:  base,
		screenPix: make([]byte, emu.ScreenWidth*emu.ScreenHeight*4),
		borderPix: make([]byte, emu.BorderWidth*emu.BorderHeight*4),
	}, nil
}

// HasBorder reports whether the capture carries a console border.
func (e *Emulator) HasBorder() bool {
	return e.Video().Border() != nil
}

// DrawToScreen renders the player framebuffer to the given screen.
// Handles scaling, centering, and the optional console border.
func (e *Emulator) DrawToScreen(screen *ebiten.Image, showBorder bool) {
	src := e.GetFramebufferImage(showBorder)

	// Calculate scaling to fit window while preserving aspect ratio
	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(src.Bounds().Dx())
	nativeH := float64(src.Bounds().Dy())

	scaleX := float64(screenW) / nativeW
	scaleY := float64(screenH) / nativeH
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	// Calculate offset to center the image
	offsetX := (float64(screenW) - nativeW*scale) / 2
	offsetY := (float64(screenH) - nativeH*scale) / 2

	e.drawOpts = ebiten.DrawImageOptions{}
	e.drawOpts.GeoM.Scale(scale, scale)
	e.drawOpts.GeoM.Translate(offsetX, offsetY)
	e.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(src, &e.drawOpts)
}

func (e *Emulator) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Return window size so we control scaling in Draw()
	return outsideWidth, outsideHeight
}

// GetFramebufferImage returns the last presented frame as an ebiten.Image
// at native resolution. With showBorder and a border present, the
// 256x224 border is returned with the screen composited inside it.
func (e *Emulator) GetFramebufferImage(showBorder bool) *ebiten.Image {
	if e.screenImg == nil {
		e.screenImg = ebiten.NewImage(emu.ScreenWidth, emu.ScreenHeight)
	}
	e.Renderer().CopyScreen(e.screenPix)
	e.screenImg.WritePixels(e.screenPix)

	if !showBorder || !e.HasBorder() {
		return e.screenImg
	}

	if e.borderImg == nil {
		e.borderImg = ebiten.NewImage(emu.BorderWidth, emu.BorderHeight)
		e.canvas = ebiten.NewImage(emu.BorderWidth, emu.BorderHeight)
	}
	e.Renderer().CopyBorder(e.borderPix)
	e.borderImg.WritePixels(e.borderPix)

	e.canvas.Clear()
	var opts ebiten.DrawImageOptions
	opts.GeoM.Translate(screenOffsetX, screenOffsetY)
	e.canvas.DrawImage(e.screenImg, &opts)
	e.canvas.DrawImage(e.borderImg, nil)
	return e.canvas
}
