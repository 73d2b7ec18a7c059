//go:build !libretro && !ios

// Package cli provides a command-line viewer for capture files.
// It handles input polling and plays a capture in a window.
package cli

import (
	"bytes"
	"fmt"
	"image/png"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	input "github.com/quasilyte/ebitengine-input"
	"golang.design/x/clipboard"

	bridge "github.com/user-none/egbc/bridge/ebiten"
)

// Viewer actions.
const (
	ActionPause input.Action = iota
	ActionStepForward
	ActionStepBack
	ActionToggleBorder
	ActionCopyFrame
)

// Player button bits understood by the capture player.
const (
	buttonStepForward = 1 << 4
	buttonStepBack    = 1 << 5
	buttonPause       = 1 << 7
)

// DefaultKeymap binds the viewer actions to keyboard and gamepad keys.
var DefaultKeymap = input.Keymap{
	ActionPause:        {input.KeySpace, input.KeyEnter, input.KeyGamepadStart},
	ActionStepForward:  {input.KeyRight, input.KeyJ, input.KeyGamepadRight, input.KeyGamepadA},
	ActionStepBack:     {input.KeyLeft, input.KeyK, input.KeyGamepadLeft, input.KeyGamepadB},
	ActionToggleBorder: {input.KeyB, input.KeyGamepadY},
	ActionCopyFrame:    {input.KeyC, input.KeyGamepadX},
}

// Runner wraps a player for command-line mode.
// It polls input and passes it to the player via SetInput(), like a
// libretro frontend would.
type Runner struct {
	emulator     *bridge.Emulator
	input        input.System
	handler      *input.Handler
	notification *Notification

	showBorder  bool
	clipboardOK bool
}

// NewRunner creates a new Runner wrapping the given player.
func NewRunner(e *bridge.Emulator, showBorder bool) *Runner {
	r := &Runner{
		emulator:     e,
		notification: NewNotification(),
		showBorder:   showBorder,
	}
	r.input.Init(input.SystemConfig{DevicesEnabled: input.AnyDevice})
	r.handler = r.input.NewHandler(0, DefaultKeymap)

	if err := clipboard.Init(); err != nil {
		log.Printf("Warning: clipboard unavailable: %v", err)
	} else {
		r.clipboardOK = true
	}
	return r
}

// ShowBorder reports whether the console border is drawn.
func (r *Runner) ShowBorder() bool {
	return r.showBorder
}

// Close cleans up the runner's resources.
func (r *Runner) Close() {
	r.emulator.Close()
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	r.input.Update()
	if !ebiten.IsFocused() {
		return nil
	}

	wasPaused := r.emulator.Paused()
	r.pollInput()
	if r.emulator.Paused() != wasPaused {
		if r.emulator.Paused() {
			r.notification.ShowShort(fmt.Sprintf("Paused at frame %d/%d", r.emulator.CurrentFrame()+1, r.emulator.FrameCount()))
		} else {
			r.notification.ShowShort("Playing")
		}
	}

	r.emulator.RunFrame()
	if err := r.emulator.Err(); err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	r.emulator.DrawToScreen(screen, r.showBorder)
	r.notification.Draw(screen)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.emulator.Layout(outsideWidth, outsideHeight)
}

// pollInput maps viewer actions to player buttons and handles the
// viewer-only actions.
func (r *Runner) pollInput() {
	var buttons uint32
	if r.handler.ActionIsPressed(ActionPause) {
		buttons |= buttonPause
	}
	if r.handler.ActionIsPressed(ActionStepForward) {
		buttons |= buttonStepForward
	}
	if r.handler.ActionIsPressed(ActionStepBack) {
		buttons |= buttonStepBack
	}
	r.emulator.SetInput(0, buttons)

	if r.handler.ActionIsJustPressed(ActionToggleBorder) {
		r.toggleBorder()
	}
	if r.handler.ActionIsJustPressed(ActionCopyFrame) {
		r.copyFrame()
	}
}

func (r *Runner) toggleBorder() {
	if !r.emulator.HasBorder() {
		r.notification.ShowShort("Capture has no border")
		return
	}
	r.showBorder = !r.showBorder
	if r.showBorder {
		r.notification.ShowShort("Border on")
	} else {
		r.notification.ShowShort("Border off")
	}
}

// copyFrame puts the displayed frame on the clipboard as a PNG image.
func (r *Runner) copyFrame() {
	if !r.clipboardOK {
		r.notification.ShowShort("Clipboard unavailable")
		return
	}

	data, err := EncodeFramePNG(r.emulator)
	if err != nil {
		log.Printf("Failed to encode frame: %v", err)
		r.notification.ShowShort("Copy failed")
		return
	}
	clipboard.Write(clipboard.FmtImage, data)
	r.notification.ShowShort("Frame copied")
}

// EncodeFramePNG encodes the last presented frame as PNG.
func EncodeFramePNG(e *bridge.Emulator) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, e.Renderer().Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
