package emu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.SaveStater = (*Emulator)(nil)

const sampleRate = 48000

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "egbcPlayback"
	stateHeaderSize = 22 // magic(12) + version(2) + captureCRC(4) + dataCRC(4)
	stateDataSize   = 4 + 1 + 1
)

// Player buttons, in addition to the d-pad.
const (
	buttonStepForward = 4
	buttonStepBack    = 5
	buttonPause       = 7
)

// ErrNoFrames is returned for captures without any frame.
var ErrNoFrames = errors.New("capture contains no frames")

// Emulator plays back a frame capture through the compositor.
type Emulator struct {
	capture    *Capture
	captureCRC uint32

	video  *Video
	screen *MemoryRenderer
	frame  []byte // copy of the presented screen handed to frontends
	work   FrameRecord

	current  int  // index of the last rendered frame, -1 before the first
	paused   bool
	loop     bool
	colorize bool // tint monochrome frames with the captured palettes

	region Region
	timing RegionTiming

	// Input edge detection
	prevButtons uint32

	lastErr     error
	audioBuffer []int16
}

// NewEmulator decodes a capture and prepares it for playback.
func NewEmulator(data []byte, region Region) (Emulator, error) {
	capture, err := DecodeCapture(data)
	if err != nil {
		return Emulator{}, fmt.Errorf("failed to load capture: %w", err)
	}
	if len(capture.Frames) == 0 {
		return Emulator{}, ErrNoFrames
	}

	timing := GetTimingForRegion(region)
	e := Emulator{
		capture:     capture,
		captureCRC:  crc32.ChecksumIEEE(data),
		video:       NewVideo(capture.Color),
		screen:      NewMemoryRenderer(PixelFormat32, true),
		frame:       make([]byte, ScreenWidth*ScreenHeight*4),
		current:     -1,
		loop:        true,
		region:      region,
		timing:      timing,
		audioBuffer: make([]int16, sampleRate/timing.FPS*2),
	}

	if err := e.video.SetRenderer(e.screen); err != nil {
		return Emulator{}, err
	}
	if err := e.video.SetBorder(capture.Border); err != nil {
		return Emulator{}, err
	}
	return e, nil
}

// Capture returns the capture being played.
func (e *Emulator) Capture() *Capture {
	return e.capture
}

// Video returns the compositor.
func (e *Emulator) Video() *Video {
	return e.video
}

// Renderer returns the in-memory renderer holding the screen and border.
func (e *Emulator) Renderer() *MemoryRenderer {
	return e.screen
}

// FrameCount returns the number of frames in the capture.
func (e *Emulator) FrameCount() int {
	return len(e.capture.Frames)
}

// CurrentFrame returns the index of the last rendered frame, or -1.
func (e *Emulator) CurrentFrame() int {
	return e.current
}

// Paused reports whether playback is paused.
func (e *Emulator) Paused() bool {
	return e.paused
}

// SetPaused pauses or resumes playback.
func (e *Emulator) SetPaused(paused bool) {
	e.paused = paused
}

// Err returns the last rendering error, if any.
func (e *Emulator) Err() error {
	return e.lastErr
}

// Seek renders frame i immediately.
func (e *Emulator) Seek(i int) error {
	if i < 0 || i >= len(e.capture.Frames) {
		return fmt.Errorf("frame %d out of range [0, %d)", i, len(e.capture.Frames))
	}
	e.renderFrame(i)
	return e.lastErr
}

// StepForward renders the frame after the current one.
func (e *Emulator) StepForward() {
	next := e.current + 1
	if next >= len(e.capture.Frames) {
		if !e.loop {
			e.paused = true
			return
		}
		next = 0
	}
	e.renderFrame(next)
}

// StepBack renders the frame before the current one.
func (e *Emulator) StepBack() {
	prev := e.current - 1
	if prev < 0 {
		prev = 0
		if e.loop {
			prev = len(e.capture.Frames) - 1
		}
	}
	e.renderFrame(prev)
}

// renderFrame composites frame i from a scratch copy so palette events
// never modify the capture.
func (e *Emulator) renderFrame(i int) {
	e.capture.Frames[i].CopyInto(&e.work)
	if e.colorize && !e.video.ColorMode() {
		e.video.MarkRampsDirty()
	}
	e.lastErr = e.video.RenderFrame(&e.work)
	e.current = i
}

// SetInput handles playback controls for player 0. Start toggles pause;
// while paused, Right or Step Forward and Left or Step Back move one frame.
func (e *Emulator) SetInput(player int, buttons uint32) {
	if player != 0 {
		return
	}

	pressed := buttons &^ e.prevButtons
	e.prevButtons = buttons

	if pressed&(1<<buttonPause) != 0 {
		e.paused = !e.paused
	}
	if !e.paused {
		return
	}
	if pressed&(1<<emucore.ButtonRight|1<<buttonStepForward) != 0 {
		e.StepForward()
	}
	if pressed&(1<<emucore.ButtonLeft|1<<buttonStepBack) != 0 {
		e.StepBack()
	}
}

// GetFramebuffer returns raw RGBA pixel data for the last presented frame.
// The slice is reused and stays unchanged until the next call.
func (e *Emulator) GetFramebuffer() []byte {
	e.screen.CopyScreen(e.frame)
	return e.frame
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return e.screen.Stride()
}

// GetActiveHeight returns the display height.
func (e *Emulator) GetActiveHeight() int {
	return ScreenHeight
}

// GetRegion returns the emulator's region setting
func (e *Emulator) GetRegion() Region {
	return e.region
}

// GetTiming returns FPS and scanline count.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS,
		Scanlines: e.timing.Scanlines,
	}
}

// SetRegion updates the emulator's region configuration
func (e *Emulator) SetRegion(region Region) {
	e.region = region
	e.timing = GetTimingForRegion(region)
}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case "loop_playback":
		e.loop = value == "true"
	case "force_monochrome":
		e.video.SetColorMode(e.capture.Color && value != "true")
	case "colorize_monochrome":
		e.colorize = value == "true"
		if !e.colorize {
			e.video.Palettes().ResetRamps()
		}
	}
}

// Close releases any resources held by the emulator.
func (e *Emulator) Close() {}

// RunFrame advances playback by one frame unless paused.
func (e *Emulator) RunFrame() {
	if e.paused {
		return
	}
	e.StepForward()
}

// GetAudioSamples returns one frame of silence as 16-bit stereo PCM.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}

// =============================================================================
// Save State Serialization
// =============================================================================

// SerializeSize returns the total size in bytes needed for a save state.
func SerializeSize() int {
	return stateHeaderSize + stateDataSize
}

// Serialize creates a save state and returns it as a byte slice.
func (e *Emulator) Serialize() ([]byte, error) {
	data := make([]byte, SerializeSize())

	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], e.captureCRC)

	offset := stateHeaderSize

	// Frame position (4 bytes, signed)
	binary.LittleEndian.PutUint32(data[offset:], uint32(int32(e.current)))
	offset += 4

	// Paused (1 byte)
	if e.paused {
		data[offset] = 1
	}
	offset++

	// Color compositing (1 byte)
	if e.video.ColorMode() {
		data[offset] = 1
	}

	binary.LittleEndian.PutUint32(data[18:22], crc32.ChecksumIEEE(data[stateHeaderSize:]))
	return data, nil
}

// Deserialize restores playback position from a save state and redraws
// the saved frame.
func (e *Emulator) Deserialize(data []byte) error {
	if err := e.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize
	current := int(int32(binary.LittleEndian.Uint32(data[offset:])))
	offset += 4
	e.paused = data[offset] != 0
	offset++
	e.video.SetColorMode(data[offset] != 0)

	if current < 0 || current >= len(e.capture.Frames) {
		e.current = -1
		return nil
	}
	e.renderFrame(current)
	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (e *Emulator) VerifyState(data []byte) error {
	if len(data) < SerializeSize() {
		return errors.New("save state too short")
	}
	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}
	if binary.LittleEndian.Uint16(data[12:14]) > stateVersion {
		return errors.New("unsupported save state version")
	}
	if binary.LittleEndian.Uint32(data[14:18]) != e.captureCRC {
		return errors.New("save state is for a different capture")
	}
	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	if crc32.ChecksumIEEE(data[stateHeaderSize:SerializeSize()]) != expectedCRC {
		return errors.New("save state data is corrupted")
	}
	return nil
}
