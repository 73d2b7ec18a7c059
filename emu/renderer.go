package emu

import "errors"

// Presentation capability errors. RenderBorder treats both as "no border".
var (
	ErrNotSupported   = errors.New("operation not supported by renderer")
	ErrNotImplemented = errors.New("operation not implemented by renderer")
)

// FrameBuffer is a locked pixel buffer. Rows are Stride bytes apart.
type FrameBuffer struct {
	Pix    []byte
	Stride int
	Format PixelFormat

	// Alpha, when set, receives one coverage byte per pixel (rows packed,
	// 0 transparent, 0xFF opaque). Border buffers in formats without an
	// alpha channel use it to mark where the screen shows through.
	Alpha []byte
}

// VideoRenderer presents composited frames. Buffers returned by the lock
// methods stay valid until the matching unlock.
type VideoRenderer interface {
	// LockScreenBuffer returns the 160x144 screen buffer.
	LockScreenBuffer() (FrameBuffer, error)
	UnlockScreenBuffer()

	// LockBorderBuffer returns the 256x224 border buffer, or
	// ErrNotSupported when the renderer has none.
	LockBorderBuffer() (FrameBuffer, error)
	UnlockBorderBuffer()

	// Render is called once per frame after the screen buffer is unlocked.
	Render()

	// Reset discards any presented content.
	Reset()
}

// FrameEvent is passed to observers before a frame is rendered.
type FrameEvent struct {
	// SkipFrame suppresses compositing and presentation of the frame.
	// The value is kept between frames until an observer changes it.
	SkipFrame bool
}

func (e *FrameEvent) reset() {
	e.SkipFrame = false
}

// FrameObserver is notified around each rendered frame.
type FrameObserver interface {
	BeforeRendering(ev *FrameEvent)
	AfterRendering()
}
