package emu

import (
	"encoding/binary"
	"image"
	"sync"
)

// Compile-time interface check.
var _ VideoRenderer = (*MemoryRenderer)(nil)

// MemoryRenderer is a VideoRenderer backed by in-memory buffers. The last
// presented screen is kept separately from the working buffer so readers
// never observe a partially composited frame.
type MemoryRenderer struct {
	mu sync.Mutex

	format    PixelFormat
	screen    []byte
	presented []byte
	border    []byte // nil when the renderer has no border
	alpha     []byte // border coverage for PixelFormat16

	frames int
}

// NewMemoryRenderer creates a renderer for the given pixel format.
// withBorder allocates a 256x224 border buffer.
func NewMemoryRenderer(format PixelFormat, withBorder bool) *MemoryRenderer {
	size := ScreenWidth * ScreenHeight * format.BytesPerPixel()
	r := &MemoryRenderer{
		format:    format,
		screen:    make([]byte, size),
		presented: make([]byte, size),
	}
	if withBorder {
		r.border = make([]byte, BorderWidth*BorderHeight*format.BytesPerPixel())
		if format == PixelFormat16 {
			r.alpha = make([]byte, BorderWidth*BorderHeight)
		}
	}
	return r
}

// Format returns the pixel format of the buffers.
func (r *MemoryRenderer) Format() PixelFormat {
	return r.format
}

// Stride returns the screen buffer stride in bytes.
func (r *MemoryRenderer) Stride() int {
	return ScreenWidth * r.format.BytesPerPixel()
}

// HasBorder reports whether a border buffer exists.
func (r *MemoryRenderer) HasBorder() bool {
	return r.border != nil
}

func (r *MemoryRenderer) LockScreenBuffer() (FrameBuffer, error) {
	return FrameBuffer{Pix: r.screen, Stride: r.Stride(), Format: r.format}, nil
}

func (r *MemoryRenderer) UnlockScreenBuffer() {}

func (r *MemoryRenderer) LockBorderBuffer() (FrameBuffer, error) {
	if r.border == nil {
		return FrameBuffer{}, ErrNotSupported
	}
	r.mu.Lock()
	return FrameBuffer{Pix: r.border, Stride: BorderWidth * r.format.BytesPerPixel(), Format: r.format, Alpha: r.alpha}, nil
}

func (r *MemoryRenderer) UnlockBorderBuffer() {
	r.mu.Unlock()
}

// Render publishes the working screen buffer.
func (r *MemoryRenderer) Render() {
	r.mu.Lock()
	copy(r.presented, r.screen)
	r.frames++
	r.mu.Unlock()
}

// Reset clears all buffers.
func (r *MemoryRenderer) Reset() {
	r.mu.Lock()
	clear(r.screen)
	clear(r.presented)
	clear(r.border)
	clear(r.alpha)
	r.mu.Unlock()
}

// Frames returns how many times Render was called.
func (r *MemoryRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Screen returns the last presented screen. The slice is shared with the
// renderer and changes on the next Render.
func (r *MemoryRenderer) Screen() []byte {
	return r.presented
}

// CopyScreen copies the last presented screen into dst.
func (r *MemoryRenderer) CopyScreen(dst []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copy(dst, r.presented)
}

// CopyBorder copies the border buffer into dst.
func (r *MemoryRenderer) CopyBorder(dst []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copy(dst, r.border)
}

// Image returns the last presented screen as an RGBA image.
func (r *MemoryRenderer) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return toRGBA(r.presented, nil, ScreenWidth, ScreenHeight, r.format)
}

// BorderImage returns the border as an RGBA image, or nil without a border.
func (r *MemoryRenderer) BorderImage() *image.RGBA {
	if r.border == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return toRGBA(r.border, r.alpha, BorderWidth, BorderHeight, r.format)
}

// toRGBA converts a tightly packed buffer to an image.RGBA. For 16-bit
// buffers alpha supplies per-pixel coverage; nil means opaque.
func toRGBA(pix, alpha []byte, width, height int, format PixelFormat) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if format == PixelFormat32 {
		copy(img.Pix, pix)
		return img
	}

	for i := 0; i < width*height; i++ {
		v := binary.LittleEndian.Uint16(pix[i*2:])
		r5 := uint8(v >> 11)
		g6 := uint8(v>>5) & 0x3F
		b5 := uint8(v) & 0x1F
		img.Pix[i*4] = r5<<3 | r5>>2
		img.Pix[i*4+1] = g6<<2 | g6>>4
		img.Pix[i*4+2] = b5<<3 | b5>>2
		img.Pix[i*4+3] = 0xFF
		if alpha != nil {
			img.Pix[i*4+3] = alpha[i]
		}
	}
	return img
}
