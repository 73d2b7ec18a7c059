package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Capture file format constants
const (
	captureVersion    = 1
	captureMagic      = "egbcCapture\x00"
	captureHeaderSize = 24 // magic(12) + version(2) + flags(2) + frames(4) + dataCRC(4)

	captureFlagBorder = 0x0001
	captureFlagColor  = 0x0002

	// LCDC SCX SCY WX WY BGP OBP0 OBP1, mask, mask color
	frameRegisterSize = 8 + 1 + 2
	frameFixedSize    = frameRegisterSize + VideoMemorySize + OAMSize + PaletteMemSize + 4 + 4
	eventSize         = 7 // clock(4) + target(1) + offset(1) + value(1)
	borderDataSize    = BorderMapWords*2 + BorderCharacterSize
)

// Capture errors.
var (
	ErrCaptureTooShort = errors.New("capture too short")
	ErrCaptureMagic    = errors.New("invalid capture magic")
	ErrCaptureVersion  = errors.New("unsupported capture version")
	ErrCaptureCorrupt  = errors.New("capture data is corrupted")
)

// Capture is a recorded sequence of frames for one hardware model.
type Capture struct {
	Color  bool
	Border *BorderData
	Frames []FrameRecord
}

// CaptureSize returns the encoded size of c.
func CaptureSize(c *Capture) int {
	size := captureHeaderSize
	if c.Border != nil {
		size += borderDataSize
	}
	for i := range c.Frames {
		f := &c.Frames[i]
		size += frameFixedSize + (len(f.RegisterEvents)+len(f.PaletteEvents))*eventSize
	}
	return size
}

// EncodeCapture serializes c.
func EncodeCapture(c *Capture) []byte {
	data := make([]byte, CaptureSize(c))

	var flags uint16
	if c.Border != nil {
		flags |= captureFlagBorder
	}
	if c.Color {
		flags |= captureFlagColor
	}

	copy(data[0:12], captureMagic)
	binary.LittleEndian.PutUint16(data[12:14], captureVersion)
	binary.LittleEndian.PutUint16(data[14:16], flags)
	binary.LittleEndian.PutUint32(data[16:20], uint32(len(c.Frames)))

	offset := captureHeaderSize
	if c.Border != nil {
		offset = encodeBorder(data, offset, c.Border)
	}
	for i := range c.Frames {
		offset = encodeFrame(data, offset, &c.Frames[i])
	}

	binary.LittleEndian.PutUint32(data[20:24], crc32.ChecksumIEEE(data[captureHeaderSize:]))
	return data
}

// VerifyCapture checks the header and checksum of an encoded capture.
func VerifyCapture(data []byte) error {
	if len(data) < captureHeaderSize {
		return ErrCaptureTooShort
	}
	if string(data[0:12]) != captureMagic {
		return ErrCaptureMagic
	}
	if binary.LittleEndian.Uint16(data[12:14]) > captureVersion {
		return ErrCaptureVersion
	}
	expectedCRC := binary.LittleEndian.Uint32(data[20:24])
	if crc32.ChecksumIEEE(data[captureHeaderSize:]) != expectedCRC {
		return ErrCaptureCorrupt
	}
	return nil
}

// IsCapture reports whether data starts with the capture magic.
func IsCapture(data []byte) bool {
	return len(data) >= 12 && string(data[0:12]) == captureMagic
}

// DecodeCapture parses an encoded capture.
func DecodeCapture(data []byte) (*Capture, error) {
	if err := VerifyCapture(data); err != nil {
		return nil, err
	}

	flags := binary.LittleEndian.Uint16(data[14:16])
	count := int(binary.LittleEndian.Uint32(data[16:20]))

	c := &Capture{Color: flags&captureFlagColor != 0}
	offset := captureHeaderSize

	if flags&captureFlagBorder != 0 {
		if len(data)-offset < borderDataSize {
			return nil, ErrCaptureTooShort
		}
		c.Border = &BorderData{}
		offset = decodeBorder(data, offset, c.Border)
	}

	// Every frame takes at least frameFixedSize bytes
	if count > (len(data)-offset)/frameFixedSize {
		return nil, ErrCaptureTooShort
	}

	c.Frames = make([]FrameRecord, count)
	for i := range c.Frames {
		var err error
		offset, err = decodeFrame(data, offset, &c.Frames[i])
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// encodeBorder writes border data to the buffer
func encodeBorder(data []byte, offset int, b *BorderData) int {
	for _, w := range b.Map {
		binary.LittleEndian.PutUint16(data[offset:], w)
		offset += 2
	}
	copy(data[offset:], b.Characters[:])
	return offset + len(b.Characters)
}

// decodeBorder reads border data from the buffer
func decodeBorder(data []byte, offset int, b *BorderData) int {
	for i := range b.Map {
		b.Map[i] = binary.LittleEndian.Uint16(data[offset:])
		offset += 2
	}
	copy(b.Characters[:], data[offset:offset+len(b.Characters)])
	return offset + len(b.Characters)
}

// encodeFrame writes one frame record to the buffer
func encodeFrame(data []byte, offset int, f *FrameRecord) int {
	s := &f.Snapshot

	// Registers (8 bytes)
	copy(data[offset:], []byte{s.LCDC, s.SCX, s.SCY, s.WX, s.WY, s.BGP, s.OBP0, s.OBP1})
	offset += 8

	// Screen mask (1 byte) and mask color (2 bytes)
	data[offset] = uint8(s.ScreenMask)
	offset++
	binary.LittleEndian.PutUint16(data[offset:], s.MaskColor)
	offset += 2

	copy(data[offset:], s.VideoMemory[:])
	offset += len(s.VideoMemory)
	copy(data[offset:], s.ObjectAttributeMemory[:])
	offset += len(s.ObjectAttributeMemory)
	copy(data[offset:], s.PaletteMemory[:])
	offset += len(s.PaletteMemory)

	offset = encodeEvents(data, offset, f.RegisterEvents)
	return encodeEvents(data, offset, f.PaletteEvents)
}

// decodeFrame reads one frame record from the buffer
func decodeFrame(data []byte, offset int, f *FrameRecord) (int, error) {
	if len(data)-offset < frameFixedSize {
		return offset, ErrCaptureTooShort
	}
	s := &f.Snapshot

	s.LCDC = data[offset]
	s.SCX = data[offset+1]
	s.SCY = data[offset+2]
	s.WX = data[offset+3]
	s.WY = data[offset+4]
	s.BGP = data[offset+5]
	s.OBP0 = data[offset+6]
	s.OBP1 = data[offset+7]
	offset += 8

	s.ScreenMask = ScreenMask(data[offset])
	offset++
	s.MaskColor = binary.LittleEndian.Uint16(data[offset:])
	offset += 2

	copy(s.VideoMemory[:], data[offset:offset+len(s.VideoMemory)])
	offset += len(s.VideoMemory)
	copy(s.ObjectAttributeMemory[:], data[offset:offset+len(s.ObjectAttributeMemory)])
	offset += len(s.ObjectAttributeMemory)
	copy(s.PaletteMemory[:], data[offset:offset+len(s.PaletteMemory)])
	offset += len(s.PaletteMemory)

	var err error
	if f.RegisterEvents, offset, err = decodeEvents(data, offset); err != nil {
		return offset, err
	}
	f.PaletteEvents, offset, err = decodeEvents(data, offset)
	return offset, err
}

// encodeEvents writes a count-prefixed event list to the buffer
func encodeEvents(data []byte, offset int, events []TimedEvent) int {
	binary.LittleEndian.PutUint32(data[offset:], uint32(len(events)))
	offset += 4
	for _, ev := range events {
		binary.LittleEndian.PutUint32(data[offset:], uint32(ev.Clock))
		data[offset+4] = uint8(ev.Target)
		data[offset+5] = ev.Offset
		data[offset+6] = ev.Value
		offset += eventSize
	}
	return offset
}

// decodeEvents reads a count-prefixed event list from the buffer
func decodeEvents(data []byte, offset int) ([]TimedEvent, int, error) {
	if len(data)-offset < 4 {
		return nil, offset, ErrCaptureTooShort
	}
	count := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if count > (len(data)-offset)/eventSize {
		return nil, offset, ErrCaptureTooShort
	}
	if count == 0 {
		return nil, offset, nil
	}

	events := make([]TimedEvent, count)
	for i := range events {
		events[i] = TimedEvent{
			Clock:  int(binary.LittleEndian.Uint32(data[offset:])),
			Target: EventTarget(data[offset+4]),
			Offset: data[offset+5],
			Value:  data[offset+6],
		}
		offset += eventSize
	}
	return events, offset, nil
}
