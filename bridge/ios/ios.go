// Package emuios provides a gomobile-compatible interface to the capture player.
package emuios

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/user-none/egbc/emu"
	"github.com/user-none/egbc/romloader"
)

// ExtractResult contains the result of capture extraction
type ExtractResult struct {
	Crc32    string // Hex string, e.g., "AABBCCDD"
	Filename string // Original filename from archive, e.g., "title screen.gbcap"
}

// currentEmu holds the player state (unexported)
var currentEmu *emulatorState

type emulatorState struct {
	player    emu.Emulator
	borderBuf []byte
	stateData []byte
}

// InitFromPath creates a player from a capture file path.
// Automatically extracts from ZIP/7z/gzip/RAR if needed.
// Returns true on success, false on error.
func InitFromPath(path string) bool {
	data, _, err := romloader.LoadCapture(path)
	if err != nil {
		return false
	}

	player, err := emu.NewEmulator(data, emu.DefaultRegion())
	if err != nil {
		return false
	}
	currentEmu = &emulatorState{player: player}
	return true
}

// Close releases the player.
func Close() {
	if currentEmu != nil {
		currentEmu.player.Close()
	}
	currentEmu = nil
}

// RunFrame advances playback by one frame.
func RunFrame() {
	if currentEmu == nil {
		return
	}
	currentEmu.player.RunFrame()
}

// FrameWidth returns the display width (always 160).
func FrameWidth() int {
	return emu.ScreenWidth
}

// FrameHeight returns the display height (always 144).
func FrameHeight() int {
	return emu.ScreenHeight
}

// GetFrameData returns the last presented frame as RGBA bytes.
func GetFrameData() []byte {
	if currentEmu == nil {
		return nil
	}
	return currentEmu.player.GetFramebuffer()
}

// HasBorder reports whether the capture carries a console border.
func HasBorder() bool {
	if currentEmu == nil {
		return false
	}
	return currentEmu.player.Video().Border() != nil
}

// GetBorderData returns the 256x224 border as RGBA bytes. Transparent
// pixels are where the screen shows through, at offset (48, 40).
func GetBorderData() []byte {
	if currentEmu == nil {
		return nil
	}
	if currentEmu.borderBuf == nil {
		currentEmu.borderBuf = make([]byte, emu.BorderWidth*emu.BorderHeight*4)
	}
	currentEmu.player.Renderer().CopyBorder(currentEmu.borderBuf)
	return currentEmu.borderBuf
}

// SetInput sets the playback control state as a button bitmask.
func SetInput(buttons int) {
	if currentEmu != nil {
		currentEmu.player.SetInput(0, uint32(buttons))
	}
}

// SetPaused pauses or resumes playback.
func SetPaused(paused bool) {
	if currentEmu != nil {
		currentEmu.player.SetPaused(paused)
	}
}

// SetLoop enables or disables looping at the end of the capture.
func SetLoop(loop bool) {
	setBoolOption("loop_playback", loop)
}

// SetForceMonochrome composites color captures as monochrome hardware.
func SetForceMonochrome(mono bool) {
	setBoolOption("force_monochrome", mono)
}

// SetColorize shades monochrome frames with the captured palettes.
func SetColorize(colorize bool) {
	setBoolOption("colorize_monochrome", colorize)
}

func setBoolOption(key string, on bool) {
	if currentEmu == nil {
		return
	}
	value := "false"
	if on {
		value = "true"
	}
	currentEmu.player.SetOption(key, value)
}

// FrameIndex returns the index of the displayed frame, or -1.
func FrameIndex() int {
	if currentEmu == nil {
		return -1
	}
	return currentEmu.player.CurrentFrame()
}

// FrameCount returns the number of frames in the capture.
func FrameCount() int {
	if currentEmu == nil {
		return 0
	}
	return currentEmu.player.FrameCount()
}

// Seek displays frame i. Returns true on success.
func Seek(i int) bool {
	if currentEmu == nil {
		return false
	}
	return currentEmu.player.Seek(i) == nil
}

// SaveState creates a save state. Returns true on success.
func SaveState() bool {
	if currentEmu == nil {
		return false
	}
	data, err := currentEmu.player.Serialize()
	if err != nil {
		currentEmu.stateData = nil
		return false
	}
	currentEmu.stateData = data
	return true
}

// StateLen returns the length of the last saved state.
func StateLen() int {
	if currentEmu == nil {
		return 0
	}
	return len(currentEmu.stateData)
}

// StateByte returns a single byte from the saved state at index i.
func StateByte(i int) int {
	if currentEmu == nil || i < 0 || i >= len(currentEmu.stateData) {
		return 0
	}
	return int(currentEmu.stateData[i])
}

// LoadState loads a save state. Returns true on success.
func LoadState(data []byte) bool {
	if currentEmu == nil {
		return false
	}
	return currentEmu.player.Deserialize(data) == nil
}

// GetFPS returns the playback rate.
func GetFPS() int {
	return emu.HandheldTiming.FPS
}

// GetCRC32FromPath calculates the CRC32 checksum of a capture file.
// Automatically extracts from ZIP/7z/gzip/RAR if needed.
// Returns -1 on error.
func GetCRC32FromPath(path string) int64 {
	data, _, err := romloader.LoadCapture(path)
	if err != nil {
		return -1
	}
	return int64(crc32.ChecksumIEEE(data))
}

// ExtractAndStoreCapture extracts a capture from an archive (or copies a
// raw capture), validates it and stores it as {destDir}/{CRC32}.gbcap.
// If a file with the same CRC32 already exists, it skips writing.
func ExtractAndStoreCapture(srcPath, destDir string) (*ExtractResult, error) {
	data, filename, err := romloader.LoadCapture(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load capture: %w", err)
	}
	if err := emu.VerifyCapture(data); err != nil {
		return nil, fmt.Errorf("invalid capture: %w", err)
	}

	crcHex := fmt.Sprintf("%08X", crc32.ChecksumIEEE(data))
	destPath := filepath.Join(destDir, crcHex+romloader.CaptureExtension)

	// Skip write if file already exists (same CRC = same content)
	if _, err := os.Stat(destPath); err == nil {
		return &ExtractResult{Crc32: crcHex, Filename: filename}, nil
	}

	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write capture: %w", err)
	}
	return &ExtractResult{Crc32: crcHex, Filename: filename}, nil
}
