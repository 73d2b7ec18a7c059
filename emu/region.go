package emu

import (
	emucore "github.com/user-none/eblitui/api"
)

// Core identification.
const (
	Name    = "egbc"
	Version = "0.1.0"
)

// Region is an alias for emucore.Region so frontends can pass it through.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// RegionTiming holds timing constants for the display
type RegionTiming struct {
	ClockHz   int // Dot clock frequency
	Scanlines int // Total lines per frame, including VBlank
	FPS       int // Frames per second
}

// HandheldTiming: 4.194304 MHz, 154 lines of 456 clocks, ~59.73 Hz
var HandheldTiming = RegionTiming{
	ClockHz:   4194304,
	Scanlines: 154,
	FPS:       60,
}

// GetTimingForRegion returns the timing constants for r. The handheld LCD
// runs at the same rate in every region.
func GetTimingForRegion(r Region) RegionTiming {
	return HandheldTiming
}

// DefaultRegion returns the default region (NTSC).
func DefaultRegion() Region {
	return RegionNTSC
}

// DetectRegionFromCapture returns the region for a capture. The bool is
// true when data is a capture file.
func DetectRegionFromCapture(data []byte) (Region, bool) {
	return RegionNTSC, IsCapture(data)
}
