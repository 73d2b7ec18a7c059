package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/egbc/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the capture player.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            emu.Name,
		ConsoleName:     "Game Boy Color",
		Extensions:      []string{".gbcap"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.ScreenHeight,
		AspectRatio:     160.0 / 144.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "Step Forward", ID: 4, DefaultKey: "J", DefaultPad: "A"},
			{Name: "Step Back", ID: 5, DefaultKey: "K", DefaultPad: "B"},
			{Name: "Pause", ID: 7, DefaultKey: "Enter", DefaultPad: "Start"},
		},
		Players: 1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "loop_playback",
				Label:       "Loop Playback",
				Description: "Restart from the first frame at the end of the capture",
				Type:        emucore.CoreOptionBool,
				Default:     "true",
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "force_monochrome",
				Label:       "Force Monochrome",
				Description: "Composite color captures as the original handheld would",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryVideo,
			},
		},
		RDBName:       "Nintendo - Game Boy Color",
		ThumbnailRepo: "Nintendo_-_Game_Boy_Color",
		DataDirName:   emu.Name,
		ConsoleID:     6,
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: emu.SerializeSize(),
	}
}

// CreateEmulator creates a new player instance with the given capture and region.
func (f *Factory) CreateEmulator(capture []byte, region emucore.Region) (emucore.Emulator, error) {
	e, err := emu.NewEmulator(capture, region)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DetectRegion reports the region for a capture.
// The bool return indicates whether the data is a capture file.
func (f *Factory) DetectRegion(capture []byte) (emucore.Region, bool) {
	return emu.DetectRegionFromCapture(capture)
}
