package config

// Config represents the viewer configuration stored in config.json
type Config struct {
	Version int          `json:"version"`
	Video   VideoConfig  `json:"video"`
	Window  WindowConfig `json:"window"`
}

// VideoConfig contains video-related settings
type VideoConfig struct {
	Scale      int  `json:"scale"`      // Window scale factor when no window size is stored
	ShowBorder bool `json:"showBorder"` // Draw the console border around the screen
}

// WindowConfig contains window position and size
type WindowConfig struct {
	Width  int  `json:"width"` // 0 = derive from the video scale
	Height int  `json:"height"`
	X      *int `json:"x,omitempty"` // nil = OS decides position
	Y      *int `json:"y,omitempty"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Video: VideoConfig{
			Scale:      3,
			ShowBorder: true,
		},
	}
}
