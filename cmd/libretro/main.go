package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/egbc/adapter"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadA, BitID: 4},     // Step forward
		{RetroID: libretro.JoypadB, BitID: 5},     // Step back
		{RetroID: libretro.JoypadStart, BitID: 7}, // Pause
	})
}

func main() {}
