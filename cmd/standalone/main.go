//go:build !libretro && !ios

package main

import (
	"flag"
	"log"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/egbc/adapter"
)

func main() {
	capturePath := flag.String("capture", "", "path to capture file (opens UI if not provided)")
	noLoop := flag.Bool("no-loop", false, "stop at the last frame instead of looping")
	mono := flag.Bool("mono", false, "composite color captures on monochrome hardware")
	colorize := flag.Bool("colorize", false, "shade monochrome frames with the captured palettes")
	flag.Parse()

	factory := &adapter.Factory{}

	if *capturePath != "" {
		options := map[string]string{}
		if *noLoop {
			options["loop_playback"] = "false"
		}
		if *mono {
			options["force_monochrome"] = "true"
		}
		if *colorize {
			options["colorize_monochrome"] = "true"
		}
		if err := standalone.RunDirect(factory, *capturePath, "auto", options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
