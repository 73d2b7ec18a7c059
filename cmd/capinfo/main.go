// Command capinfo prints the contents of a capture file and can render a
// single frame to a PNG image.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/user-none/egbc/emu"
	"github.com/user-none/egbc/romloader"
	"golang.org/x/term"
)

func main() {
	listFrames := flag.Bool("frames", false, "list every frame")
	pngPath := flag.String("png", "", "render a frame to this PNG file")
	frame := flag.Int("frame", 0, "frame index for -png")
	mono := flag.Bool("mono", false, "render color captures on monochrome hardware")
	noBorder := flag.Bool("no-border", false, "render the screen without the border")
	rgb565 := flag.Bool("rgb565", false, "render through the 16-bit RGB565 path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: capinfo [-frames] [-png out.png [-frame n] [-mono] [-no-border] [-rgb565]] <capture>")
		os.Exit(1)
	}

	data, name, err := romloader.LoadCapture(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load capture: %v", err)
	}
	c, err := emu.DecodeCapture(data)
	if err != nil {
		log.Fatalf("Failed to decode %s: %v", name, err)
	}

	styles := newStyles(term.IsTerminal(int(os.Stdout.Fd())))
	writeReport(os.Stdout, styles, name, len(data), c, *listFrames)

	if *pngPath == "" {
		return
	}

	f, err := os.Create(*pngPath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *pngPath, err)
	}
	defer f.Close()

	opts := renderOptions{frame: *frame, mono: *mono, border: !*noBorder, rgb565: *rgb565}
	if err := renderPNG(f, c, opts); err != nil {
		log.Fatalf("Failed to render frame %d: %v", *frame, err)
	}
	fmt.Println(styles.label.Render("wrote"), *pngPath)
}
