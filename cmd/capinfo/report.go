package main

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/user-none/egbc/emu"
)

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	mask  lipgloss.Style
}

// newStyles returns the report styles. Plain styles are used when the
// output is not a terminal.
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{title: plain, label: plain, value: plain, mask: plain}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
		label: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		value: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)),
		mask:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(1)),
	}
}

func hardwareName(color bool) string {
	if color {
		return "color"
	}
	return "monochrome"
}

// writeReport prints the capture summary and, with frames set, one line
// per frame.
func writeReport(w io.Writer, s styles, name string, size int, c *emu.Capture, frames bool) {
	fmt.Fprintln(w, s.title.Render(" "+name+" "))
	fmt.Fprintf(w, "%s %s\n", s.label.Render("size:    "), s.value.Render(fmt.Sprintf("%d bytes", size)))
	fmt.Fprintf(w, "%s %s\n", s.label.Render("hardware:"), s.value.Render(hardwareName(c.Color)))
	fmt.Fprintf(w, "%s %s\n", s.label.Render("border:  "), s.value.Render(fmt.Sprintf("%v", c.Border != nil)))
	fmt.Fprintf(w, "%s %s\n", s.label.Render("frames:  "), s.value.Render(fmt.Sprintf("%d", len(c.Frames))))

	var regEvents, palEvents int
	masks := map[emu.ScreenMask]int{}
	for i := range c.Frames {
		f := &c.Frames[i]
		regEvents += len(f.RegisterEvents)
		palEvents += len(f.PaletteEvents)
		masks[f.Snapshot.ScreenMask]++
	}
	fmt.Fprintf(w, "%s %s\n", s.label.Render("events:  "),
		s.value.Render(fmt.Sprintf("%d register, %d palette", regEvents, palEvents)))
	for _, m := range []emu.ScreenMask{emu.ScreenMaskNormal, emu.ScreenMaskFrozen, emu.ScreenMaskBlack, emu.ScreenMaskColor, emu.ScreenMaskWhite} {
		if masks[m] > 0 {
			fmt.Fprintf(w, "%s %s\n", s.label.Render(fmt.Sprintf("  %-7s", m.String()+":")), s.value.Render(fmt.Sprintf("%d", masks[m])))
		}
	}

	if !frames {
		return
	}
	for i := range c.Frames {
		snap := &c.Frames[i].Snapshot
		line := fmt.Sprintf("%5d  LCDC=%02X SCX=%02X SCY=%02X WX=%02X WY=%02X BGP=%02X OBP0=%02X OBP1=%02X  reg=%d pal=%d",
			i, snap.LCDC, snap.SCX, snap.SCY, snap.WX, snap.WY, snap.BGP, snap.OBP0, snap.OBP1,
			len(c.Frames[i].RegisterEvents), len(c.Frames[i].PaletteEvents))
		if snap.ScreenMask != emu.ScreenMaskNormal {
			line += " " + s.mask.Render(snap.ScreenMask.String())
		}
		fmt.Fprintln(w, line)
	}
}

type renderOptions struct {
	frame  int
	mono   bool
	border bool
	rgb565 bool // composite through the 16-bit pixel path
}

// renderFrame composites one frame headlessly. With the border enabled
// and present, the result is 256x224 with the screen inside the border.
func renderFrame(c *emu.Capture, opts renderOptions) (*image.RGBA, error) {
	if opts.frame < 0 || opts.frame >= len(c.Frames) {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", opts.frame, len(c.Frames))
	}

	withBorder := opts.border && c.Border != nil
	v := emu.NewVideo(c.Color && !opts.mono)
	format := emu.PixelFormat32
	if opts.rgb565 {
		format = emu.PixelFormat16
	}
	r := emu.NewMemoryRenderer(format, withBorder)
	if err := v.SetRenderer(r); err != nil {
		return nil, err
	}
	if withBorder {
		if err := v.SetBorder(c.Border); err != nil {
			return nil, err
		}
	}
	if err := v.RenderFrame(c.Frames[opts.frame].Clone()); err != nil {
		return nil, err
	}

	screen := r.Image()
	if !withBorder {
		return screen, nil
	}

	out := image.NewRGBA(image.Rect(0, 0, emu.BorderWidth, emu.BorderHeight))
	at := image.Pt((emu.BorderWidth-emu.ScreenWidth)/2, (emu.BorderHeight-emu.ScreenHeight)/2)
	draw.Draw(out, screen.Bounds().Add(at), screen, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), r.BorderImage(), image.Point{}, draw.Over)
	return out, nil
}

// renderPNG writes one frame as PNG.
func renderPNG(w io.Writer, c *emu.Capture, opts renderOptions) error {
	img, err := renderFrame(c, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
