//go:build !libretro && !ios

package cli

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// Notification displays temporary messages on screen
type Notification struct {
	message   string
	startTime time.Time
	duration  time.Duration
	fontFace  text.Face
	bg        *ebiten.Image
}

// NewNotification creates a new notification overlay
func NewNotification() *Notification {
	return &Notification{
		fontFace: text.NewGoXFace(basicfont.Face7x13),
	}
}

// Show displays a notification message
func (n *Notification) Show(message string, duration time.Duration) {
	n.message = message
	n.startTime = time.Now()
	n.duration = duration
	n.bg = nil
}

// ShowShort displays a notification with 1 second duration
func (n *Notification) ShowShort(message string) {
	n.Show(message, 1*time.Second)
}

// IsVisible returns whether the notification is currently visible
func (n *Notification) IsVisible() bool {
	if n.message == "" {
		return false
	}
	return time.Since(n.startTime) < n.duration
}

// Draw renders the notification
func (n *Notification) Draw(screen *ebiten.Image) {
	if !n.IsVisible() {
		return
	}

	bounds := screen.Bounds()
	textWidth, textHeight := text.Measure(n.message, n.fontFace, 0)

	padding := 12
	bgWidth := int(textWidth) + padding*2
	bgHeight := int(textHeight) + padding*2

	// Position: bottom-right, 8px margin
	margin := 8
	bgX := bounds.Dx() - bgWidth - margin
	bgY := bounds.Dy() - bgHeight - margin

	// Background is black at 60% opacity, rebuilt only when the message changes
	if n.bg == nil {
		n.bg = ebiten.NewImage(bgWidth, bgHeight)
		n.bg.Fill(color.RGBA{0, 0, 0, 153})
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(bgX), float64(bgY))
	screen.DrawImage(n.bg, opts)

	textOpts := &text.DrawOptions{}
	textOpts.GeoM.Translate(float64(bgX+padding), float64(bgY+padding))
	textOpts.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, n.message, n.fontFace, textOpts)
}
