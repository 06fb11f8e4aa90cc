package film

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"
)

// BadgePosition selects where Stamp draws the metadata strip, or that it
// draws nothing at all.
type BadgePosition int

const (
	BadgeNone BadgePosition = iota
	BadgeTop
	BadgeBottom
)

// Badge is an optional per-image metadata stamp: title/author/contact
// fields plus a render-info line (integrator name, sample counts, wall
// time), drawn as a solid strip across the top or bottom of the final
// image. Nothing in the accumulation path (AddSample, Layer, NextPass)
// knows about it; Stamp only ever touches the 8-bit image Image produces,
// right before a file write. Disabled (BadgeNone) by default.
type Badge struct {
	Position BadgePosition
	Title    string
	Author   string
	Contact  string
	Comments string

	Integrator string
	Samples    int
	Passes     int
	RenderTime time.Duration
}

// Fields returns the non-empty title/author/contact/comments lines, in
// the order the original badge printed them.
func (b Badge) Fields() []string {
	var lines []string
	if b.Title != "" {
		lines = append(lines, b.Title)
	}
	if b.Author != "" {
		lines = append(lines, "Author: "+b.Author)
	}
	if b.Contact != "" {
		lines = append(lines, "Contact: "+b.Contact)
	}
	if b.Comments != "" {
		lines = append(lines, b.Comments)
	}
	return lines
}

// RenderInfo returns the integrator/samples/time summary line.
func (b Badge) RenderInfo() string {
	return fmt.Sprintf("%s | %d passes | %d spp | %s", b.Integrator, b.Passes, b.Samples, b.RenderTime.Round(time.Millisecond))
}

// String renders every badge line, fields first then render info,
// matching Badge::print's field-then-render-info ordering.
func (b Badge) String() string {
	lines := append(b.Fields(), b.RenderInfo())
	return strings.Join(lines, " | ")
}

const (
	badgeGlyphScale  = 2
	badgeGlyphWidth  = 5
	badgeGlyphHeight = 7
	badgeGlyphGap    = 1
	badgeMargin      = 4
)

// Stamp draws the badge's text onto img as a solid-colour strip at the
// configured Position. A no-op if Position is BadgeNone or the text is
// empty. No pack example renders text into images, so this uses a small
// built-in 5x7 bitmap font (see badgefont.go) rather than reaching for an
// unverified third-party font-rendering dependency for one optional
// feature.
func (b Badge) Stamp(img *image.RGBA) {
	if b.Position == BadgeNone {
		return
	}
	text := b.String()
	if text == "" {
		return
	}

	lineHeight := badgeGlyphHeight*badgeGlyphScale + badgeGlyphGap*badgeGlyphScale
	stripHeight := lineHeight + 2*badgeMargin
	bounds := img.Bounds()
	if stripHeight > bounds.Dy() {
		stripHeight = bounds.Dy()
	}

	y0 := bounds.Min.Y
	if b.Position == BadgeBottom {
		y0 = bounds.Max.Y - stripHeight
	}

	bg := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	fg := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := y0; y < y0+stripHeight && y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	drawText(img, bounds.Min.X+badgeMargin, y0+badgeMargin, text, fg, badgeGlyphScale)
}
