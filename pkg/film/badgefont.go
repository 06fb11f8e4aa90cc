package film

import (
	"image"
	"image/color"
)

// glyph5x7 holds 7 rows of a 5-pixel-wide glyph, each row's 5 low bits
// read left-to-right. Only the characters Badge actually prints need an
// entry; anything else falls back to a blank space.
var glyph5x7 = map[rune][7]byte{
	' ': {0, 0, 0, 0, 0, 0, 0},
	'.': {0, 0, 0, 0, 0, 0b00100, 0},
	',': {0, 0, 0, 0, 0, 0b00100, 0b01000},
	':': {0, 0b00100, 0, 0, 0, 0b00100, 0},
	'|': {0b00100, 0b00100, 0b00100, 0b00100, 0b00100, 0b00100, 0b00100},
	'-': {0, 0, 0, 0b11111, 0, 0, 0},
	'/': {0b00001, 0b00010, 0b00100, 0b00100, 0b01000, 0b10000, 0},
	'%': {0b10001, 0b00010, 0b00100, 0b00100, 0b01000, 0b10001, 0},
	'(': {0b00010, 0b00100, 0b01000, 0b01000, 0b01000, 0b00100, 0b00010},
	')': {0b01000, 0b00100, 0b00010, 0b00010, 0b00010, 0b00100, 0b01000},

	'0': {0b01110, 0b10001, 0b10011, 0b10101, 0b11001, 0b10001, 0b01110},
	'1': {0b00100, 0b01100, 0b00100, 0b00100, 0b00100, 0b00100, 0b01110},
	'2': {0b01110, 0b10001, 0b00001, 0b00010, 0b00100, 0b01000, 0b11111},
	'3': {0b11111, 0b00010, 0b00100, 0b00010, 0b00001, 0b10001, 0b01110},
	'4': {0b00010, 0b00110, 0b01010, 0b10010, 0b11111, 0b00010, 0b00010},
	'5': {0b11111, 0b10000, 0b11110, 0b00001, 0b00001, 0b10001, 0b01110},
	'6': {0b00110, 0b01000, 0b10000, 0b11110, 0b10001, 0b10001, 0b01110},
	'7': {0b11111, 0b00001, 0b00010, 0b00100, 0b01000, 0b01000, 0b01000},
	'8': {0b01110, 0b10001, 0b10001, 0b01110, 0b10001, 0b10001, 0b01110},
	'9': {0b01110, 0b10001, 0b10001, 0b01111, 0b00001, 0b00010, 0b01100},

	'A': {0b01110, 0b10001, 0b10001, 0b11111, 0b10001, 0b10001, 0b10001},
	'B': {0b11110, 0b10001, 0b10001, 0b11110, 0b10001, 0b10001, 0b11110},
	'C': {0b01110, 0b10001, 0b10000, 0b10000, 0b10000, 0b10001, 0b01110},
	'D': {0b11100, 0b10010, 0b10001, 0b10001, 0b10001, 0b10010, 0b11100},
	'E': {0b11111, 0b10000, 0b10000, 0b11110, 0b10000, 0b10000, 0b11111},
	'F': {0b11111, 0b10000, 0b10000, 0b11110, 0b10000, 0b10000, 0b10000},
	'G': {0b01110, 0b10001, 0b10000, 0b10111, 0b10001, 0b10001, 0b01111},
	'H': {0b10001, 0b10001, 0b10001, 0b11111, 0b10001, 0b10001, 0b10001},
	'I': {0b01110, 0b00100, 0b00100, 0b00100, 0b00100, 0b00100, 0b01110},
	'J': {0b00001, 0b00001, 0b00001, 0b00001, 0b00001, 0b10001, 0b01110},
	'K': {0b10001, 0b10010, 0b10100, 0b11000, 0b10100, 0b10010, 0b10001},
	'L': {0b10000, 0b10000, 0b10000, 0b10000, 0b10000, 0b10000, 0b11111},
	'M': {0b10001, 0b11011, 0b10101, 0b10101, 0b10001, 0b10001, 0b10001},
	'N': {0b10001, 0b11001, 0b10101, 0b10011, 0b10001, 0b10001, 0b10001},
	'O': {0b01110, 0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b01110},
	'P': {0b11110, 0b10001, 0b10001, 0b11110, 0b10000, 0b10000, 0b10000},
	'Q': {0b01110, 0b10001, 0b10001, 0b10001, 0b10101, 0b10010, 0b01101},
	'R': {0b11110, 0b10001, 0b10001, 0b11110, 0b10100, 0b10010, 0b10001},
	'S': {0b01111, 0b10000, 0b10000, 0b01110, 0b00001, 0b00001, 0b11110},
	'T': {0b11111, 0b00100, 0b00100, 0b00100, 0b00100, 0b00100, 0b00100},
	'U': {0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b01110},
	'V': {0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b01010, 0b00100},
	'W': {0b10001, 0b10001, 0b10001, 0b10101, 0b10101, 0b10101, 0b01010},
	'X': {0b10001, 0b10001, 0b01010, 0b00100, 0b01010, 0b10001, 0b10001},
	'Y': {0b10001, 0b10001, 0b01010, 0b00100, 0b00100, 0b00100, 0b00100},
	'Z': {0b11111, 0b00001, 0b00010, 0b00100, 0b01000, 0b10000, 0b11111},
}

// asciiUpper maps a lowercase ASCII letter to its uppercase glyph, since
// glyph5x7 only carries one case.
func asciiUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// drawText draws s left-to-right starting at (x0, y0) in fg, each glyph
// scaled up by scale and separated by one scaled column of spacing.
func drawText(img *image.RGBA, x0, y0 int, s string, fg color.RGBA, scale int) {
	bounds := img.Bounds()
	x := x0
	for _, r := range s {
		glyph, ok := glyph5x7[asciiUpper(r)]
		if !ok {
			glyph = glyph5x7[' ']
		}
		for row := 0; row < badgeGlyphHeight; row++ {
			bits := glyph[row]
			for col := 0; col < badgeGlyphWidth; col++ {
				if bits&(1<<uint(badgeGlyphWidth-1-col)) == 0 {
					continue
				}
				px0 := x + col*scale
				py0 := y0 + row*scale
				for dy := 0; dy < scale; dy++ {
					py := py0 + dy
					if py < bounds.Min.Y || py >= bounds.Max.Y {
						continue
					}
					for dx := 0; dx < scale; dx++ {
						px := px0 + dx
						if px < bounds.Min.X || px >= bounds.Max.X {
							continue
						}
						img.SetRGBA(px, py, fg)
					}
				}
			}
		}
		x += (badgeGlyphWidth + badgeGlyphGap) * scale
		if x >= bounds.Max.X {
			break
		}
	}
}
