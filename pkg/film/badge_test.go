package film

import (
	"image"
	"image/color"
	"testing"
	"time"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBadgeNoneLeavesImageUntouched(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	img := solidImage(64, 64, white)
	b := Badge{Position: BadgeNone, Title: "test"}
	b.Stamp(img)
	if img.RGBAAt(0, 0) != white {
		t.Errorf("expected BadgeNone to leave pixels untouched")
	}
}

func TestBadgeTopDrawsStripAtTop(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	img := solidImage(200, 100, white)
	b := Badge{
		Position:   BadgeTop,
		Integrator: "path-tracer",
		Samples:    16,
		Passes:     4,
		RenderTime: 2500 * time.Millisecond,
	}
	b.Stamp(img)

	if img.RGBAAt(0, 0) == white {
		t.Errorf("expected the top strip to overwrite the background colour")
	}
	if img.RGBAAt(0, 99) != white {
		t.Errorf("expected the bottom row to be untouched by a top badge")
	}
}

func TestBadgeBottomDrawsStripAtBottom(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	img := solidImage(200, 100, white)
	b := Badge{Position: BadgeBottom, Integrator: "direct-light", Samples: 4, Passes: 1}
	b.Stamp(img)

	if img.RGBAAt(0, 99) == white {
		t.Errorf("expected the bottom strip to overwrite the background colour")
	}
	if img.RGBAAt(0, 0) != white {
		t.Errorf("expected the top row to be untouched by a bottom badge")
	}
}

func TestBadgeFieldsOmitsEmptyLines(t *testing.T) {
	b := Badge{Title: "Cornell Box"}
	fields := b.Fields()
	if len(fields) != 1 || fields[0] != "Cornell Box" {
		t.Errorf("expected only the title line, got %v", fields)
	}
}

func TestBadgeStringIncludesRenderInfo(t *testing.T) {
	b := Badge{Integrator: "bidirectional", Samples: 8, Passes: 2, RenderTime: time.Second}
	s := b.String()
	if !contains(s, "BIDIRECTIONAL") && !contains(s, "bidirectional") {
		t.Errorf("expected render info to mention the integrator, got %q", s)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
