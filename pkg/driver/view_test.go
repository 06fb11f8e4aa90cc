package driver

import (
	"testing"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/film"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
	"github.com/yafaray-go/yafaray/pkg/scene"
)

func TestRenderViewsRunsEachViewAndRestoresOriginalCamera(t *testing.T) {
	sc := newTestScene()
	original := sc.Camera
	altCamera := scene.NewCamera(scene.CameraConfig{
		LookFrom: core.NewVec3(5, 2, 0), LookAt: core.NewVec3(0, 0, 0),
		Up: core.NewVec3(0, 1, 0), VFOVDegrees: 40, AspectRatio: 1,
	})

	f := film.New(4, 4, 0, 0, 2, []film.LayerType{film.LayerCombined}, film.FilterBox, 1)
	f.SetAaNoiseParams(film.AaNoiseParams{Passes: 1, SamplesFirstPass: 1, Threshold: 0.05})

	integ := &stubIntegrator{}
	d := New(sc, f, integ, rendercontrol.New(), nil, Config{TileSize: 2, Threads: 1})

	views := []View{{Name: "front", Camera: original}, {Name: "side", Camera: altCamera}}
	var completed []string
	err := d.RenderViews(views, func(v View) error {
		completed = append(completed, v.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completed) != 2 || completed[0] != "front" || completed[1] != "side" {
		t.Fatalf("expected both views to complete in order, got %v", completed)
	}
	if sc.Camera != original {
		t.Errorf("expected the scene's original camera to be restored after RenderViews")
	}
}

func TestRenderViewsStopsOnCancellationBetweenViews(t *testing.T) {
	sc := newTestScene()
	f := film.New(4, 4, 0, 0, 2, []film.LayerType{film.LayerCombined}, film.FilterBox, 1)
	f.SetAaNoiseParams(film.AaNoiseParams{Passes: 1, SamplesFirstPass: 1, Threshold: 0.05})

	control := rendercontrol.New()
	integ := &stubIntegrator{}
	d := New(sc, f, integ, control, nil, Config{TileSize: 2, Threads: 1})

	views := []View{{Name: "first", Camera: sc.Camera}, {Name: "second", Camera: sc.Camera}}
	var completed []string
	err := d.RenderViews(views, func(v View) error {
		completed = append(completed, v.Name)
		control.Cancel()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected cancellation to stop before the second view, got %v", completed)
	}
}
