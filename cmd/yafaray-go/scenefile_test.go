package main

import (
	"os"
	"path/filepath"
	"testing"
)

const testSceneJSON = `{
	"camera": {
		"look_from": [0, 1, 3],
		"look_at": [0, 0, 0],
		"up": [0, 1, 0],
		"vfov": 40,
		"aspect": 1.333
	},
	"materials": {
		"floor": {"type": "lambertian", "albedo": [0.6, 0.6, 0.6]},
		"glow":  {"type": "emissive", "radiance": [4, 4, 4]}
	},
	"shapes": [
		{"type": "sphere", "center": [0, -100.5, 0], "radius": 100, "material": "floor"},
		{"type": "sphere", "center": [0, 0, 0], "radius": 0.5, "material": "floor"}
	],
	"lights": [
		{"type": "point", "position": [2, 3, 2], "intensity": [10, 10, 10]}
	],
	"background": [0.1, 0.1, 0.2]
}`

func writeTempScene(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing temp scene: %v", err)
	}
	return path
}

func TestLoadSceneBuildsCameraLightsAndNoViews(t *testing.T) {
	path := writeTempScene(t, testSceneJSON)
	sc, views, err := loadScene(path)
	if err != nil {
		t.Fatalf("loadScene: %v", err)
	}
	if sc.Camera == nil {
		t.Fatalf("expected a camera to be built")
	}
	if len(sc.Lights) != 1 {
		t.Errorf("expected 1 light, got %d", len(sc.Lights))
	}
	if len(views) != 0 {
		t.Errorf("expected no named views in the base fixture, got %d", len(views))
	}
}

func TestLoadSceneBuildsNamedViews(t *testing.T) {
	body := `{
		"camera": {"look_from": [0,1,3], "look_at": [0,0,0], "up": [0,1,0], "vfov": 40, "aspect": 1.333},
		"materials": {}, "shapes": [], "lights": [],
		"views": [
			{"name": "left", "look_from": [-2,1,3], "look_at": [0,0,0], "vfov": 40, "aspect": 1.333},
			{"name": "right", "look_from": [2,1,3], "look_at": [0,0,0], "vfov": 40, "aspect": 1.333}
		]
	}`
	path := writeTempScene(t, body)
	_, views, err := loadScene(path)
	if err != nil {
		t.Fatalf("loadScene: %v", err)
	}
	if len(views) != 2 || views[0].Name != "left" || views[1].Name != "right" {
		t.Fatalf("expected views [left right], got %v", views)
	}
}

func TestLoadSceneRejectsMissingRequiredCameraField(t *testing.T) {
	body := `{
		"camera": {"look_from": [0,1,3], "vfov": 40, "aspect": 1.3},
		"materials": {}, "shapes": [], "lights": []
	}`
	path := writeTempScene(t, body)
	if _, _, err := loadScene(path); err == nil {
		t.Errorf("expected an error for a camera missing look_at")
	}
}

func TestLoadSceneRejectsShapeReferencingUnknownMaterial(t *testing.T) {
	body := `{
		"camera": {"look_from": [0,1,3], "look_at": [0,0,0], "vfov": 40, "aspect": 1.3},
		"materials": {},
		"shapes": [{"type": "sphere", "center": [0,0,0], "radius": 1, "material": "nope"}],
		"lights": []
	}`
	path := writeTempScene(t, body)
	if _, _, err := loadScene(path); err == nil {
		t.Errorf("expected an error for a shape referencing an undeclared material")
	}
}

func TestNormalizeValuePassesThroughNonVectorArrays(t *testing.T) {
	v := normalizeValue([]interface{}{1.0, 2.0})
	if _, ok := v.([3]float64); ok {
		t.Errorf("a 2-element array should not be treated as a vector")
	}
}
