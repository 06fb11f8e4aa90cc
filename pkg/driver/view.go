package driver

import "github.com/yafaray-go/yafaray/pkg/scene"

// View is one named camera setup rendered from the same scene onto the
// same film: a stereo pair, an alternate angle, or any other
// multi-viewpoint convenience that shouldn't force rebuilding the scene
// or the film's layer set per shot.
type View struct {
	Name   string
	Camera *scene.Camera
}

// RenderViews renders views in order, swapping the scene's camera for
// each view and reusing the driver's film and its accumulated layer set
// across views (the film is cleared between views, not reallocated).
// onComplete is called after each view finishes its own full Render pass
// loop and before the film is cleared for the next view, so a caller can
// snapshot Film.Image before that view's samples are discarded. The
// scene's original camera is restored before RenderViews returns, whether
// it finishes, errors, or is canceled partway through.
func (d *Driver) RenderViews(views []View, onComplete func(View) error) error {
	original := d.Scene.Camera
	defer func() { d.Scene.Camera = original }()

	for i, v := range views {
		if d.canceled() {
			return nil
		}
		if i > 0 {
			d.Film.Clear()
		}
		d.Scene.Camera = v.Camera
		if err := d.Render(); err != nil {
			return err
		}
		if onComplete != nil {
			if err := onComplete(v); err != nil {
				return err
			}
		}
	}
	return nil
}
