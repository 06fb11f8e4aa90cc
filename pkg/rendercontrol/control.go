// Package rendercontrol holds the small shared state record every long
// running render loop polls for cooperative cancellation and reports
// progress through: the point k-d tree build, the photon prepass, the
// surface integrators, and the tiled driver all consult the same Control.
package rendercontrol

import (
	"sync"
	"sync/atomic"
)

// Control is safe for concurrent use. Canceled is exposed through an
// atomic so hot loops (the k-d tree build, per-tile render loops) can
// check it without taking the mutex; every other field is read and
// written under mu.
type Control struct {
	mu sync.Mutex

	inProgress bool
	finished   bool
	resumed    bool

	canceled atomic.Bool

	totalPasses        int
	currentPass        int
	currentPassPercent float64

	renderInfo  string
	aaNoiseInfo string
}

// New returns a fresh, not-yet-started Control.
func New() *Control {
	return &Control{}
}

func (c *Control) SetStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inProgress = true
}

func (c *Control) SetResumed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumed = true
}

func (c *Control) SetFinished() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inProgress = false
	c.finished = true
}

// Cancel raises the single cooperative-cancellation signal. Safe to call
// from any goroutine, any number of times.
func (c *Control) Cancel() {
	c.canceled.Store(true)
}

// Canceled is the hot-path check consulted inside the k-d tree build, the
// photon prepass's shooting loop and the tiled driver. The surface
// integrators' Integrate does not poll it.
func (c *Control) Canceled() bool {
	return c.canceled.Load()
}

func (c *Control) SetTotalPasses(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalPasses = n
}

func (c *Control) SetCurrentPass(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentPass = n
}

func (c *Control) SetCurrentPassPercent(p float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentPassPercent = p
}

func (c *Control) SetRenderInfo(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderInfo = s
}

func (c *Control) SetAANoiseInfo(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aaNoiseInfo = s
}

func (c *Control) InProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inProgress
}

func (c *Control) Resumed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resumed
}

func (c *Control) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}

func (c *Control) TotalPasses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPasses
}

func (c *Control) CurrentPass() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPass
}

func (c *Control) CurrentPassPercent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPassPercent
}

func (c *Control) RenderInfo() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderInfo
}

func (c *Control) AANoiseInfo() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aaNoiseInfo
}
