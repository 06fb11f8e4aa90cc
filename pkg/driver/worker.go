package driver

import (
	"runtime"

	"github.com/yafaray-go/yafaray/pkg/film"
)

// tileTask is one tile's worth of work for a single pass.
type tileTask struct {
	Tile          film.Tile
	PassNumber    int
	TargetSamples int
	Adaptive      bool
}

// tileResult reports a completed tile back to the main goroutine, which
// alone calls Film.FinishArea (mirrors the teacher's worker_pool.go:
// workers render into the shared buffer directly, but only the main
// goroutine dispatches completion bookkeeping).
type tileResult struct {
	Tile  film.Tile
	Error error
}

// RenderPass splits the image into tiles and renders them across
// Config.Threads worker goroutines, each pulling tiles from a shared
// channel and rendering via renderTile. The main goroutine drains results
// and calls Film.FinishArea for each, matching
// TiledIntegrator::renderPass's thread-pool-plus-main-thread-finishArea
// shape.
func (d *Driver) RenderPass(passNumber, targetSamples int, adaptive bool) error {
	splitter := film.NewSplitter(d.Film.Width, d.Film.Height, d.Film.CX0, d.Film.CY0, d.Config.TileSize, d.Config.TileOrder, d.Config.Seed)
	if splitter.Empty() {
		return nil
	}

	numWorkers := d.Config.Threads
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	tasks := make(chan tileTask, splitter.Size())
	results := make(chan tileResult, splitter.Size())

	for i := 0; i < splitter.Size(); i++ {
		tile, _ := splitter.GetArea(i)
		tasks <- tileTask{Tile: tile, PassNumber: passNumber, TargetSamples: targetSamples, Adaptive: adaptive}
	}
	close(tasks)

	done := make(chan struct{})
	for w := 0; w < numWorkers; w++ {
		go func() {
			for task := range tasks {
				if d.canceled() {
					results <- tileResult{Tile: task.Tile}
					continue
				}
				err := d.renderTile(task)
				results <- tileResult{Tile: task.Tile, Error: err}
			}
			done <- struct{}{}
		}()
	}

	go func() {
		for w := 0; w < numWorkers; w++ {
			<-done
		}
		close(results)
	}()

	var firstErr error
	for res := range results {
		d.Film.FinishArea(&res.Tile)
		if res.Error != nil && firstErr == nil {
			firstErr = res.Error
		}
	}
	return firstErr
}
