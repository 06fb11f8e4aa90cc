// Package pkdtree implements a balanced k-d tree over point-positioned
// payloads (photons, radiance samples). The tree is built once, bottom
// heavy, with the first few levels split across goroutines, and queried
// read-only afterwards through a non-recursive nearest-neighbour walk.
package pkdtree

import (
	"fmt"
	"math"
	"sync"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
)

// Positioner is the minimal contract a k-d tree payload must satisfy.
type Positioner interface {
	Position() core.Vec3
}

const maxStack = 64

type node[T Positioner] struct {
	isLeaf     bool
	axis       core.Axis
	splitPos   float64
	rightChild uint32
	data       T
}

// Tree is an immutable point k-d tree. The zero value is not usable;
// construct one with Build.
type Tree[T Positioner] struct {
	nodes []node[T]
	bound core.AABB
	empty bool
}

// Build constructs a Tree over items, splitting the top
// ceil(log2(numThreads)) levels across goroutines so the build scales
// with the machine even though lookups afterwards are single-threaded.
// name is used only for log messages. On an empty input it logs an
// error and returns a Tree whose Lookup is a no-op, matching the
// "build becomes a no-op tree" failure contract.
func Build[T Positioner](items []T, numThreads int, control *rendercontrol.Control, logger core.Logger, name string) *Tree[T] {
	if len(items) == 0 {
		if logger != nil {
			logger.Errorf("pkdtree: %s empty input, tree is a no-op", name)
		}
		return &Tree[T]{empty: true}
	}

	bound := core.NewAABB(items[0].Position(), items[0].Position())
	for _, it := range items[1:] {
		bound = bound.Include(it.Position())
	}

	if numThreads < 1 {
		numThreads = 1
	}
	maxLevelThreads := int(math.Ceil(math.Log2(float64(numThreads))))

	prims := make([]T, len(items))
	copy(prims, items)

	b := &builder[T]{control: control, maxLevelThreads: maxLevelThreads}
	nodes := b.build(prims, bound, 0)

	return &Tree[T]{nodes: nodes, bound: bound}
}

type builder[T Positioner] struct {
	control         *rendercontrol.Control
	maxLevelThreads int
}

// build returns the node array for prims (destructively partitioned in
// place), rooted at index 0 of the returned slice.
func (b *builder[T]) build(prims []T, bound core.AABB, level int) []node[T] {
	if b.control != nil && b.control.Canceled() {
		return nil
	}
	level++

	if len(prims) == 1 {
		return []node[T]{{isLeaf: true, data: prims[0]}}
	}

	axis := bound.LargestAxis()
	mid := len(prims) / 2
	nthElement(prims, mid, func(a, c T) bool {
		pa, pc := axis.Component(a.Position()), axis.Component(c.Position())
		if pa == pc {
			return false
		}
		return pa < pc
	})

	splitPos := axis.Component(prims[mid].Position())

	boundL, boundR := bound, bound
	switch axis {
	case core.AxisX:
		boundL.Max.X, boundR.Min.X = splitPos, splitPos
	case core.AxisY:
		boundL.Max.Y, boundR.Min.Y = splitPos, splitPos
	case core.AxisZ:
		boundL.Max.Z, boundR.Min.Z = splitPos, splitPos
	}

	var left, right []node[T]
	if level <= b.maxLevelThreads {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			left = b.build(prims[:mid], boundL, level)
		}()
		go func() {
			defer wg.Done()
			right = b.build(prims[mid:], boundR, level)
		}()
		wg.Wait()
	} else {
		left = b.build(prims[:mid], boundL, level)
		right = b.build(prims[mid:], boundR, level)
	}

	nodes := make([]node[T], 1+len(left)+len(right))
	nodes[0] = node[T]{axis: axis, splitPos: splitPos, rightChild: uint32(1 + len(left))}
	for i, n := range left {
		if !n.isLeaf {
			n.rightChild += 1
		}
		nodes[1+i] = n
	}
	base := uint32(1 + len(left))
	for i, n := range right {
		if !n.isLeaf {
			n.rightChild += base
		}
		nodes[base+uint32(i)] = n
	}
	return nodes
}

// Empty reports whether Build was given zero items.
func (t *Tree[T]) Empty() bool { return t.empty }

// Bound returns the axis-aligned bounding box of all items in the tree.
func (t *Tree[T]) Bound() core.AABB { return t.bound }

// LookupProc is called once per item found within the current search
// radius, in descending-priority (tree traversal) order. It may shrink
// maxDistSquared to narrow the remaining search.
type LookupProc[T Positioner] func(item T, distSquared float64, maxDistSquared *float64)

type stackEntry struct {
	farIdx int // -1 means "nowhere", the termination flag
	s      float64
	axis   core.Axis
}

// Lookup visits every leaf whose cell overlaps the sphere of the current
// radius (sqrt(*maxDistSquared)) around p, shrinking as proc narrows it.
// On an empty tree this is a no-op.
func (t *Tree[T]) Lookup(p core.Vec3, maxDistSquared *float64, proc LookupProc[T]) {
	if t.empty || len(t.nodes) == 0 {
		return
	}

	var stack [maxStack]stackEntry
	stackPtr := 1
	stack[stackPtr].farIdx = -1

	currIdx := 0
	for {
		for !t.nodes[currIdx].isLeaf {
			n := &t.nodes[currIdx]
			axis := n.axis
			splitVal := n.splitPos

			var farIdx int
			if axis.Component(p) <= splitVal {
				farIdx = int(n.rightChild)
				currIdx++
			} else {
				farIdx = currIdx + 1
				currIdx = int(n.rightChild)
			}

			stackPtr++
			if stackPtr >= maxStack {
				panic(fmt.Sprintf("pkdtree: lookup stack overflow (depth %d > %d)", stackPtr, maxStack))
			}
			stack[stackPtr] = stackEntry{farIdx: farIdx, s: splitVal, axis: axis}
		}

		leaf := &t.nodes[currIdx]
		v := leaf.data.Position().Subtract(p)
		distSq := v.LengthSquared()
		if distSq < *maxDistSquared {
			proc(leaf.data, distSq, maxDistSquared)
		}

		if stack[stackPtr].farIdx < 0 {
			return
		}
		axis := stack[stackPtr].axis
		d := axis.Component(p) - stack[stackPtr].s
		distSq = d * d

		for distSq > *maxDistSquared {
			stackPtr--
			if stack[stackPtr].farIdx < 0 {
				return
			}
			axis = stack[stackPtr].axis
			d = axis.Component(p) - stack[stackPtr].s
			distSq = d * d
		}
		currIdx = stack[stackPtr].farIdx
		stackPtr--
	}
}
