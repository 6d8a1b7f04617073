package spatial

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// pointTol is the half-size of the box stored for each point.
	pointTol = 1e-6
	// Slack widens queries against float rounding in the box tests.
	Slack = 1e-9

	minChildren = 25
	maxChildren = 50
)

type entry struct {
	slot int
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is a static 3D R-tree over a set of points, addressed by their slot in the
// slice passed to Build.
type Index struct {
	tree *rtreego.Rtree
	size int
}

func Build(points []mgl64.Vec3) (*Index, error) {
	spatials := make([]rtreego.Spatial, 0, len(points))
	for i, p := range points {
		rect, err := rtreego.NewRect(
			rtreego.Point{p[0] - pointTol, p[1] - pointTol, p[2] - pointTol},
			[]float64{2 * pointTol, 2 * pointTol, 2 * pointTol},
		)
		if err != nil {
			return nil, fmt.Errorf("point %d %v: %w", i, p, err)
		}
		spatials = append(spatials, &entry{slot: i, rect: rect})
	}
	return &Index{
		tree: rtreego.NewTree(3, minChildren, maxChildren, spatials...),
		size: len(points),
	}, nil
}

func (idx *Index) Size() int { return idx.size }

// Query returns, in ascending slot order, every point whose box intersects the cube of
// half-size radius around center. It is a superset of the points within radius.
func (idx *Index) Query(center mgl64.Vec3, radius float64) []int {
	if idx == nil || !(radius > 0) {
		return nil
	}
	bb, err := rtreego.NewRect(
		rtreego.Point{center[0] - radius, center[1] - radius, center[2] - radius},
		[]float64{2 * radius, 2 * radius, 2 * radius},
	)
	if err != nil {
		return nil
	}
	hits := idx.tree.SearchIntersect(bb)
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*entry).slot)
	}
	sort.Ints(out)
	return out
}
