package scene

import (
	"fmt"

	"github.com/matzehuels/algoreel/pkg/bst"
)

const (
	titleY      = 3.4
	footerY     = -3.2
	nodeRadius  = 0.3
	bstRootY    = 2.2
	bstFontSize = 24
)

// bstOrigin places the root below the title so four levels fit the frame.
var bstOrigin = bst.Point{X: 0, Y: bstRootY}

func nodeID(id bst.NodeID) string { return fmt.Sprintf("node-%d", id) }
func edgeID(id bst.NodeID) string { return fmt.Sprintf("edge-%d", id) }

func toPoint(p bst.Point) Point { return Point{X: p.X, Y: p.Y} }

// buildBST animates each insertion: the node and its edge appear, then the
// search path flashes yellow and returns to blue. The flashed path runs from
// the root down to the insertion parent inclusive.
func buildBST(ds Dataset) (*Timeline, error) {
	tree, steps, err := bst.Build(ds.Values, bst.WithOrigin(bstOrigin))
	if err != nil {
		return nil, err
	}

	b := NewBuilder("bst", "Binary Search Tree Insertion")
	b.Add(Text("title", Point{0, titleY}, "Binary Search Tree Insertion", 36, Yellow))
	b.Play(0, Write("title"))

	root := tree.Root()
	b.Add(Circle(nodeID(root.ID), toPoint(root.Pos), nodeRadius, root.Label(), bstFontSize))
	b.Play(0, Create(nodeID(root.ID)))
	b.Wait(0.5)

	for _, s := range steps {
		b.Add(Line(edgeID(s.ID), toPoint(s.Edge.From), toPoint(s.Edge.To), White, 2))
		b.Add(Circle(nodeID(s.ID), toPoint(s.Pos), nodeRadius, bst.FormatValue(s.Value), bstFontSize))
		b.Play(0.8, Create(nodeID(s.ID)), Create(edgeID(s.ID)))

		path := make([]string, len(s.Path))
		for i, id := range s.Path {
			path[i] = nodeID(id)
		}
		b.SetColor(Yellow, path...)
		b.Wait(0.3)
		b.SetColor(Blue, path...)
		b.Wait(0.5)
	}

	b.Wait(1)
	b.Add(Text("info", Point{0, footerY},
		"BST Properties:\n• Left subtree < Root\n• Right subtree > Root\n• Balanced structure", 20, Green))
	b.Play(0, Write("info"))
	b.Wait(2)
	return b.Timeline()
}
