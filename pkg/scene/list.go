package scene

import (
	"fmt"

	"github.com/matzehuels/algoreel/pkg/bst"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
)

const listRadius = 0.4

// TraversalOrder returns the positions a singly linked list of n nodes is
// visited in, head first.
func TraversalOrder(n int) []int {
	order := make([]int, 0, max(n, 0))
	for cur := 0; cur < n; cur++ {
		order = append(order, cur)
	}
	return order
}

func buildList(ds Dataset) (*Timeline, error) {
	if len(ds.Values) == 0 {
		return nil, apperr.New(apperr.ErrCodeEmptyInput, "list: no values")
	}

	b := NewBuilder("list", "Linked List Traversal")
	b.Add(Text("title", Point{0, titleY}, "Linked List Traversal", 36, Purple))
	b.Play(0, Write("title"))

	nodes := make([]string, len(ds.Values))
	var arrows []string
	for i, v := range ds.Values {
		c := Point{X: -4 + float64(i)*2}
		nodes[i] = fmt.Sprintf("item-%d", i)
		b.Add(Circle(nodes[i], c, listRadius, bst.FormatValue(v), 20))
		if i < len(ds.Values)-1 {
			id := fmt.Sprintf("next-%d", i)
			from := Point{X: c.X + listRadius + 0.1, Y: c.Y}
			b.Add(Arrow(id, from, Point{X: c.X + listRadius + 0.8 - 0.1, Y: c.Y}, White))
			arrows = append(arrows, id)
		}
	}

	for _, id := range nodes {
		b.Play(0.3, Create(id))
	}
	for _, id := range arrows {
		b.Play(0.2, Create(id))
	}
	b.Wait(0.5)

	for _, i := range TraversalOrder(len(nodes)) {
		b.SetColor(Yellow, nodes[i])
		b.Wait(0.5)
		b.SetColor(Green, nodes[i])
	}

	b.Wait(1)
	b.Add(Text("info", Point{0, footerY}, "Traversal: O(n) time complexity", 24, Yellow))
	b.Play(0, Write("info"))
	b.Wait(2)
	return b.Timeline()
}
