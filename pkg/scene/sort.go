package scene

import (
	"fmt"
	"slices"

	"github.com/matzehuels/algoreel/pkg/bst"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
)

// SortStep is one comparison made by bubble sort.
type SortStep struct {
	Pass    int       // outer loop index
	J       int       // compared positions are J and J+1
	Swapped bool      // whether the pair was exchanged
	After   []float64 // array contents after this step
}

// BubbleSortSteps runs the textbook O(n²) bubble sort on a copy of values
// and returns every comparison in order. The final step's After is sorted.
func BubbleSortSteps(values []float64) []SortStep {
	nums := slices.Clone(values)
	n := len(nums)
	var steps []SortStep
	for i := 0; i < n; i++ {
		for j := 0; j < n-i-1; j++ {
			swapped := nums[j] > nums[j+1]
			if swapped {
				nums[j], nums[j+1] = nums[j+1], nums[j]
			}
			steps = append(steps, SortStep{Pass: i, J: j, Swapped: swapped, After: slices.Clone(nums)})
		}
	}
	return steps
}

func buildSort(ds Dataset) (*Timeline, error) {
	if len(ds.Values) == 0 {
		return nil, apperr.New(apperr.ErrCodeEmptyInput, "sort: no values")
	}

	b := NewBuilder("sort", "Bubble Sort Visualization")
	b.Add(Text("title", Point{0, titleY}, "Bubble Sort Visualization", 36, Orange))
	b.Play(0, Write("title"))

	// elems[k] is the id of the shape currently at array position k.
	elems := make([]string, len(ds.Values))
	for i, v := range ds.Values {
		id := fmt.Sprintf("elem-%d", i)
		b.Add(Rect(id, Point{X: -3 + float64(i)*1.2}, 0.8, 0.8, bst.FormatValue(v), 24))
		b.Play(0, Create(id))
		elems[i] = id
	}
	b.Wait(0.5)

	n := len(elems)
	pass := 0
	for _, s := range BubbleSortSteps(ds.Values) {
		for ; pass < s.Pass; pass++ {
			b.SetColor(Green, elems[n-pass-1])
		}
		a, c := elems[s.J], elems[s.J+1]
		b.SetColor(Yellow, a, c)
		b.Wait(0.3)
		if s.Swapped {
			pa, pc := b.Center(a), b.Center(c)
			b.Play(0.5, MoveTo(a, pc), MoveTo(c, pa))
			elems[s.J], elems[s.J+1] = c, a
		}
		b.SetColor(Blue, elems[s.J], elems[s.J+1])
	}
	for ; pass < n; pass++ {
		b.SetColor(Green, elems[n-pass-1])
	}

	b.Wait(1)
	b.Add(Text("result", Point{0, footerY}, "Array Sorted!", 28, Green))
	b.Play(0, Write("result"))
	b.Wait(2)
	return b.Timeline()
}
