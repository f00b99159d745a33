package scene

import (
	"fmt"
	"slices"
	"strings"

	apperr "github.com/matzehuels/algoreel/pkg/errors"
)

// Dataset is the input a scene animates.
type Dataset struct {
	Values []float64 `json:"values" toml:"values"`
}

// Definition describes a registered scene.
type Definition struct {
	Name        string // short name used on the command line ("bst")
	Class       string // long name ("BSTVisualization")
	Title       string
	Description string
	Defaults    Dataset
	build       func(Dataset) (*Timeline, error)
}

// Build compiles the scene for ds. An empty dataset uses the defaults.
func (d Definition) Build(ds Dataset) (*Timeline, error) {
	if len(ds.Values) == 0 {
		ds = d.Defaults
	}
	tl, err := d.build(ds)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", d.Name, err)
	}
	return tl, nil
}

// AllScenes is the pseudo-scene that selects every registered scene.
const AllScenes = "all"

var registry = []Definition{
	{
		Name:        "bst",
		Class:       "BSTVisualization",
		Title:       "Binary Search Tree Insertion",
		Description: "Binary Search Tree Insertion",
		Defaults:    Dataset{Values: []float64{50, 30, 70, 20, 40, 60, 80, 10, 25, 35, 45, 55, 65, 75, 85}},
		build:       buildBST,
	},
	{
		Name:        "sort",
		Class:       "SortingVisualization",
		Title:       "Bubble Sort Visualization",
		Description: "Bubble Sort Visualization",
		Defaults:    Dataset{Values: []float64{64, 34, 25, 12, 22, 11, 90}},
		build:       buildSort,
	},
	{
		Name:        "list",
		Class:       "LinkedListVisualization",
		Title:       "Linked List Traversal",
		Description: "Linked List Traversal",
		Defaults:    Dataset{Values: []float64{10, 20, 30, 40, 50}},
		build:       buildList,
	},
}

// All returns every registered scene in display order.
func All() []Definition { return slices.Clone(registry) }

// Names returns the short names of all scenes.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.Name
	}
	return names
}

// Lookup finds a scene by short or class name, case-insensitively.
func Lookup(name string) (Definition, error) {
	for _, d := range registry {
		if strings.EqualFold(name, d.Name) || strings.EqualFold(name, d.Class) {
			return d, nil
		}
	}
	return Definition{}, apperr.New(apperr.ErrCodeInvalidScene,
		"unknown scene: %s (must be one of: %s, %s)", name, strings.Join(Names(), ", "), AllScenes)
}

// Resolve expands a scene selector into definitions. "all" selects every
// scene.
func Resolve(name string) ([]Definition, error) {
	if strings.EqualFold(name, AllScenes) || name == "" {
		return All(), nil
	}
	d, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return []Definition{d}, nil
}
