// Package bst simulates binary search tree insertion for animation layout.
//
// # Overview
//
// The BST scene inserts a fixed sequence of values one at a time and needs,
// for every insertion, the search path from the root (to highlight it) and a
// display position for the new node (to draw it and its edge). This package
// computes both without any knowledge of the renderer.
//
// Nodes live in a small arena addressed by [NodeID], assigned in insertion
// order. Parent and child links are stored explicitly, so the tree topology
// is independent of the numeric values being inserted.
//
// # Basic Usage
//
//	t, steps, err := bst.Build([]float64{50, 30, 70, 20})
//	if err != nil {
//	    return err
//	}
//	for _, s := range steps {
//	    fmt.Println(s.Value, s.PathValues, s.Side, s.Pos)
//	}
//
// [Tree.Locate] is the pure half of an insertion: it reports where a value
// would go without changing the tree. [Tree.Insert] locates and commits.
//
// # Layout Rule
//
// The root sits at the origin. A node inserted at depth level (the length of
// its search path) is placed [Options.LevelHeight] below its parent and
// shifted horizontally by
//
//	BaseWidth / 2^(level-1)
//
// to the left or right depending on the branch side. Positions are assigned
// once and never recomputed, so deep or unbalanced inputs may overlap.
//
// # Ties
//
// The comparator is value < current, so a value equal to an ancestor goes
// right. Select [RejectDuplicates] to fail such insertions instead.
//
// # Legacy Index Scheme
//
// Older animation scripts located children by heap-style arithmetic seeded
// at the root value (left = 2i, right = 2i+1) and looked those indices up in
// a map keyed by value. [CheckImplicit] replays that scheme next to the arena
// and reports the first step where the two disagree.
package bst
