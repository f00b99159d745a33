// Package scene compiles algorithm animations into timelines.
//
// A [Timeline] is the contract between an algorithm and whatever renders it:
// a table of [Shape]s in paint order plus an ordered list of timed [Op]s
// (create, write, recolor, move, wait). Renderers never see the algorithm;
// they sample the timeline with [Timeline.StateAt] and draw the returned
// [Frame].
//
// Scenes are recorded with a [Builder], which mimics a playback script:
//
//	b := scene.NewBuilder("demo", "Demo")
//	b.Add(scene.Circle("a", scene.Point{}, 0.3, "1", 24))
//	b.Play(0.8, scene.Create("a"))
//	b.SetColor(scene.Yellow, "a")
//	b.Wait(0.3)
//	tl, err := b.Timeline()
//
// # Built-in Scenes
//
//   - bst: binary search tree insertion, laid out by package bst
//   - sort: bubble sort with animated swaps
//   - list: singly linked list traversal
//
// Use [Lookup] or [Resolve] to find them by name and [Definition.Build] to
// compile them, optionally with a custom [Dataset].
package scene
