// Package pkg provides the core libraries for algoreel, a small engine for
// animated explanations of data structures and algorithms.
//
// # Overview
//
// algoreel turns a dataset into a timeline of shape animations and renders
// that timeline to video, images or JSON. The flagship scene inserts values
// into a binary search tree and animates the comparison path of each
// insertion. The pkg directory is organized into four areas:
//
//  1. Domain logic: [bst] (insertion layout) and [scene] (shapes, timelines,
//     scene registry)
//  2. Rendering: [render] (SVG frames, Graphviz trees) and [encode] (ffmpeg
//     video and GIF encoding, quality presets)
//  3. Infrastructure: [cache], [history], [config], [errors], [observability]
//  4. Orchestration: [pipeline] (compile → render → export), used by the CLI
//     and [server]
//
// # Architecture
//
// The typical data flow:
//
//	Dataset (values)
//	     ↓
//	[bst] package (insertion paths and positions)
//	     ↓
//	[scene] package (timeline of create/move/highlight ops)
//	     ↓
//	[render/frame] package (SVG per sampled frame)
//	     ↓
//	[encode] package (mp4, gif, png, svg)  or  [io] package (json)
//
// # Quick Start
//
// Lay out a tree:
//
//	tree, steps, err := bst.Build([]float64{50, 30, 70, 20, 40})
//	for _, s := range steps {
//	    fmt.Println(s.Value, s.Side, s.Pos)
//	}
//
// Compile and render a scene:
//
//	def, _ := scene.Lookup("bst")
//	tl, _ := def.Build(def.Defaults)
//	svg := frame.RenderSVG(tl.StateAt(tl.Duration))
//
// Run the whole pipeline with caching:
//
//	c, keyer, _ := cache.Open(ctx, cache.Options{Backend: cache.BackendFile, Dir: dir})
//	runner := pipeline.NewRunner(c, keyer, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Scene: "bst", Format: "json"})
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/bst/...        # Specific package
//	go test -run Example ./pkg/...
//
// Tests that need ffmpeg or rsvg-convert skip when the tool is missing.
//
// [bst]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/bst
// [scene]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/render
// [render/frame]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/render/frame
// [encode]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/encode
// [io]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/cache
// [history]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/history
// [config]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/algoreel/pkg/server
package pkg
