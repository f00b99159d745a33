// Package io provides JSON import and export for scene timelines.
//
// # Overview
//
// A compiled timeline is plain data: the shapes a scene draws and the timed
// operations that play them out. Exporting it lets external players or web
// front ends replay a scene without running the Go renderer, and lets the
// pipeline cache compiled timelines.
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "scene": "bst",
//	  "title": "Binary Search Tree Insertion",
//	  "duration": 21.3,
//	  "shapes": [
//	    {"id": "node-0", "kind": "circle", "pos": {"x": 0, "y": 2.2}, "radius": 0.3, ...}
//	  ],
//	  "ops": [
//	    {"kind": "create", "target": "node-0", "start": 0, "duration": 1}
//	  ]
//	}
//
// Shapes are listed in paint order. Ops are ordered by start time; ops that
// were played together share a start time.
//
// # Import
//
// [ReadJSON] and [ImportJSON] validate references and timing so that a
// decoded timeline can be sampled with [scene.Timeline.StateAt] safely.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write indented JSON. Export followed by
// import yields an identical timeline.
package io
