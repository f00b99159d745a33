// Package render turns scene timelines into image and data artifacts.
//
// # Overview
//
// Rendering is split by concern:
//
//   - [frame]: draws one sampled [scene.Frame] as SVG
//   - [nodelink]: draws a finished binary search tree through Graphviz
//
// Whole timelines are exported as JSON by package io.
//
// # Format Conversion
//
// [ToPNG] and [ToPDF] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg := frame.RenderSVG(tl.StateAt(t))
//	png, err := render.ToPNG(svg, 1.0)
//
// Video encoding lives in package encode, which drives ffmpeg over frames
// produced here.
package render
