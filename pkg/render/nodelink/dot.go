package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/algoreel/pkg/bst"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node id, depth and layout position in labels.
	// When false, only the value is shown.
	Detailed bool
	// Pinned fixes every node at its simulated layout position so Graphviz
	// draws the tree exactly as the animation does.
	Pinned bool
}

// ToDOT converts a laid-out tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Missing children are emitted as invisible placeholder nodes so that
// Graphviz keeps left children left and right children right.
func ToDOT(t *bst.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph BST {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#58C4DD4D\", color=\"#58C4DD\", penwidth=2, fontsize=18];\n")
	buf.WriteString("  edge [arrowhead=none, penwidth=2];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range t.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if opts.Pinned {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", bst.FormatValue(n.Pos.X), bst.FormatValue(n.Pos.Y)))
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotID(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range t.Nodes() {
		if n.Left == bst.NoNode && n.Right == bst.NoNode {
			continue
		}
		writeChild(&buf, n.ID, n.Left, "l")
		writeChild(&buf, n.ID, n.Right, "r")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeChild(buf *bytes.Buffer, parent, child bst.NodeID, side string) {
	if child != bst.NoNode {
		fmt.Fprintf(buf, "  %s -> %s;\n", dotID(parent), dotID(child))
		return
	}
	ph := fmt.Sprintf("%s_%s", dotID(parent), side)
	fmt.Fprintf(buf, "  %s [label=\"\", style=invis, width=0.1];\n", ph)
	fmt.Fprintf(buf, "  %s -> %s [style=invis];\n", dotID(parent), ph)
}

func dotID(id bst.NodeID) string { return fmt.Sprintf("n%d", id) }

func fmtLabel(n bst.Node, detailed bool) string {
	if !detailed {
		return n.Label()
	}
	return fmt.Sprintf("%s\n#%d d%d\n(%s, %s)", n.Label(), n.ID, n.Depth,
		bst.FormatValue(n.Pos.X), bst.FormatValue(n.Pos.Y))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Pinned graphs are laid out with the neato engine so positions are honoured.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	if strings.Contains(dot, "!\"") {
		gv.SetLayout(graphviz.NEATO)
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
