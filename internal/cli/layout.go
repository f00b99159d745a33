package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoreel/pkg/bst"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/render/nodelink"
	"github.com/matzehuels/algoreel/pkg/scene"
	"github.com/matzehuels/algoreel/pkg/server"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output        string // write the final tree as svg, pdf or png
	dot           bool   // print the DOT source instead of the table
	detailed      bool   // include id, depth and position in node labels
	pinned        bool   // draw nodes at their simulated positions
	checkImplicit bool   // compare against the implicit-index layout
	maxDepth      int
	strict        bool // reject duplicates and implicit-index collisions
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [values...]",
		Short: "Print where each inserted value lands in the tree",
		Long: `Layout simulates inserting values into a binary search tree in the
order given and prints one row per insertion: the comparison path, the
side it branches to and its frame position.

Values may be separate arguments or comma-separated. Without values the
bst scene's dataset is used.`,
		Example: `  algoreel layout 8 3 10 1 6 14
  algoreel layout 5,3,8 --dot | dot -Tpng > tree.png
  algoreel layout 5 3 8 -o tree.svg --pinned`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := c.layoutValues(args)
			if err != nil {
				return err
			}
			return runLayout(cmd.Context(), cmd.OutOrStdout(), values, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the final tree to a .svg, .pdf or .png file")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print the final tree as Graphviz DOT")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show id, depth and position in node labels")
	cmd.Flags().BoolVar(&opts.pinned, "pinned", false, "pin nodes to their simulated positions")
	cmd.Flags().BoolVar(&opts.checkImplicit, "check-implicit", false, "check whether the implicit-index layout agrees")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", bst.DefaultMaxDepth, "maximum tree depth")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject duplicate values and implicit-index collisions")

	return cmd
}

// layoutValues parses positional values, falling back to the bst dataset.
func (c *CLI) layoutValues(args []string) ([]float64, error) {
	if len(args) == 0 {
		def, err := scene.Lookup("bst")
		if err != nil {
			return nil, err
		}
		if ds := c.cfg.Dataset(def); len(ds.Values) > 0 {
			return ds.Values, nil
		}
		return def.Defaults.Values, nil
	}
	return server.ParseValues(strings.Join(args, ","))
}

func runLayout(ctx context.Context, w io.Writer, values []float64, opts *layoutOpts) error {
	bstOpts := []bst.Option{bst.WithMaxDepth(opts.maxDepth)}
	if opts.strict {
		bstOpts = append(bstOpts, bst.RejectDuplicates(), bst.WithImplicitCheck())
	}

	if opts.checkImplicit {
		if err := bst.CheckImplicit(values, bstOpts...); err != nil {
			printWarning("Implicit-index layout diverges: %s", apperr.UserMessage(err))
		} else {
			printSuccess("Implicit-index layout agrees for %d values", len(values))
		}
	}

	tree, steps, err := bst.Build(values, bstOpts...)
	if err != nil {
		return err
	}

	dotOpts := nodelink.Options{Detailed: opts.detailed, Pinned: opts.pinned}
	if opts.dot {
		_, err := io.WriteString(w, nodelink.ToDOT(tree, dotOpts))
		return err
	}

	writeLayoutTable(w, tree, steps)

	if opts.output != "" {
		if err := writeTree(ctx, tree, dotOpts, opts.output); err != nil {
			return err
		}
		printSuccess("Wrote tree")
		printFile(opts.output)
	}
	return nil
}

// writeLayoutTable prints the root followed by one row per insertion.
func writeLayoutTable(w io.Writer, tree *bst.Tree, steps []bst.Insertion) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Step", "Value", "Path", "Side", "Depth", "Position"})
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	tbl.SetAutoWrapText(false)

	root := tree.Root()
	tbl.Append([]string{"0", root.Label(), "", "root", "0", formatPoint(root.Pos)})
	for i, ins := range steps {
		tbl.Append([]string{
			fmt.Sprintf("%d", i+1),
			bst.FormatValue(ins.Value),
			formatPath(ins.PathValues),
			ins.Side.String(),
			fmt.Sprintf("%d", ins.Level),
			formatPoint(ins.Pos),
		})
	}
	tbl.Render()
	fmt.Fprintf(w, "%d nodes, height %d\n", tree.Len(), tree.Height())
}

// writeTree renders the tree with Graphviz in the format implied by path.
func writeTree(ctx context.Context, tree *bst.Tree, opts nodelink.Options, path string) error {
	dot := nodelink.ToDOT(tree, opts)
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		data, err = nodelink.RenderSVG(ctx, dot)
	case ".pdf":
		data, err = nodelink.RenderPDF(ctx, dot)
	case ".png":
		data, err = nodelink.RenderPNG(ctx, dot, 2)
	default:
		return apperr.New(apperr.ErrCodeInvalidFormat, "unsupported tree format %q (must be .svg, .pdf or .png)", ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func formatPath(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = bst.FormatValue(v)
	}
	return strings.Join(parts, " "+iconArrow+" ")
}

func formatPoint(p bst.Point) string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}
