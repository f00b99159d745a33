package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algoreel/pkg/bst"
	"github.com/matzehuels/algoreel/pkg/encode"
	"github.com/matzehuels/algoreel/pkg/scene"
)

// scenesCommand creates the scenes command.
func (c *CLI) scenesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List available scenes and quality presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printScenes(c.cfg.Render.Quality)
			return nil
		},
	}
}

// printScenes prints every registered scene followed by the quality
// presets, marking current as the default.
func printScenes(current string) {
	fmt.Println(StyleTitle.Render("Scenes"))
	for _, def := range scene.All() {
		printKeyValue(def.Name, def.Class+"  "+StyleDim.Render(def.Title))
		printDetail("%s", def.Description)
		printDetail("default values: %s", formatValues(def.Defaults.Values))
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Quality"))
	for _, q := range encode.Qualities() {
		label := fmt.Sprintf("%-15s %dx%d @ %d fps", q.Label, q.Width, q.Height, q.FPS)
		if q.Name == current {
			label += "  " + StyleSuccess.Render("(default)")
		}
		printKeyValue("-q "+q.Name, label)
	}

	printNewline()
	formats := make([]string, 0, len(encode.Formats()))
	for _, f := range encode.Formats() {
		formats = append(formats, string(f))
	}
	printKeyValue("Formats", strings.Join(formats, ", "))
}

// formatValues joins values the way node labels print them.
func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = bst.FormatValue(v)
	}
	return strings.Join(parts, ", ")
}
