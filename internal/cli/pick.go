package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoreel/pkg/encode"
	"github.com/matzehuels/algoreel/pkg/scene"
)

// pickCommand creates the interactive scene picker.
func (c *CLI) pickCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a scene and quality interactively, then render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok, err := c.pickScene()
			if err != nil || !ok {
				return err
			}
			q, ok, err := pickQuality(c.cfg.Render.Quality)
			if err != nil || !ok {
				return err
			}

			base, err := c.renderOptions(cmd, def.Name, &opts)
			if err != nil {
				return err
			}
			base.Quality = q.Name
			printInfo("Rendering %s at %s", StyleHighlight.Render(def.Name), q.Label)
			return c.runRender(cmd.Context(), base, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", string(encode.DefaultFormat), "output format: mp4, gif, png, svg, json")
	cmd.Flags().BoolVarP(&opts.preview, "preview", "p", false, "play the animation in a window when done")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) pickScene() (scene.Definition, bool, error) {
	defs := scene.All()
	values := make(map[string][]float64, len(defs))
	for _, def := range defs {
		values[def.Name] = def.Defaults.Values
		if ds := c.cfg.Dataset(def); len(ds.Values) > 0 {
			values[def.Name] = ds.Values
		}
	}

	final, err := tea.NewProgram(NewSceneListModel(defs, values)).Run()
	if err != nil {
		return scene.Definition{}, false, fmt.Errorf("scene picker: %w", err)
	}
	m := final.(SceneListModel)
	if m.Selected == nil {
		printInfo("Cancelled")
		return scene.Definition{}, false, nil
	}
	return *m.Selected, true, nil
}

func pickQuality(current string) (encode.Quality, bool, error) {
	final, err := tea.NewProgram(NewQualityListModel(encode.Qualities(), current)).Run()
	if err != nil {
		return encode.Quality{}, false, fmt.Errorf("quality picker: %w", err)
	}
	m := final.(QualityListModel)
	if m.Selected == nil {
		printInfo("Cancelled")
		return encode.Quality{}, false, nil
	}
	return *m.Selected, true, nil
}
