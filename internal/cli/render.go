package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algoreel/pkg/encode"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/pipeline"
	"github.com/matzehuels/algoreel/pkg/scene"
	"github.com/matzehuels/algoreel/pkg/server"
)

// renderOpts holds the command-line flags for the render command.
// Flags that are not set explicitly fall back to the config file.
type renderOpts struct {
	quality   string // l, m, h or k
	format    string // mp4, gif, png, svg or json
	values    string // comma-separated dataset override
	output    string // copy the artifact here
	preview   bool   // play the timeline in a window after rendering
	saveFrame bool   // also write the last frame as PNG
	clean     bool   // remove the media directory first
	list      bool   // list scenes and exit
	noCache   bool   // bypass the artifact cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a scene to video, GIF, PNG or SVG frames",
		Long: `Render compiles a scene into a timeline and encodes it.

The scene is a short name (bst, sort, list), a class name
(BSTVisualization) or "all" to render every registered scene.
Frames are written to <media_dir>/<scene>/<resolution><fps>/.`,
		Example: `  algoreel render bst -q h
  algoreel render sort -f gif -o sort.gif
  algoreel render bst --values 5,3,8,1,4
  algoreel render all -q l`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeScenes,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				printScenes(c.cfg.Render.Quality)
				return nil
			}
			if len(args) == 0 {
				return apperr.New(apperr.ErrCodeInvalidScene, "scene is required (one of: %s, %s)",
					strings.Join(scene.Names(), ", "), scene.AllScenes)
			}
			base, err := c.renderOptions(cmd, args[0], &opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), base, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.quality, "quality", "q", encode.DefaultQuality.Name, "quality: l (480p15), m (720p30), h (1080p60), k (2160p60)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(encode.DefaultFormat), "output format: mp4, gif, png, svg, json")
	cmd.Flags().StringVar(&opts.values, "values", "", "comma-separated dataset (default: config or scene defaults)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "copy the result to this file or directory (mp4, gif, json)")
	cmd.Flags().BoolVarP(&opts.preview, "preview", "p", false, "play the animation in a window when done")
	cmd.Flags().BoolVarP(&opts.saveFrame, "save-frame", "s", false, "also save the last frame as PNG")
	cmd.Flags().BoolVar(&opts.clean, "clean", false, "remove the media directory before rendering")
	cmd.Flags().BoolVar(&opts.list, "list", false, "list available scenes and exit")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// renderOptions merges flags over the config file into pipeline options.
func (c *CLI) renderOptions(cmd *cobra.Command, sceneName string, opts *renderOpts) (pipeline.Options, error) {
	r := c.cfg.Render
	base := pipeline.Options{
		Scene:         sceneName,
		Quality:       r.Quality,
		Format:        r.Format,
		Preview:       r.Preview,
		SaveLastFrame: r.SaveLastFrame,
		Output:        opts.output,
		Refresh:       opts.noCache,
		Logger:        c.Logger,
	}
	flags := cmd.Flags()
	if flags.Changed("quality") {
		base.Quality = opts.quality
	}
	if flags.Changed("format") {
		base.Format = opts.format
	}
	if flags.Changed("preview") {
		base.Preview = opts.preview
	}
	if flags.Changed("save-frame") {
		base.SaveLastFrame = opts.saveFrame
	}
	if opts.values != "" {
		values, err := server.ParseValues(opts.values)
		if err != nil {
			return base, err
		}
		base.Values = values
	}
	return base, nil
}

// expand resolves the scene selector and fills per-scene datasets from the
// config file where no values were given on the command line.
func (c *CLI) expand(base pipeline.Options) ([]pipeline.Options, error) {
	all, err := pipeline.Expand(base)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if len(all[i].Values) > 0 {
			continue
		}
		def, err := scene.Lookup(all[i].Scene)
		if err != nil {
			return nil, err
		}
		all[i].Values = c.cfg.Dataset(def).Values
	}
	return all, nil
}

func (c *CLI) runRender(ctx context.Context, base pipeline.Options, opts *renderOpts) error {
	if opts.clean {
		removed, err := encode.Clean(c.cfg.Render.MediaDir)
		if err != nil {
			return err
		}
		if removed {
			c.Logger.Info("removed media directory", "dir", c.mediaDir())
		}
	}
	if base.Preview && c.Preview == nil {
		printWarning("Preview is not available in this build")
		base.Preview = false
	}

	all, err := c.expand(base)
	if err != nil {
		return err
	}

	runner, closeRunner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer closeRunner()

	if len(all) == 1 {
		return c.renderOne(ctx, runner, all[0])
	}
	return c.renderAll(ctx, runner, all)
}

func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) error {
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.Scene))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError(fmt.Sprintf("Render failed: %s", apperr.UserMessage(err)))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", StyleHighlight.Render(res.Scene)))
	printResult(res)
	return nil
}

func (c *CLI) renderAll(ctx context.Context, runner *pipeline.Runner, all []pipeline.Options) error {
	prog := newProgress(loggerFromContext(ctx))
	summary, err := runner.ExecuteAll(ctx, all)
	if summary != nil {
		for _, res := range summary.Results {
			printSuccess("Rendered %s", StyleHighlight.Render(res.Scene))
			printResult(res)
		}
		for _, f := range summary.Failures {
			printError("%s: %s", f.Scene, apperr.UserMessage(f.Err))
		}
		prog.done("Rendered scenes", "ok", len(summary.Results), "failed", len(summary.Failures), "total", len(all))
	}
	if err != nil {
		return err
	}
	if !summary.OK() {
		return apperr.New(apperr.ErrCodeRenderFailed, "%d of %d scenes failed", len(summary.Failures), summary.Total())
	}
	return nil
}

// printResult prints the files and statistics of one render.
func printResult(res *pipeline.Result) {
	if res.Artifact != nil {
		printFile(res.Artifact.Path)
	}
	if res.Output != "" {
		printFile(res.Output)
	}
	if res.LastFrame != "" {
		printFile(res.LastFrame)
	}
	elapsed := res.Stats.CompileTime + res.Stats.RenderTime
	printStats(res.Stats.Frames, res.Stats.Unique, elapsed, res.CacheInfo.ArtifactHit)
}

// mediaDir returns the configured media directory.
func (c *CLI) mediaDir() string {
	if c.cfg.Render.MediaDir == "" {
		return encode.DefaultMediaDir
	}
	return c.cfg.Render.MediaDir
}

// completeScenes completes scene names for the first positional argument.
func completeScenes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return append(scene.Names(), scene.AllScenes), cobra.ShellCompDirectiveNoFileComp
}
