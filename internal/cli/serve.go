package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/algoreel/pkg/config"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	watch   bool // reload the config file on change
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve timelines and SVG frames over HTTP",
		Long: `Serve starts an HTTP server for previewing scenes in a browser.

Routes:
  GET /scenes                          list scenes and their datasets
  GET /scenes/{name}/timeline          compiled timeline as JSON
  GET /scenes/{name}/frame.svg?t=1.5   one frame (q=l|m|h|k, caption=...)
  GET /scenes/{name}/tree.svg          final BST drawn by Graphviz
  GET /healthz, /metrics

Every scene route accepts ?values=5,3,8 to override the dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && c.cfg.Server.Addr != "" {
				opts.addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the config file when it changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	runner, closeRunner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer closeRunner()

	srv := server.New(runner, c.cfg, c.Logger)
	srv.RegisterHooks()

	g, ctx := errgroup.WithContext(ctx)
	if opts.watch {
		w, path, err := c.newConfigWatcher()
		if err != nil {
			return err
		}
		c.Logger.Info("watching config", "path", path)
		g.Go(func() error {
			return w.Run(ctx, func(cfg config.Config, err error) {
				if err != nil {
					c.Logger.Warn("config reload failed", "error", apperr.UserMessage(err))
					return
				}
				srv.SetConfig(cfg)
			})
		})
	}

	printInfo("Serving on %s", StyleLink.Render("http://"+opts.addr))
	g.Go(func() error {
		return srv.ListenAndServe(ctx, opts.addr)
	})
	return g.Wait()
}

// newConfigWatcher watches the --config file, or the default location.
func (c *CLI) newConfigWatcher() (*config.Watcher, string, error) {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	w, err := config.NewWatcher(path)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "watch %s", path)
	}
	return w, path, nil
}
