package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algoreel/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the timeline and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached timelines and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, _, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			if err := cc.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s cache", c.cacheBackend())
			printDetail("Location: %s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

func (c *CLI) cacheBackend() string {
	if c.cfg.Cache.Backend == "" {
		return cache.BackendFile
	}
	return c.cfg.Cache.Backend
}

// cacheLocation describes where the configured backend keeps its data.
func (c *CLI) cacheLocation() string {
	if c.cacheBackend() == cache.BackendRedis {
		return c.cfg.Cache.RedisURL
	}
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir
	}
	dir, err := cacheDir()
	if err != nil {
		return "(unknown)"
	}
	return dir
}
