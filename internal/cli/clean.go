package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoreel/pkg/encode"
)

// cleanCommand creates the clean command.
func (c *CLI) cleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the media directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := encode.Clean(c.cfg.Render.MediaDir)
			if err != nil {
				return err
			}
			if !removed {
				printInfo("Nothing to clean")
				return nil
			}
			printSuccess("Removed %s", c.mediaDir())
			return nil
		},
	}
}
