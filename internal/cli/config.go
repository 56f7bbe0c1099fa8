package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeviz/pkg/catalog"
)

// configCommand prints the effective render configuration as TOML.
func (c *CLI) configCommand() *cobra.Command {
	var flags configFlags
	var example string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective render configuration as TOML",
		Long: `Print the render configuration that render would use, after applying the
--config file, the example's own adjustments (with --example), and flags.
The output is a valid --config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry *catalog.Entry
			if example != "" {
				e, err := catalog.Lookup(example)
				if err != nil {
					return err
				}
				entry = &e
			}
			cfg, err := flags.resolve(cmd, entry)
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&example, "example", "", "include the adjustments of this example")
	return cmd
}
