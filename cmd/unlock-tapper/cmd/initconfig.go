package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/unlock-tapper/internal/config"
)

// attachInitConfigCommand attaches an `init-config` subcommand writing a
// settings file with every parameter at its default.
func attachInitConfigCommand(root *cobra.Command) {
	var path string

	command := &cobra.Command{
		Use:   "init-config",
		Short: "Write a settings file with default values.",
		Long: `Write a YAML settings file populated with the built-in defaults.

Edit the file to point at a different adb binary, NTP server, target moment or
waiter tuning, then pass it back via --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", path)

			return nil
		},
	}

	command.Flags().StringVarP(&path, "config", "c", config.DefaultConfigFilename, "path to write the settings file")

	root.AddCommand(command)
}
