package commands

import "github.com/spf13/cobra"

// ConfigFlag is the persistent root flag holding the config file path.
const ConfigFlag = "config"

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString(ConfigFlag)
	return path
}
