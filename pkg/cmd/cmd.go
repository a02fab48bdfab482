// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "coursevault",
		Short: "A catalog service for course materials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	registerServeCommands()
	registerConfigsCommands()
	registerDBCommands()
	registerFSCommands()
	registerKVCommands()
	registerMQCommands()
	registerAuthCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
