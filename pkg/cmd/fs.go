package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/coursevault/pkg/internal/storage/filestore"
)

var (
	fsCmd = &cobra.Command{
		Use:     "fs",
		Short:   "File store related commands",
		Aliases: []string{"filestore"},
	}

	fsListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered file store types",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered file store types:")
			for _, t := range filestore.GetRegisteredTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(t))
			}
		},
	}
)

// registerFSCommands 注册文件存储相关命令.
func registerFSCommands() {
	rootCmd.AddCommand(fsCmd)
	fsCmd.AddCommand(fsListCmd)
}
