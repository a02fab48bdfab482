package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yeisme/coursevault/pkg/auth"
)

var (
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authentication related commands",
	}

	hashPasswordCmd = &cobra.Command{
		Use:   "hash-password [password]",
		Short: "generate a bcrypt hash for the admin password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")

				b, err := term.ReadPassword(0)
				fmt.Fprintln(cmd.OutOrStdout())

				if err != nil {
					return err
				}
				password = string(b)
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)

			return nil
		},
	}
)

// registerAuthCommands 注册认证相关命令.
func registerAuthCommands() {
	authCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(authCmd)
}
