// Package cmd implements the CLI commands for feishu-reader.
package cmd

import (
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Feishu app authentication",
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Exchange the app credentials for an app access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		token, err := client.Token(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd, map[string]any{"app_access_token": token})
	},
}

func init() {
	authCmd.AddCommand(authTokenCmd)
	rootCmd.AddCommand(authCmd)
}
