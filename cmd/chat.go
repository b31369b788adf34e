package cmd

import (
	"github.com/spf13/cobra"
)

var (
	chatPage     int
	chatPageSize int
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat operations",
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of chats the app belongs to",
	Long: `List one page of chats the app belongs to. Page through results with --page.

Examples:
  feishu-reader chat list
  feishu-reader chat list --page 2 --page-size 50`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		resp, err := client.ListChats(cmd.Context(), chatPage, chatPageSize)
		if err != nil {
			return err
		}

		return printJSON(cmd, resp)
	},
}

func init() {
	chatListCmd.Flags().IntVar(&chatPage, "page", 1, "Page number (1-based)")
	chatListCmd.Flags().IntVar(&chatPageSize, "page-size", 100, "Chats per page")

	chatCmd.AddCommand(chatListCmd)
	rootCmd.AddCommand(chatCmd)
}
