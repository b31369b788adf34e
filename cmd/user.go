package cmd

import (
	"github.com/spf13/cobra"
)

var userDetail bool

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User operations",
}

var userGetCmd = &cobra.Command{
	Use:   "get <open-id>",
	Short: "Fetch a user's detail record by open id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		resp, err := client.GetUserDetail(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(cmd, resp)
	},
}

var userFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find a home department user by exact name",
	Long: `Find a user by exact name in the first page of home department users.
Prints {} when nobody matches.

Examples:
  feishu-reader user find "Alice Zhang"
  feishu-reader user find "Alice Zhang" --detail --department od-1234`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		var resp map[string]any
		if userDetail {
			resp, err = client.GetHomeDepartmentUserDetailByName(cmd.Context(), args[0])
		} else {
			resp, err = client.FindHomeDepartmentUserByName(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}

		return printJSON(cmd, resp)
	},
}

func init() {
	userFindCmd.Flags().BoolVar(&userDetail, "detail", false, "Fetch the matched user's detail record")

	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userFindCmd)
	rootCmd.AddCommand(userCmd)
}
