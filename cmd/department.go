package cmd

import (
	"fmt"

	"github.com/sethrylan/feishu-reader/internal/output"
	"github.com/spf13/cobra"
)

var (
	usersPageSize int
	usersOffset   int
	usersFormat   string
)

var departmentCmd = &cobra.Command{
	Use:   "department",
	Short: "Department operations",
}

var departmentScopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "List the departments the app is authorized for",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		resp, err := client.ListAuthorizedDepartments(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd, resp)
	},
}

var departmentHomeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the home department id",
	Long: `Show the home department id: --department, FEISHU_HOME_DEPARTMENT, or the first
authorized department.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		id, err := client.HomeDepartment(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd, map[string]any{"department_id": id})
	},
}

var departmentInfoCmd = &cobra.Command{
	Use:   "info [department-id]",
	Short: "Show department metadata (default: home department)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		var resp map[string]any
		if len(args) == 1 {
			resp, err = client.GetDepartmentInfo(cmd.Context(), args[0])
		} else {
			resp, err = client.GetHomeDepartmentInfo(cmd.Context())
		}
		if err != nil {
			return err
		}

		return printJSON(cmd, resp)
	},
}

var departmentUsersCmd = &cobra.Command{
	Use:   "users [department-id]",
	Short: "List one page of users in a department and its children (default: home department)",
	Long: `List one page of users in a department, including child departments.

Examples:
  feishu-reader department users
  feishu-reader department users od-1234 --page-size 50 --offset 50
  feishu-reader department users --format csv > users.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if usersFormat != "json" && usersFormat != "csv" {
			return fmt.Errorf("--format must be json or csv, got %q", usersFormat)
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		var resp map[string]any
		if len(args) == 1 {
			resp, err = client.ListDepartmentUsers(cmd.Context(), args[0], usersPageSize, usersOffset)
		} else {
			resp, err = client.ListHomeDepartmentUsers(cmd.Context(), usersPageSize, usersOffset)
		}
		if err != nil {
			return err
		}

		if usersFormat == "csv" {
			return output.PrintCSV(cmd.OutOrStdout(), output.UserRows(resp))
		}
		return printJSON(cmd, resp)
	},
}

func init() {
	departmentUsersCmd.Flags().IntVar(&usersPageSize, "page-size", 100, "Users per page")
	departmentUsersCmd.Flags().IntVar(&usersOffset, "offset", 0, "Offset of the first user")
	departmentUsersCmd.Flags().StringVar(&usersFormat, "format", "json", "Output format: json or csv")

	departmentCmd.AddCommand(departmentScopeCmd)
	departmentCmd.AddCommand(departmentHomeCmd)
	departmentCmd.AddCommand(departmentInfoCmd)
	departmentCmd.AddCommand(departmentUsersCmd)
	rootCmd.AddCommand(departmentCmd)
}
