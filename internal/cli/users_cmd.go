package cli

import (
	"fmt"

	"github.com/alexanderramin/breakdesk/internal/cli/formatter"
	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage agents and managers",
	}

	cmd.AddCommand(
		newUsersListCmd(app),
		newUsersAddCmd(app),
	)

	return cmd
}

func newUsersListCmd(a *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.Catalog.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), userRows(users))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUsers(users))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print users as JSON")
	return cmd
}

func newUsersAddCmd(a *App) *cobra.Command {
	var id, name, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{ID: id, Name: name, Role: domain.UserRole(role)}
			if err := a.Catalog.CreateUser(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added %s %s with ID %s\n",
				formatter.StyleGreen.Render("✔"), u.Role, u.Name, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User ID (generated when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAgent), "agent, manager or admin")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

type userRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func userRows(users []*domain.User) []userRow {
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{ID: u.ID, Name: u.Name, Role: string(u.Role)})
	}
	return rows
}
