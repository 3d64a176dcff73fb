package cli

import (
	"fmt"

	"github.com/alexanderramin/breakdesk/internal/cli/formatter"
	"github.com/alexanderramin/breakdesk/internal/config"
	"github.com/spf13/cobra"
)

func newSeedCmd(a *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users and break types from a YAML catalog",
		Long: "Load users and break types from a YAML catalog. Entries are upserted\n" +
			"by ID, so seeding the same file twice leaves the store unchanged.",
		Example: "  breakdesk seed --file catalog.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := config.LoadCatalog(file)
			if err != nil {
				return err
			}
			users, types, err := cat.Domain()
			if err != nil {
				return err
			}
			res, err := a.Catalog.Seed(cmd.Context(), users, types)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s seeded %d users and %d break types from %s\n",
				formatter.StyleGreen.Render("✔"), res.Users, res.BreakTypes, file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog YAML file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
