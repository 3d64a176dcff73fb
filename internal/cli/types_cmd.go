package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/breakdesk/internal/cli/formatter"
	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newTypesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "types",
		Aliases: []string{"type"},
		Short:   "Manage break types",
	}

	cmd.AddCommand(
		newTypesListCmd(app),
		newTypesAddCmd(app),
	)

	return cmd
}

func newTypesListCmd(a *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List break types",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := a.Catalog.ListBreakTypes(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), breakTypeRows(types))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBreakTypes(types))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print break types as JSON")
	return cmd
}

func newTypesAddCmd(a *App) *cobra.Command {
	var id, name string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a break type",
		Example: "  breakdesk types add --id 1 --name Coffee --duration 15m\n" +
			"  breakdesk types add --name Lunch --duration 1h",
		RunE: func(cmd *cobra.Command, args []string) error {
			bt := &domain.BreakType{
				ID:          id,
				Name:        name,
				DurationSec: int64(duration / time.Second),
			}
			if err := a.Catalog.CreateBreakType(cmd.Context(), bt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added break type %s (%s) with ID %s\n",
				formatter.StyleGreen.Render("✔"), bt.Name, formatter.FormatSeconds(bt.DurationSec), bt.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Break type ID (generated when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "Allotted time, e.g. 15m or 1h")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("duration")

	return cmd
}

type breakTypeRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int64  `json:"duration"`
}

func breakTypeRows(types []*domain.BreakType) []breakTypeRow {
	rows := make([]breakTypeRow, 0, len(types))
	for _, t := range types {
		rows = append(rows, breakTypeRow{ID: t.ID, Name: t.Name, Duration: t.DurationSec})
	}
	return rows
}
