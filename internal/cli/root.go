package cli

import (
	"time"

	"github.com/alexanderramin/breakdesk/internal/httpapi"
	"github.com/alexanderramin/breakdesk/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and runtime hooks used by CLI commands.
type App struct {
	Breaks  service.BreakService
	History service.HistoryService
	Catalog service.CatalogService

	// HTTP and Addr back the serve command.
	HTTP *httpapi.Server
	Addr string

	// IsInteractive reports whether prompts and live views may be used.
	IsInteractive func() bool
	// Now is the display clock; nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "breakdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "breakdesk",
		Short:         "Track agent breaks and review break history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBreakCmd(app),
		newHistoryCmd(app),
		newReportCmd(app),
		newTypesCmd(app),
		newUsersCmd(app),
		newSeedCmd(app),
		newServeCmd(app),
	)

	return root
}
