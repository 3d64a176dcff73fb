package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/breakdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the break API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.HTTP == nil {
				return errors.New("http server is not configured")
			}
			if addr == "" {
				addr = a.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "%s listening on %s\n", formatter.StyleGreen.Render("●"), addr)
			return a.HTTP.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from BREAKDESK_ADDR)")
	return cmd
}
