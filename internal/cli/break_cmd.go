package cli

import (
	"fmt"

	"github.com/alexanderramin/breakdesk/internal/app"
	"github.com/alexanderramin/breakdesk/internal/cli/formatter"
	"github.com/alexanderramin/breakdesk/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBreakCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Start, end and follow an agent's break",
	}

	cmd.AddCommand(
		newBreakStartCmd(app),
		newBreakEndCmd(app),
		newBreakStatusCmd(app),
		newBreakWatchCmd(app),
	)

	return cmd
}

func newBreakStartCmd(a *App) *cobra.Command {
	var agentID, breakTypeID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a break for an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if breakTypeID == "" {
				if !a.interactive() {
					return fmt.Errorf("--type is required when not running interactively")
				}
				picked, err := pickBreakType(ctx, a)
				if err != nil {
					return err
				}
				breakTypeID = picked
			}

			d, err := a.Breaks.StartBreak(ctx, agentID, breakTypeID)
			if err != nil {
				return err
			}
			v := app.NewSessionView(d, a.now())
			if asJSON {
				return printJSON(cmd.OutOrStdout(), v)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s started %s, due back at %s\n",
				formatter.StyleGreen.Render("●"), v.AgentName, v.BreakTypeName,
				formatter.ClockTime(v.ExpectedEndTime, a.now()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent ID")
	cmd.Flags().StringVarP(&breakTypeID, "type", "t", "", "Break type ID (prompted when omitted)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")
	_ = cmd.MarkFlagRequired("agent")

	return cmd
}

func newBreakEndCmd(a *App) *cobra.Command {
	var agentID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "end",
		Short: "End an agent's ongoing break",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.Breaks.EndBreak(cmd.Context(), agentID)
			if err != nil {
				return err
			}
			v := app.NewSessionView(d, a.now())
			if asJSON {
				return printJSON(cmd.OutOrStdout(), v)
			}
			fmt.Fprint(cmd.OutOrStdout(), endedMessage(v))
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")
	_ = cmd.MarkFlagRequired("agent")

	return cmd
}

func endedMessage(v app.SessionView) string {
	msg := fmt.Sprintf("%s %s ended %s after %s",
		formatter.Dim("✔"), v.AgentName, v.BreakTypeName, formatter.FormatSeconds(v.ElapsedSec))
	if v.ViolationSec > 0 {
		msg += fmt.Sprintf(", %s over the allotted %s",
			formatter.StyleRed.Render(formatter.FormatSeconds(v.ViolationSec)),
			formatter.FormatSeconds(v.AllottedSec))
	}
	return msg + "\n"
}

func newBreakStatusCmd(a *App) *cobra.Command {
	var agentID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show an agent's ongoing break",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.Breaks.Current(cmd.Context(), agentID)
			if err != nil {
				if domain.KindOf(err) == domain.KindNotFound && !asJSON {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Not on a break."))
					return nil
				}
				return err
			}
			now := a.now()
			v := app.NewSessionView(d, now)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), v)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(v, now))
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")
	_ = cmd.MarkFlagRequired("agent")

	return cmd
}

func newBreakWatchCmd(a *App) *cobra.Command {
	var agentID string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a live countdown for an agent's ongoing break",
		Long: "Show a live countdown for an agent's ongoing break. Press e to end the\n" +
			"break or q to leave the timer running. Overtime is displayed but only\n" +
			"recorded when the break is ended.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := a.Breaks.Current(ctx, agentID)
			if err != nil {
				return err
			}
			if !a.interactive() {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(app.NewSessionView(d, a.now()), a.now()))
				return nil
			}

			m := newBreakTimerModel(ctx, a, d)
			final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
			if err != nil {
				return fmt.Errorf("running break timer: %w", err)
			}
			if tm, ok := final.(*breakTimerModel); ok {
				if tm.err != nil {
					return tm.err
				}
				if tm.ended != nil {
					fmt.Fprint(cmd.OutOrStdout(), endedMessage(*tm.ended))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent ID")
	_ = cmd.MarkFlagRequired("agent")

	return cmd
}

