package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/breakdesk/internal/app"
	"github.com/alexanderramin/breakdesk/internal/cli/formatter"
	"github.com/alexanderramin/breakdesk/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// sortKeyValue is a pflag.Value that rejects unknown sort keys at parse
// time.
type sortKeyValue struct {
	key report.SortKey
}

func (v *sortKeyValue) String() string { return string(v.key) }
func (v *sortKeyValue) Type() string   { return "sort" }

func (v *sortKeyValue) Set(s string) error {
	k, err := report.ParseSortKey(s)
	if err != nil {
		return err
	}
	v.key = k
	return nil
}

var _ pflag.Value = (*sortKeyValue)(nil)

func sortKeyNames() string {
	names := make([]string, len(report.ValidSortKeys))
	for i, k := range report.ValidSortKeys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// addSessionFilterFlags binds the history filters onto fs.
func addSessionFilterFlags(fs *pflag.FlagSet, req *app.HistoryRequest, sort *sortKeyValue) {
	fs.StringVarP(&req.AgentID, "agent", "a", "", "Only sessions of this agent ID")
	fs.StringVarP(&req.BreakTypeID, "type", "t", "", "Only sessions of this break type ID")
	fs.StringVar(&req.Status, "status", "", "ONGOING or ENDED")
	fs.StringVarP(&req.AgentName, "agent-name", "n", "", "Agent name substring or glob (e.g. 'al*')")
	fs.StringVarP(&req.Range, "range", "r", "", "all, today, week, month or custom")
	fs.StringVar(&req.Start, "from", "", "Custom range start (YYYY-MM-DD or RFC3339)")
	fs.StringVar(&req.End, "to", "", "Custom range end, inclusive for dates (YYYY-MM-DD or RFC3339)")
	fs.Var(sort, "sort", "Sort by "+sortKeyNames())
}

func newHistoryCmd(a *App) *cobra.Command {
	var req app.HistoryRequest
	sort := &sortKeyValue{key: report.SortRecent}
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List break sessions with summary statistics",
		Example: "  breakdesk history --range today\n" +
			"  breakdesk history --status ENDED --sort violations\n" +
			"  breakdesk history --from 2026-03-01 --to 2026-03-07 --agent-name 'al*'",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Sort = string(sort.key)
			resp, err := a.History.History(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(resp, a.now()))
			return nil
		},
	}

	addSessionFilterFlags(cmd.Flags(), &req, sort)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print sessions and aggregates as JSON")

	return cmd
}
