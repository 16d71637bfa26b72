// Package closeperiod handles period closure commands
package closeperiod

import (
	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/internal/dateutils"
	"fjacquet/finledger/internal/models"

	"github.com/spf13/cobra"
)

var (
	from  string
	to    string
	month string
)

// Cmd represents the close command
var Cmd = &cobra.Command{
	Use:   "close",
	Short: "Close accounting periods",
	Long: `Close accounting periods. Transactions dated inside a closed period can no
longer be recategorized, deleted or reposted, and rule application and bulk
posting skip them.`,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Close a period",
	Long: `Close the inclusive period given by --month or by --from and --to.

Example:
  finledger close add --month 2024-01
  finledger close add --from 2024-01-01 --to 2024-03-31`,
	Args: cobra.NoArgs,
	RunE: addFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List closed periods",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

func init() {
	addCmd.Flags().StringVar(&from, "from", "", "First date of the period (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&to, "to", "", "Last date of the period (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&month, "month", "m", "", "Close a whole month (YYYY-MM)")
	Cmd.AddCommand(addCmd, listCmd)
}

type closureView struct {
	ID          int64  `json:"id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	ClosedAt    string `json:"closed_at"`
}

func view(c models.PeriodClosure) closureView {
	return closureView{
		ID:          c.ID,
		PeriodStart: dateutils.ToISODate(c.PeriodStart),
		PeriodEnd:   dateutils.ToISODate(c.PeriodEnd),
		ClosedAt:    c.ClosedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func addFunc(cmd *cobra.Command, args []string) error {
	start, end, err := root.ResolveRange(month, from, to)
	if err != nil {
		return err
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	closed, err := c.GetClosures().Close(cmd.Context(), start, end)
	if err != nil {
		return err
	}
	return root.PrintJSON(cmd, view(closed))
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	closures, err := c.GetClosures().List(cmd.Context())
	if err != nil {
		return err
	}

	views := make([]closureView, 0, len(closures))
	for _, cl := range closures {
		views = append(views, view(cl))
	}
	return root.PrintJSON(cmd, views)
}
