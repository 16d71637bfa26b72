// Package report handles reporting commands
package report

import (
	"io"
	"time"

	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/internal/container"
	"fjacquet/finledger/internal/report"

	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	month  string
	format string
	output string
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Produce financial reports from the ledger",
	Long: `Produce read-only reports as JSON or CSV. Money is written with two decimal
places. Date ranges are inclusive and given with --from/--to or as a single
--month.

Example:
  finledger report cashflow --from 2024-01-01 --to 2024-12-31 --format csv
  finledger report reconcile --month 2024-01`,
}

var cashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Income, expenses and net per month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ranged(cmd, func(c *container.Container, start, end time.Time) (interface{}, error) {
			return c.GetReports().CashflowByMonth(cmd.Context(), start, end)
		})
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending per category, largest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ranged(cmd, func(c *container.Container, start, end time.Time) (interface{}, error) {
			return c.GetReports().CategoryBreakdown(cmd.Context(), start, end)
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Opening balance, inflows, outflows and closing balance of a period",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ranged(cmd, func(c *container.Container, start, end time.Time) (interface{}, error) {
			return c.GetReports().Reconciliation(cmd.Context(), start, end)
		})
	},
}

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Debits minus credits of every posted account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, func(c *container.Container) (interface{}, error) {
			return c.GetReports().AccountBalances(cmd.Context())
		})
	},
}

var uncategorizedCmd = &cobra.Command{
	Use:   "uncategorized",
	Short: "Number of transactions without a category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, func(c *container.Container) (interface{}, error) {
			n, err := c.GetReports().UncategorizedCount(cmd.Context())
			return report.UncategorizedCount{Uncategorized: n}, err
		})
	},
}

func init() {
	Cmd.PersistentFlags().StringVar(&from, "from", "", "First date included (YYYY-MM-DD)")
	Cmd.PersistentFlags().StringVar(&to, "to", "", "Last date included (YYYY-MM-DD)")
	Cmd.PersistentFlags().StringVarP(&month, "month", "m", "", "Report a single month (YYYY-MM) instead of --from/--to")
	Cmd.PersistentFlags().StringVarP(&format, "format", "f", "json", "Output format: json or csv")
	Cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output file (default standard output)")

	Cmd.AddCommand(cashflowCmd, categoriesCmd, balancesCmd, reconcileCmd, uncategorizedCmd)
}

func ranged(cmd *cobra.Command, query func(c *container.Container, start, end time.Time) (interface{}, error)) error {
	start, end, err := root.ResolveRange(month, from, to)
	if err != nil {
		return err
	}
	return render(cmd, func(c *container.Container) (interface{}, error) {
		return query(c, start, end)
	})
}

func render(cmd *cobra.Command, query func(c *container.Container) (interface{}, error)) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	data, err := query(c)
	if err != nil {
		return err
	}

	return root.WithOutput(cmd, output, func(w io.Writer) error {
		return c.GetRenderer().Render(w, f, data)
	})
}
