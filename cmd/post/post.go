// Package post handles posting generation commands
package post

import (
	"fmt"

	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/internal/validation"

	"github.com/spf13/cobra"
)

var (
	limit int
	txnID int64
)

// Cmd represents the post command
var Cmd = &cobra.Command{
	Use:   "post",
	Short: "Generate balanced double-entry postings",
	Long: `Generate a balanced pair of postings for transactions that have none yet,
oldest first. Each pair moves the absolute amount between the statement's
asset account and the category's expense or income account, which is created
on first use. Uncategorized transactions post against Expenses or Income.

With --txn the postings of one transaction are regenerated, for instance after
its category changed.

Example:
  finledger post --limit 500
  finledger post --txn 42`,
	Args: cobra.NoArgs,
	RunE: postFunc,
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum transactions posted (default from posting.limit)")
	Cmd.Flags().Int64Var(&txnID, "txn", 0, "Regenerate the postings of this transaction only")
}

func postFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	generator := c.GetPostings()

	if txnID != 0 {
		n, err := generator.GenerateForTransaction(cmd.Context(), txnID)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Transaction %d posted (%d postings)\n", txnID, n)
		return err
	}

	n := limit
	if n == 0 {
		n = root.GetConfig().Posting.Limit
	}
	if err := validation.IsValidLimit("limit", n); err != nil {
		return err
	}

	posted, err := generator.GenerateAll(cmd.Context(), n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Posted %d transactions\n", posted)
	return err
}
