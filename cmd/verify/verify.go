// Package verify handles ledger consistency checks
package verify

import (
	"fmt"

	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the verify command
var Cmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every posted transaction balances",
	Long: `Check that, for every transaction with postings, the debits and the credits
both equal the absolute transaction amount. Unbalanced transactions are
listed and the command fails.`,
	Args: cobra.NoArgs,
	RunE: verifyFunc,
}

func verifyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	unbalanced, err := c.GetPostings().VerifyBalanced(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(unbalanced) == 0 {
		_, err = fmt.Fprintln(out, "All posted transactions balance")
		return err
	}

	for _, u := range unbalanced {
		fmt.Fprintf(out, "transaction %d: amount %s, debits %s, credits %s\n",
			u.TransactionID,
			models.FormatAmount(u.Amount.Abs()),
			models.FormatAmount(u.Debits),
			models.FormatAmount(u.Credits))
	}
	return fmt.Errorf("%d unbalanced transactions", len(unbalanced))
}
