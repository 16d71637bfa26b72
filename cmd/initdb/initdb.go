// Package initdb handles ledger initialization
package initdb

import (
	"fmt"

	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/internal/seed"

	"github.com/spf13/cobra"
)

// Cmd represents the init command
var Cmd = &cobra.Command{
	Use:   "init",
	Short: "Create the ledger database and seed the starter accounts",
	Long: `Create the ledger database, apply pending schema migrations and seed the
starter accounts (Checking, Savings, Income, Expenses, Transfers) and
categories. Running init again on an existing ledger only fills in what is
missing.

Example:
  finledger init --db ~/finance/ledger.db`,
	Args: cobra.NoArgs,
	RunE: initFunc,
}

func initFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}

	sum, err := seed.Minimal(cmd.Context(), c.GetStore(), root.GetLogger())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Ledger ready at %s (%d accounts and %d categories created)\n",
		c.GetStore().Path(), sum.Accounts, sum.Categories)
	return err
}
