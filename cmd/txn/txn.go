// Package txn handles transaction commands
package txn

import (
	"fmt"

	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"

	"github.com/spf13/cobra"
)

var (
	from          string
	to            string
	uncategorized bool
	unposted      bool
	limit         int
)

// Cmd represents the txn command
var Cmd = &cobra.Command{
	Use:   "txn",
	Short: "List, recategorize and delete transactions",
	Long: `Inspect and correct imported transactions. Changes to transactions dated
inside a closed period are refused.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions by date",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var setCategoryCmd = &cobra.Command{
	Use:   "set-category <txn-id> [category]",
	Short: "Override the category of a transaction",
	Long: `Assign category to a transaction, replacing whatever a rule chose. Without
a category the transaction becomes uncategorized again. Existing postings are
kept; run "finledger post --txn <id>" to regenerate them.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: setCategoryFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <txn-id>",
	Short: "Delete a transaction and its postings",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

func init() {
	listCmd.Flags().StringVar(&from, "from", "", "First date included (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", "", "Last date included (YYYY-MM-DD)")
	listCmd.Flags().BoolVarP(&uncategorized, "uncategorized", "u", false, "Only transactions without a category")
	listCmd.Flags().BoolVar(&unposted, "unposted", false, "Only transactions without postings")
	listCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum transactions listed (0 for all)")
	Cmd.AddCommand(listCmd, setCategoryCmd, deleteCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	filter := store.TransactionFilter{
		UncategorizedOnly: uncategorized,
		UnpostedOnly:      unposted,
		Limit:             limit,
	}
	var err error
	if from != "" {
		if filter.From, err = root.ParseDate("from", from); err != nil {
			return err
		}
	}
	if to != "" {
		if filter.To, err = root.ParseDate("to", to); err != nil {
			return err
		}
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	list, err := c.GetTransactions().List(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if list == nil {
		list = []models.Transaction{}
	}
	return root.PrintJSON(cmd, list)
}

func setCategoryFunc(cmd *cobra.Command, args []string) error {
	id, err := root.ParseID("transaction", args[0])
	if err != nil {
		return err
	}
	name := ""
	if len(args) == 2 {
		name = args[1]
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	if err := c.GetTransactions().SetCategory(cmd.Context(), id, name); err != nil {
		return err
	}

	if name == "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Transaction %d is now uncategorized\n", id)
	} else {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Transaction %d categorized as %s\n", id, name)
	}
	return err
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	id, err := root.ParseID("transaction", args[0])
	if err != nil {
		return err
	}
	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	if err := c.GetTransactions().Delete(cmd.Context(), id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Transaction %d deleted\n", id)
	return err
}
