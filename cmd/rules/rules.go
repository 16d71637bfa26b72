// Package rules handles categorization rule commands
package rules

import (
	"fmt"
	"io"

	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/report"
	"fjacquet/finledger/internal/rules"
	"fjacquet/finledger/internal/seed"
	"fjacquet/finledger/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	category  string
	amountMin string
	amountMax string
	priority  int
	inactive  bool
	limit     int
	batchSize int
	format    string
	output    string
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage and run categorization rules",
	Long: `Manage the rules that assign categories to imported transactions.

A rule is a regular expression searched for, ignoring case, in the
transaction description, optionally limited to an inclusive signed amount
range. Active rules are tried by ascending priority, then by id, and the
first match wins.`,
}

var addCmd = &cobra.Command{
	Use:   "add <pattern>",
	Short: "Add a rule",
	Long: `Add a rule assigning --category to transactions whose description matches
pattern.

Example:
  finledger rules add "walmart|aldi" --category Groceries --max -0.01`,
	Args: cobra.ExactArgs(1),
	RunE: addFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules in evaluation order",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var enableCmd = &cobra.Command{
	Use:   "enable <rule-id>",
	Short: "Enable a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <rule-id>",
	Short: "Disable a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], false)
	},
}

var dryRunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Show the categories the rules would assign",
	Long: `Show which rule would categorize each uncategorized transaction, most
recent first, without changing anything.`,
	Args: cobra.NoArgs,
	RunE: dryRunFunc,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Categorize uncategorized transactions with the rules",
	Long: `Categorize every uncategorized transaction a rule matches. Transactions
in closed periods are left alone. All assignments are stored together.`,
	Args: cobra.NoArgs,
	RunE: applyFunc,
}

var loadCmd = &cobra.Command{
	Use:   "load <rulebook.yaml>",
	Short: "Load categories and rules from a YAML rulebook",
	Long: `Load a rulebook of the form:

  categories:
    - name: Food
    - name: Groceries
      parent: Food
  rules:
    - pattern: "walmart"
      category: Groceries
      amount_max: "-0.01"
      priority: 10

Missing categories are created and every rule is added. Nothing is stored if
any entry is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: loadFunc,
}

func init() {
	addCmd.Flags().StringVarP(&category, "category", "c", "", "Category assigned by the rule")
	addCmd.Flags().StringVar(&amountMin, "min", "", "Lowest signed amount matched (inclusive)")
	addCmd.Flags().StringVar(&amountMax, "max", "", "Highest signed amount matched (inclusive)")
	addCmd.Flags().IntVarP(&priority, "priority", "p", models.DefaultRulePriority, "Evaluation priority, lower first")
	addCmd.Flags().BoolVar(&inactive, "inactive", false, "Create the rule disabled")
	_ = addCmd.MarkFlagRequired("category")

	dryRunCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum transactions examined (default from rules.dry_run_limit)")
	dryRunCmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or csv")
	dryRunCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default standard output)")

	applyCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Transactions read per batch (default from rules.batch_size)")

	Cmd.AddCommand(addCmd, listCmd, enableCmd, disableCmd, dryRunCmd, applyCmd, loadCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	spec := rules.RuleSpec{
		Pattern:  args[0],
		Category: category,
		Priority: &priority,
	}
	if inactive {
		active := false
		spec.Active = &active
	}

	var err error
	if spec.AmountMin, err = parseBound("min", amountMin); err != nil {
		return err
	}
	if spec.AmountMax, err = parseBound("max", amountMax); err != nil {
		return err
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	rule, err := c.GetRules().CreateRule(cmd.Context(), spec)
	if err != nil {
		return err
	}
	return root.PrintJSON(cmd, rule)
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	list, err := c.GetRules().ListRules(cmd.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []models.Rule{}
	}
	return root.PrintJSON(cmd, list)
}

func setActive(cmd *cobra.Command, arg string, active bool) error {
	id, err := root.ParseID("rule", arg)
	if err != nil {
		return err
	}
	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	if err := c.GetRules().SetActive(cmd.Context(), id, active); err != nil {
		return err
	}
	state := "disabled"
	if active {
		state = "enabled"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Rule %d %s\n", id, state)
	return err
}

func dryRunFunc(cmd *cobra.Command, args []string) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	n := limit
	if n == 0 {
		n = root.GetConfig().Rules.DryRunLimit
	}
	if err := validation.IsValidLimit("limit", n); err != nil {
		return err
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	matches, err := c.GetRules().DryRun(cmd.Context(), n)
	if err != nil {
		return err
	}
	return root.WithOutput(cmd, output, func(w io.Writer) error {
		return c.GetRenderer().Render(w, f, matches)
	})
}

func applyFunc(cmd *cobra.Command, args []string) error {
	n := batchSize
	if n == 0 {
		n = root.GetConfig().Rules.BatchSize
	}
	if err := validation.IsValidLimit("batch-size", n); err != nil {
		return err
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	updated, err := c.GetRules().Apply(cmd.Context(), n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Categorized %d transactions\n", updated)
	return err
}

func loadFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidInputFile(args[0]); err != nil {
		return err
	}
	book, err := seed.LoadRulebook(args[0])
	if err != nil {
		return err
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	sum, err := seed.ApplyRulebook(cmd.Context(), c.GetStore(), book, root.GetLogger())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d categories and %d rules\n", sum.Categories, sum.Rules)
	return err
}

func parseBound(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := models.ParseAmount(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &d, nil
}
