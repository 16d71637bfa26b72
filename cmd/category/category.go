// Package category handles category tree commands
package category

import (
	"fmt"
	"strings"

	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/internal/models"

	"github.com/spf13/cobra"
)

var parent string

// Cmd represents the category command
var Cmd = &cobra.Command{
	Use:   "category",
	Short: "Manage the category tree",
	Long: `Manage the categories transactions are assigned to. Categories form a tree;
a category may have at most one parent and cycles are rejected.`,
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE:  addFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their full path",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var setParentCmd = &cobra.Command{
	Use:   "set-parent <name> [parent]",
	Short: "Move a category under another one, or to the root",
	Long: `Move a category under parent. Without a parent the category becomes a
root category.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: setParentFunc,
}

func init() {
	addCmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent category")
	Cmd.AddCommand(addCmd, listCmd, setParentCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	created, err := c.GetCategories().Create(cmd.Context(), args[0], parent)
	if err != nil {
		return err
	}
	return root.PrintJSON(cmd, created)
}

type categoryView struct {
	models.Category
	Path string `json:"path"`
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	svc := c.GetCategories()

	list, err := svc.List(cmd.Context())
	if err != nil {
		return err
	}

	views := make([]categoryView, 0, len(list))
	for _, cat := range list {
		path, err := svc.Path(cmd.Context(), cat.Name)
		if err != nil {
			return err
		}
		views = append(views, categoryView{Category: cat, Path: strings.Join(path, " > ")})
	}
	return root.PrintJSON(cmd, views)
}

func setParentFunc(cmd *cobra.Command, args []string) error {
	newParent := ""
	if len(args) == 2 {
		newParent = args[1]
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}
	if err := c.GetCategories().SetParent(cmd.Context(), args[0], newParent); err != nil {
		return err
	}

	if newParent == "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is now a root category\n", args[0])
	} else {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s moved under %s\n", args[0], newParent)
	}
	return err
}
