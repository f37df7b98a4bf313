package commands

import (
	"fmt"
	"strconv"

	"github.com/marshallshelly/stockroom/cmd/stockroom/output"
	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/workflow"
	"github.com/spf13/cobra"
)

// Shared by every delete command
var assumeYes bool

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category"},
	Short:   "Manage product categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authed()
		if err != nil {
			return err
		}
		cats, err := workflow.NewCatalogDesk(e.client, e.options()...).LoadCategories(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(cats)
		}
		if len(cats) == 0 {
			output.Info("No categories yet")
			return nil
		}
		rows := make([][]string, 0, len(cats))
		for _, c := range cats {
			rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name})
		}
		output.Table([]string{"ID", "Name"}, rows)
		return nil
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authed()
		if err != nil {
			return err
		}
		cat, err := workflow.NewCatalogDesk(e.client, e.options()...).
			CreateCategory(cmd.Context(), forms.Category{Name: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(cat)
		}
		output.Success("Created category %q (id %d)", cat.Name, cat.ID)
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a category",
	Long: `Delete a category. Its products are kept without a category.

Examples:
  stockroom categories delete 3
  stockroom categories delete 3 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		e, err := authed()
		if err != nil {
			return err
		}
		desk := workflow.NewCatalogDesk(e.client, e.options()...)
		if err := desk.DeleteCategory(cmd.Context(), id, confirmer(assumeYes)); err != nil {
			return err
		}
		output.Success("Deleted category %d", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd, categoriesAddCmd, categoriesDeleteCmd)

	categoriesDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
